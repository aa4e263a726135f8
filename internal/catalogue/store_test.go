package catalogue

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T) *Store {
	t.Helper()

	store, err := Load(filepath.Join("testdata", "catalogue.json"))
	if err != nil {
		t.Fatalf("loading fixture catalogue: %v", err)
	}
	return store
}

func writeCatalogue(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalogue.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalogue: %v", err)
	}
	return path
}

func TestLoadFixture(t *testing.T) {
	store := loadFixture(t)

	if store.Len() != 3 {
		t.Fatalf("expected 3 assessments, got %d", store.Len())
	}

	first := store.GetAll()[0]
	if first.ID != "verify_numerical" {
		t.Fatalf("expected source order preserved, got %s first", first.ID)
	}
	if first.Category != DefaultCategory {
		t.Fatalf("expected default category, got %q", first.Category)
	}

	second := store.GetAll()[1]
	if second.Category != "personality_solution" {
		t.Fatalf("expected explicit category kept, got %q", second.Category)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeCatalogue(t, "{not json")

	_, err := Load(path)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadWrongShape(t *testing.T) {
	path := writeCatalogue(t, `{"assessments": {"id": "x"}}`)

	_, err := Load(path)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for non-list assessments, got %v", err)
	}
}

func TestLoadMissingAssessmentsKey(t *testing.T) {
	path := writeCatalogue(t, `{"catalogue_version": 2}`)

	store, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty catalogue, got %d records", store.Len())
	}
}

func TestGetByID(t *testing.T) {
	store := loadFixture(t)

	a := store.GetByID("opq32")
	if a == nil {
		t.Fatal("expected record for opq32")
	}
	if a.Name != "Occupational Personality Questionnaire" {
		t.Fatalf("unexpected name: %s", a.Name)
	}

	if store.GetByID("missing") != nil {
		t.Fatal("expected nil for unknown id")
	}
}

func TestSearchByName(t *testing.T) {
	store := loadFixture(t)

	tests := []struct {
		name string
		term string
		ids  []string
	}{
		{
			name: "case insensitive name match",
			term: "PERSONALITY",
			ids:  []string{"opq32"},
		},
		{
			name: "description match",
			term: "people managers",
			ids:  []string{"sjt_manager"},
		},
		{
			name: "empty term matches everything",
			term: "",
			ids:  []string{"verify_numerical", "opq32", "sjt_manager"},
		},
		{
			name: "no match",
			term: "astronaut",
			ids:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.SearchByName(tt.term)
			if len(got) != len(tt.ids) {
				t.Fatalf("expected %d results, got %d", len(tt.ids), len(got))
			}
			for i, id := range tt.ids {
				if got[i].ID != id {
					t.Fatalf("expected %s at position %d, got %s", id, i, got[i].ID)
				}
			}
		})
	}
}

func TestDocumentJoinsTextFields(t *testing.T) {
	a := Assessment{
		Name:        "Verify Numerical",
		Description: "Numbers.",
		Type:        "cognitive",
	}

	if got := a.Document(); got != "Verify Numerical Numbers. cognitive" {
		t.Fatalf("unexpected document: %q", got)
	}
}
