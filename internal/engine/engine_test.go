package engine

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/catalogue"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e, err := New(filepath.Join("testdata", "catalogue.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("constructing engine: %v", err)
	}
	return e
}

func newEngineFromJSON(t *testing.T, content string) *Engine {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalogue.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalogue: %v", err)
	}

	e, err := New(path, zap.NewNop())
	if err != nil {
		t.Fatalf("constructing engine: %v", err)
	}
	return e
}

func TestNewMissingCatalogue(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	if !errors.Is(err, catalogue.ErrNotFound) {
		t.Fatalf("expected catalogue.ErrNotFound, got %v", err)
	}
}

func TestRecommendRanksFullMatchesFirst(t *testing.T) {
	e := newTestEngine(t)

	recs := e.Recommend(&Criteria{
		TargetRole: String("analyst"),
		UseCase:    String("hiring"),
	}, 5)

	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(recs))
	}

	// Four records fully satisfy both dimensions; ties keep catalogue order.
	wantOrder := []string{"verify_numerical", "verify_verbal", "opq32", "inductive_puzzles"}
	for i, id := range wantOrder {
		if recs[i].ID != id {
			t.Fatalf("expected %s at position %d, got %s", id, i, recs[i].ID)
		}
		if recs[i].MatchScore != 100.0 {
			t.Fatalf("expected 100.0 for %s, got %v", id, recs[i].MatchScore)
		}
	}

	if recs[4].MatchScore >= 100.0 {
		t.Fatalf("expected a partial match in fifth place, got %v", recs[4].MatchScore)
	}
}

func TestRecommendExcludesIDsBeforeScoring(t *testing.T) {
	e := newTestEngine(t)

	recs := e.Recommend(&Criteria{
		TargetRole: String("analyst"),
		UseCase:    String("hiring"),
		ExcludeIDs: []string{"verify_numerical", "opq32"},
	}, 100)

	if len(recs) != 10 {
		t.Fatalf("expected 10 candidates after exclusion, got %d", len(recs))
	}

	for _, rec := range recs {
		if rec.ID == "verify_numerical" || rec.ID == "opq32" {
			t.Fatalf("excluded id %s present in output", rec.ID)
		}
	}
}

func TestRecommendExcludingEverything(t *testing.T) {
	e := newEngineFromJSON(t, `{"assessments": [
		{"id": "A1", "name": "Verify Numerical", "target_roles": ["analyst"], "use_cases": ["hiring"], "duration_minutes": 20}
	]}`)

	recs := e.Recommend(&Criteria{TargetRole: String("analyst"), ExcludeIDs: []string{"A1"}}, 5)
	if len(recs) != 0 {
		t.Fatalf("expected empty result, got %d records", len(recs))
	}
}

func TestRecommendTopNBounds(t *testing.T) {
	e := newTestEngine(t)
	c := &Criteria{UseCase: String("hiring")}

	if got := len(e.Recommend(c, 0)); got != 0 {
		t.Fatalf("expected 0 results for top_n=0, got %d", got)
	}
	if got := len(e.Recommend(c, -3)); got != 0 {
		t.Fatalf("expected 0 results for negative top_n, got %d", got)
	}
	if got := len(e.Recommend(c, 500)); got != 12 {
		t.Fatalf("expected all 12 results for oversized top_n, got %d", got)
	}
}

func TestRecommendAllUnsetCriteriaScoresZero(t *testing.T) {
	e := newTestEngine(t)

	recs := e.Recommend(&Criteria{}, 12)
	if len(recs) != 12 {
		t.Fatalf("expected 12 results, got %d", len(recs))
	}

	for _, rec := range recs {
		if rec.MatchScore != 0.0 {
			t.Fatalf("expected 0.0 for %s, got %v", rec.ID, rec.MatchScore)
		}
	}

	// With every score equal the stable sort preserves catalogue order.
	if recs[0].ID != "verify_numerical" || recs[11].ID != "leadership_potential" {
		t.Fatalf("expected catalogue order preserved, got %s ... %s", recs[0].ID, recs[11].ID)
	}
}

func TestRecommendRoundsScores(t *testing.T) {
	e := newTestEngine(t)

	recs := e.Recommend(&Criteria{
		Competencies: []string{"leadership", "communication", "piloting"},
	}, 1)

	if len(recs) != 1 {
		t.Fatalf("expected 1 result, got %d", len(recs))
	}
	if recs[0].ID != "opq32" {
		t.Fatalf("expected opq32 first, got %s", recs[0].ID)
	}
	// Two of three requested competencies overlap: 66.666... rounds to 66.67.
	if recs[0].MatchScore != 66.67 {
		t.Fatalf("expected 66.67, got %v", recs[0].MatchScore)
	}
}

func TestRecommendDoesNotMutateCatalogue(t *testing.T) {
	e := newTestEngine(t)

	recs := e.Recommend(&Criteria{TargetRole: String("analyst")}, 1)
	if len(recs) != 1 {
		t.Fatalf("expected 1 result, got %d", len(recs))
	}

	recs[0].Name = "tampered"

	stored := e.GetByID(recs[0].ID)
	if stored == nil {
		t.Fatal("expected stored record")
	}
	if stored.Name == "tampered" {
		t.Fatal("result mutation leaked into the catalogue snapshot")
	}
}

func TestRecommendFromTextSoftFailures(t *testing.T) {
	e := newTestEngine(t)

	if got := e.RecommendFromText("", 10); len(got) != 0 {
		t.Fatalf("expected empty result for empty text, got %d", len(got))
	}
	if got := e.RecommendFromText("   \n\t", 10); len(got) != 0 {
		t.Fatalf("expected empty result for whitespace text, got %d", len(got))
	}

	empty := newEngineFromJSON(t, `{"assessments": []}`)
	if got := empty.RecommendFromText("numerical reasoning", 10); len(got) != 0 {
		t.Fatalf("expected empty result for empty catalogue, got %d", len(got))
	}
}

func TestRecommendFromTextWindowClamp(t *testing.T) {
	e := newTestEngine(t)
	query := "numerical reasoning for analysts"

	if got := len(e.RecommendFromText(query, 3)); got != 5 {
		t.Fatalf("expected clamp up to 5, got %d", got)
	}
	if got := len(e.RecommendFromText(query, 50)); got != 10 {
		t.Fatalf("expected clamp down to 10, got %d", got)
	}
	if got := len(e.RecommendFromText(query, 7)); got != 7 {
		t.Fatalf("expected 7 inside the window, got %d", got)
	}
}

func TestRecommendFromTextSmallCatalogue(t *testing.T) {
	e := newEngineFromJSON(t, `{"assessments": [
		{"id": "a", "name": "Numerical Reasoning", "description": "charts tables arithmetic"},
		{"id": "b", "name": "Personality Profile", "description": "temperament preferences behaviour"},
		{"id": "c", "name": "Safety Awareness", "description": "hazards warehouses forklifts"}
	]}`)

	recs := e.RecommendFromText("numerical reasoning with charts", 10)
	if len(recs) != 3 {
		t.Fatalf("expected all 3 candidates, got %d", len(recs))
	}
	if recs[0].ID != "a" {
		t.Fatalf("expected the matching record first, got %s", recs[0].ID)
	}
	if recs[0].Similarity <= recs[1].Similarity {
		t.Fatalf("expected strictly best similarity first: %v vs %v", recs[0].Similarity, recs[1].Similarity)
	}
}

func TestRecommendFromTextRanksExactNameFirst(t *testing.T) {
	e := newTestEngine(t)

	recs := e.RecommendFromText("Situational Judgement for Managers", 10)
	if len(recs) != 10 {
		t.Fatalf("expected 10 results, got %d", len(recs))
	}

	if recs[0].ID != "sjt_manager" {
		t.Fatalf("expected sjt_manager first, got %s", recs[0].ID)
	}

	for i := 1; i < len(recs); i++ {
		if recs[i].Similarity > recs[i-1].Similarity {
			t.Fatalf("similarities not sorted descending at %d", i)
		}
	}

	for _, rec := range recs {
		if rec.Similarity < 0 || rec.Similarity > 1 {
			t.Fatalf("similarity out of range for %s: %v", rec.ID, rec.Similarity)
		}
	}
}

func TestEnginesAreDeterministicAcrossLoads(t *testing.T) {
	first := newTestEngine(t)
	second := newTestEngine(t)

	c := &Criteria{
		TargetRole:   String("manager"),
		Competencies: []string{"leadership"},
		UseCase:      String("promotion"),
	}

	if !reflect.DeepEqual(first.Recommend(c, 10), second.Recommend(c, 10)) {
		t.Fatal("structured recommendations differ between identical loads")
	}

	query := "leadership potential for future directors"
	if !reflect.DeepEqual(first.RecommendFromText(query, 10), second.RecommendFromText(query, 10)) {
		t.Fatal("text recommendations differ between identical loads")
	}
}
