package catalogue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	json "github.com/goccy/go-json"
)

var (
	// ErrNotFound means the catalogue source does not exist. Fatal to
	// engine construction.
	ErrNotFound = errors.New("catalogue file not found")
	// ErrMalformed means the source exists but cannot be parsed as an
	// object with an "assessments" list. Fatal to engine construction.
	ErrMalformed = errors.New("catalogue file is malformed")
)

// Store holds the catalogue snapshot for the lifetime of an engine
// instance. It is read-only after Load; no caching is shared between
// instances, every Load re-reads the source.
type Store struct {
	path        string
	assessments []Assessment
}

type catalogueFile struct {
	Assessments []Assessment `json:"assessments"`
}

// Load reads the catalogue from the given JSON file. A missing
// "assessments" key yields an empty catalogue, not an error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading catalogue %s: %w", path, err)
	}

	var file catalogueFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	for i := range file.Assessments {
		if file.Assessments[i].Category == "" {
			file.Assessments[i].Category = DefaultCategory
		}
	}

	return &Store{path: path, assessments: file.Assessments}, nil
}

// Path returns the source the store was loaded from.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of records in the snapshot.
func (s *Store) Len() int {
	return len(s.assessments)
}

// GetAll returns the full catalogue sequence in source order. Callers must
// treat the returned slice as read-only.
func (s *Store) GetAll() []Assessment {
	return s.assessments
}

// GetByID returns the first record with a matching id, or nil when no such
// record exists.
func (s *Store) GetByID(id string) *Assessment {
	for i := range s.assessments {
		if s.assessments[i].ID == id {
			return &s.assessments[i]
		}
	}
	return nil
}

// SearchByName returns every record whose name or description contains the
// term as a case-insensitive substring, in source order.
func (s *Store) SearchByName(term string) []Assessment {
	matches := make([]Assessment, 0)
	for _, a := range s.assessments {
		if a.MatchesTerm(term) {
			matches = append(matches, a)
		}
	}
	return matches
}
