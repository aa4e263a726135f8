package catalogue

import "strings"

// DefaultCategory is assigned to records whose source entry carries no
// category. It mirrors the tag used by the catalogue snapshot producer.
const DefaultCategory = "individual_test_solution"

// Assessment is one catalogue entry describing a psychometric test product.
// Records are immutable once loaded: the engine only ever reads them and
// attaches computed scores to copies.
type Assessment struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	URL             string   `json:"url,omitempty"`
	Category        string   `json:"category,omitempty"`
	Type            string   `json:"type,omitempty"`
	Description     string   `json:"description,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	DifficultyLevel string   `json:"difficulty_level,omitempty"`
	TargetRoles     []string `json:"target_roles,omitempty"`
	Competencies    []string `json:"competencies,omitempty"`
	UseCases        []string `json:"use_cases,omitempty"`
	Languages       []string `json:"languages,omitempty"`
}

// Document returns the text the similarity index is built over: name,
// description, type and category joined with single spaces.
func (a *Assessment) Document() string {
	return strings.TrimSpace(strings.Join([]string{
		a.Name,
		a.Description,
		a.Type,
		a.Category,
	}, " "))
}

// MatchesTerm reports whether the term occurs in the record's name or
// description, case-insensitively. The empty term matches every record.
func (a *Assessment) MatchesTerm(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(a.Name), term) ||
		strings.Contains(strings.ToLower(a.Description), term)
}
