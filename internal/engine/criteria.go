package engine

// Criteria is a partially-filled set of desired assessment attributes.
// Every field defaults to unset; an unset field contributes no weight to
// scoring, it is never treated as "must be empty". Scalar fields use
// pointers so that "not specified" and "specified as empty" stay distinct.
type Criteria struct {
	TargetRole         *string  `json:"target_role,omitempty"`
	Competencies       []string `json:"competencies,omitempty"`
	UseCase            *string  `json:"use_case,omitempty"`
	AssessmentType     *string  `json:"assessment_type,omitempty"`
	MaxDurationMinutes *int     `json:"max_duration_minutes,omitempty"`
	DifficultyLevel    *string  `json:"difficulty_level,omitempty"`
	Language           *string  `json:"language,omitempty"`
	ExcludeIDs         []string `json:"exclude_ids,omitempty"`
}

// String returns a pointer to s, for building criteria literals.
func String(s string) *string { return &s }

// Int returns a pointer to n, for building criteria literals.
func Int(n int) *int { return &n }
