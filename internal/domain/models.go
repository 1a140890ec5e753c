package domain

import "time"

// Rating bounds for the Likert scale used across every questionnaire.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

// Department is a named questionnaire: an ordered list of wellness questions
// shown one at a time.
type Department struct {
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
}

// LastIndex returns the index of the final question.
func (d Department) LastIndex() int {
	return len(d.Questions) - 1
}

// ValidRating reports whether v is on the 1-5 scale.
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}

// SubmissionSnapshot is an immutable copy of the ratings map taken at submit
// time, so later edits to session state cannot leak into recommendation
// generation.
type SubmissionSnapshot struct {
	Department  string         `json:"department"`
	Ratings     map[string]int `json:"ratings"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// RecommendationResult is the parsed output of one LLM call: ordered bullet
// recommendations plus a single summary line.
type RecommendationResult struct {
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// QuestionView is a snapshot-friendly view of where a session currently is in
// the wizard, shaped for direct rendering by transports.
type QuestionView struct {
	Department string `json:"department"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Prompt     string `json:"prompt"`
	Rating     int    `json:"rating"`
	CanGoBack  bool   `json:"canGoBack"`
	CanSubmit  bool   `json:"canSubmit"`
}
