package domain

import "time"

// QuestionType distinguishes free-text questions from option-based ones.
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
)

// CustomQuestionID marks a response that does not belong to a catalog question.
const CustomQuestionID int64 = 0

// Question is an entry of the read-only catalog.
type Question struct {
	ID      int64        `json:"id"`
	Text    string       `json:"question_text"`
	Type    QuestionType `json:"question_type"`
	Options []string     `json:"options,omitempty"` // only for multiple_choice
}

// IsMultipleChoice reports whether the question should render its options.
func (q Question) IsMultipleChoice() bool {
	return q.Type == QuestionTypeMultipleChoice && len(q.Options) > 0
}

// Response is a persisted answer. QuestionID is CustomQuestionID for custom entries,
// in which case Answer carries the composite "Custom: <question> - <answer>" string.
type Response struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsCustom reports whether the response came from a custom survey.
func (r Response) IsCustom() bool {
	return r.QuestionID == CustomQuestionID
}

// Entry is one client-supplied answer in a batch submission.
type Entry struct {
	QuestionID   *int64
	QuestionText string
	Answer       string
}

// BatchResult summarizes a submitted batch.
type BatchResult struct {
	Accepted int       `json:"accepted"`
	Skipped  int       `json:"skipped"`
	Custom   bool      `json:"custom"`
	At       time.Time `json:"at"`
}

// VariantMode tells whether a survey variant is served from the catalog.
type VariantMode string

const (
	ModeCatalog VariantMode = "catalog"
	ModeCustom  VariantMode = "custom"
)

// Variant names as requested by clients.
const (
	VariantQuick   = "quick"
	VariantDetails = "details"
	VariantCustom  = "custom"
)

// Variant is the resolved question-set policy for one survey request.
type Variant struct {
	Mode  VariantMode
	Limit int // zero in custom mode
}

// Profile toggles deployment-specific survey behavior.
type Profile struct {
	SupportsCustomMode     bool
	SupportsTypedQuestions bool
}

// DefaultProfile enables every survey feature.
func DefaultProfile() Profile {
	return Profile{SupportsCustomMode: true, SupportsTypedQuestions: true}
}

// User is a seeded account used by the login check.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
