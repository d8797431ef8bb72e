package model

// QuestionType is the closed set of question variants.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MultipleChoice"
	QuestionTypeTrueFalse      QuestionType = "TrueFalse"
	QuestionTypeEssay          QuestionType = "Essay"
	QuestionTypeShortAnswer    QuestionType = "ShortAnswer"
)

// QuestionTypes lists every variant in display order.
var QuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeTrueFalse,
	QuestionTypeEssay,
	QuestionTypeShortAnswer,
}

// Valid reports whether t is one of the known variants.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeEssay, QuestionTypeShortAnswer:
		return true
	}
	return false
}

// Label returns the human-readable name of the variant.
func (t QuestionType) Label() string {
	switch t {
	case QuestionTypeMultipleChoice:
		return "Multiple Choice"
	case QuestionTypeTrueFalse:
		return "True/False"
	case QuestionTypeEssay:
		return "Essay"
	case QuestionTypeShortAnswer:
		return "Short Answer"
	default:
		return string(t)
	}
}

// Question is a full question record as returned by the data service.
type Question struct {
	ID            int          `json:"id"`
	ExamID        int          `json:"examId"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Points        int          `json:"points"`
	CreatedAt     string       `json:"createdAt"`
	UpdatedAt     string       `json:"updatedAt"`
}

// QuestionCreate is the payload for creating a new question.
type QuestionCreate struct {
	ExamID        int          `json:"examId" binding:"required,min=1"`
	Text          string       `json:"text" binding:"required,notblank,max=2000"`
	Type          QuestionType `json:"type" binding:"required,oneof=MultipleChoice TrueFalse Essay ShortAnswer"`
	Options       []string     `json:"options,omitempty" binding:"omitempty,dive,max=500"`
	CorrectAnswer string       `json:"correctAnswer,omitempty" binding:"omitempty,max=2000"`
	Points        int          `json:"points" binding:"required,min=1"`
}

// QuestionUpdate is the partial payload for updating a question.
// ExamID is always re-sent.
type QuestionUpdate struct {
	ExamID        int           `json:"examId" binding:"required,min=1"`
	Text          *string       `json:"text,omitempty" binding:"omitempty,notblank,max=2000"`
	Type          *QuestionType `json:"type,omitempty" binding:"omitempty,oneof=MultipleChoice TrueFalse Essay ShortAnswer"`
	Options       []string      `json:"options,omitempty" binding:"omitempty,dive,max=500"`
	CorrectAnswer *string       `json:"correctAnswer,omitempty" binding:"omitempty,max=2000"`
	Points        *int          `json:"points,omitempty" binding:"omitempty,min=1"`
}
