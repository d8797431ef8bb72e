package form

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
)

// blankOptionSlots is the number of empty options a fresh
// multiple-choice draft starts with.
const blankOptionSlots = 4

// QuestionDraft is the working copy edited in the question form.
type QuestionDraft struct {
	ExamID        int
	Text          string
	Type          model.QuestionType
	Options       []string
	CorrectAnswer string
	Points        int
}

// QuestionSubmitter receives the payload of a valid question form.
type QuestionSubmitter interface {
	CreateQuestion(ctx context.Context, payload model.QuestionCreate) error
	UpdateQuestion(ctx context.Context, payload model.QuestionUpdate) error
}

// ExamLister loads the exams a question may be attached to.
type ExamLister interface {
	ListExams(ctx context.Context, pageIndex, pageSize int, filter model.ExamFilter) (*model.PagedResponse[model.Exam], error)
}

// QuestionForm controls the create/edit question dialog.
type QuestionForm struct {
	mu      sync.Mutex
	mode    Mode
	draft   QuestionDraft
	errors  map[string]string
	state   State
	choices []model.Exam
	log     zerolog.Logger
}

// NewQuestionForm returns a create form defaulting to a multiple-choice
// question worth one point with four blank options.
func NewQuestionForm(log zerolog.Logger) *QuestionForm {
	return &QuestionForm{
		mode: ModeCreate,
		draft: QuestionDraft{
			Type:    model.QuestionTypeMultipleChoice,
			Options: blankOptions(),
			Points:  1,
		},
		errors: map[string]string{},
		log:    log.With().Str("component", "question_form").Logger(),
	}
}

// EditQuestionForm returns an edit form pre-filled from q.
func EditQuestionForm(q model.Question, log zerolog.Logger) *QuestionForm {
	f := NewQuestionForm(log)
	f.mode = ModeEdit
	f.draft.ExamID = q.ExamID
	f.draft.Text = q.Text
	if q.Type.Valid() {
		f.draft.Type = q.Type
	}
	if len(q.Options) > 0 {
		f.draft.Options = append([]string(nil), q.Options...)
	}
	f.draft.CorrectAnswer = q.CorrectAnswer
	if q.Points > 0 {
		f.draft.Points = q.Points
	}
	return f
}

func (f *QuestionForm) Mode() Mode {
	return f.mode
}

// Draft returns a copy of the current working state.
func (f *QuestionForm) Draft() QuestionDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.draft
	d.Options = append([]string(nil), f.draft.Options...)
	return d
}

// Edit applies fn to the draft. Use SetType to change the question type.
func (f *QuestionForm) Edit(fn func(d *QuestionDraft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := f.draft.Type
	fn(&f.draft)
	f.draft.Type = current
}

// SetType switches the question type. Any real change clears the correct
// answer; switching into multiple choice starts from four blank options
// and switching out of it drops the options.
func (f *QuestionForm) SetType(t model.QuestionType) {
	if !t.Valid() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft.Type == t {
		return
	}
	f.draft.Type = t
	f.draft.CorrectAnswer = ""
	if t == model.QuestionTypeMultipleChoice {
		f.draft.Options = blankOptions()
	} else {
		f.draft.Options = nil
	}
}

// AddOption appends an empty option slot.
func (f *QuestionForm) AddOption() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Options = append(f.draft.Options, "")
}

// RemoveOption deletes the option at i. Out-of-range indexes are ignored,
// and a question never drops below two option slots.
func (f *QuestionForm) RemoveOption(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.draft.Options) <= minChoiceOptions || i < 0 || i >= len(f.draft.Options) {
		return
	}
	f.draft.Options = append(f.draft.Options[:i:i], f.draft.Options[i+1:]...)
}

// SetOption replaces the text of option i; out-of-range indexes are ignored.
func (f *QuestionForm) SetOption(i int, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.draft.Options) {
		return
	}
	f.draft.Options[i] = value
}

// LoadExamChoices fills the exam selector with the first limit exams.
// A failure is logged and leaves the selector empty.
func (f *QuestionForm) LoadExamChoices(ctx context.Context, exams ExamLister, limit int) {
	page, err := exams.ListExams(ctx, 1, limit, model.ExamFilter{})
	if err != nil {
		f.log.Error().Err(err).Msg("Failed to load exams")
		return
	}
	f.mu.Lock()
	f.choices = append([]model.Exam(nil), page.Items...)
	f.mu.Unlock()
}

// ExamChoices returns the exams offered by the selector.
func (f *QuestionForm) ExamChoices() []model.Exam {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Exam(nil), f.choices...)
}

// Errors returns the field errors from the last submit attempt.
func (f *QuestionForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

func (f *QuestionForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submitting reports whether the submit control should be disabled.
func (f *QuestionForm) Submitting() bool {
	return f.State() == StateSubmitting
}

// Validate recomputes and stores the field errors for the current draft.
func (f *QuestionForm) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *QuestionForm) validateLocked() map[string]string {
	f.errors = rules().check(questionRules{
		ExamID:        f.draft.ExamID,
		Text:          f.draft.Text,
		Type:          f.draft.Type,
		Options:       f.draft.Options,
		CorrectAnswer: f.draft.CorrectAnswer,
		Points:        f.draft.Points,
	})
	return copyErrors(f.errors)
}

// Submit validates the draft and, when it is valid, hands the create or
// update payload to sink. Options are only sent for multiple choice.
func (f *QuestionForm) Submit(ctx context.Context, sink QuestionSubmitter) error {
	f.mu.Lock()
	if errs := f.validateLocked(); len(errs) > 0 {
		f.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	draft := f.draft
	draft.Options = outgoingOptions(f.draft.Type, f.draft.Options)
	mode := f.mode
	f.state = StateSubmitting
	f.mu.Unlock()

	var err error
	if mode == ModeCreate {
		err = sink.CreateQuestion(ctx, model.QuestionCreate{
			ExamID:        draft.ExamID,
			Text:          draft.Text,
			Type:          draft.Type,
			Options:       draft.Options,
			CorrectAnswer: draft.CorrectAnswer,
			Points:        draft.Points,
		})
	} else {
		err = sink.UpdateQuestion(ctx, model.QuestionUpdate{
			ExamID:        draft.ExamID,
			Text:          &draft.Text,
			Type:          &draft.Type,
			Options:       draft.Options,
			CorrectAnswer: &draft.CorrectAnswer,
			Points:        &draft.Points,
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		return err
	}
	f.state = StateClosed
	return nil
}

// outgoingOptions drops options for every type but multiple choice and
// strips blank slots otherwise.
func outgoingOptions(t model.QuestionType, options []string) []string {
	if t != model.QuestionTypeMultipleChoice {
		return nil
	}
	return NonBlank(options)
}

func blankOptions() []string {
	return make([]string, blankOptionSlots)
}
