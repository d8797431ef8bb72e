package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stemsi/exstem-console/internal/model"
)

// ExamDraft is the working copy edited in the exam form. Dates use the
// editable YYYY-MM-DDTHH:MM representation.
type ExamDraft struct {
	Title           string
	Description     string
	StartDate       string
	EndDate         string
	DurationMinutes int
	TotalMarks      *int
	CreatedBy       int
}

// ExamSubmitter receives the payload of a valid exam form.
type ExamSubmitter interface {
	CreateExam(ctx context.Context, payload model.ExamCreate) error
	UpdateExam(ctx context.Context, payload model.ExamUpdate) error
}

// ExamForm controls the create/edit exam dialog.
type ExamForm struct {
	mu     sync.Mutex
	mode   Mode
	draft  ExamDraft
	errors map[string]string
	state  State
	loc    *time.Location
}

// NewExamForm returns an empty create form authored by createdBy.
func NewExamForm(createdBy int, loc *time.Location) *ExamForm {
	return &ExamForm{
		mode:   ModeCreate,
		draft:  ExamDraft{CreatedBy: createdBy},
		errors: map[string]string{},
		loc:    orLocal(loc),
	}
}

// EditExamForm returns an edit form pre-filled from exam, with timestamps
// converted to the editable local representation.
func EditExamForm(exam model.Exam, loc *time.Location) *ExamForm {
	loc = orLocal(loc)
	return &ExamForm{
		mode: ModeEdit,
		draft: ExamDraft{
			Title:           exam.Title,
			Description:     exam.Description,
			StartDate:       model.ToEditable(exam.StartDate, loc),
			EndDate:         model.ToEditable(exam.EndDate, loc),
			DurationMinutes: exam.DurationMinutes,
			TotalMarks:      exam.TotalMarks,
			CreatedBy:       exam.CreatedBy,
		},
		errors: map[string]string{},
		loc:    loc,
	}
}

func (f *ExamForm) Mode() Mode {
	return f.mode
}

// Draft returns a copy of the current working state.
func (f *ExamForm) Draft() ExamDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Edit applies fn to the draft. Errors are left as they are until the
// next submit attempt.
func (f *ExamForm) Edit(fn func(d *ExamDraft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.draft)
}

// Errors returns the field errors from the last submit attempt.
func (f *ExamForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

func (f *ExamForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submitting reports whether the submit control should be disabled.
func (f *ExamForm) Submitting() bool {
	return f.State() == StateSubmitting
}

// Validate recomputes and stores the field errors for the current draft.
func (f *ExamForm) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *ExamForm) validateLocked() map[string]string {
	f.errors = rules().check(examRules{
		Title:           f.draft.Title,
		StartDate:       f.draft.StartDate,
		EndDate:         f.draft.EndDate,
		DurationMinutes: f.draft.DurationMinutes,
		Location:        f.loc,
	})
	return copyErrors(f.errors)
}

// Submit validates the draft and, when it is valid, hands the create or
// update payload to sink. A validation failure returns *ValidationError
// without calling sink. A sink failure returns the form to editing with
// the draft intact.
func (f *ExamForm) Submit(ctx context.Context, sink ExamSubmitter) error {
	f.mu.Lock()
	if errs := f.validateLocked(); len(errs) > 0 {
		f.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	draft := f.draft
	mode := f.mode
	f.state = StateSubmitting
	f.mu.Unlock()

	err := f.send(ctx, sink, mode, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		return err
	}
	f.state = StateClosed
	return nil
}

func (f *ExamForm) send(ctx context.Context, sink ExamSubmitter, mode Mode, d ExamDraft) error {
	start, err := model.FromEditable(d.StartDate, f.loc)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := model.FromEditable(d.EndDate, f.loc)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}

	if mode == ModeCreate {
		return sink.CreateExam(ctx, model.ExamCreate{
			Title:           d.Title,
			Description:     d.Description,
			StartDate:       start,
			EndDate:         end,
			DurationMinutes: d.DurationMinutes,
			TotalMarks:      d.TotalMarks,
			CreatedBy:       d.CreatedBy,
		})
	}

	duration := d.DurationMinutes
	return sink.UpdateExam(ctx, model.ExamUpdate{
		Title:           &d.Title,
		Description:     &d.Description,
		StartDate:       &start,
		EndDate:         &end,
		DurationMinutes: &duration,
		TotalMarks:      d.TotalMarks,
	})
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
