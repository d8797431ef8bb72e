package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/form"
	"github.com/stemsi/exstem-console/internal/model"
)

// ErrNoForm is returned when a submit arrives while no matching modal is open.
var ErrNoForm = errors.New("no form is open")

// Tab is the collection shown in the main area.
type Tab int

const (
	TabExams Tab = iota
	TabQuestions
)

func (t Tab) String() string {
	if t == TabQuestions {
		return "questions"
	}
	return "exams"
}

// Modal is the dialog currently open on top of the tab.
type Modal int

const (
	ModalNone Modal = iota
	ModalCreateExam
	ModalEditExam
	ModalCreateQuestion
	ModalEditQuestion
)

// Title is the dialog heading.
func (m Modal) Title() string {
	switch m {
	case ModalCreateExam:
		return "Create New Exam"
	case ModalEditExam:
		return "Edit Exam"
	case ModalCreateQuestion:
		return "Create New Question"
	case ModalEditQuestion:
		return "Edit Question"
	default:
		return ""
	}
}

// API is the set of write calls the orchestrator forwards submitted forms to.
type API interface {
	CreateExam(ctx context.Context, payload model.ExamCreate) error
	UpdateExam(ctx context.Context, id int, payload model.ExamUpdate) error
	CreateQuestion(ctx context.Context, payload model.QuestionCreate) error
	UpdateQuestion(ctx context.Context, id int, payload model.QuestionUpdate) error
}

// Options tunes the forms the orchestrator opens.
type Options struct {
	// CreatedBy is the author id stamped on new exams.
	CreatedBy int
	// Location is the timezone of the editable date/time fields.
	Location *time.Location
}

// Orchestrator holds the tab, the open modal with its form, the record
// selected for editing and the refresh counter lists watch.
type Orchestrator struct {
	mu       sync.Mutex
	api      API
	opts     Options
	tab      Tab
	modal    Modal
	exam     *model.Exam
	question *model.Question
	examForm *form.ExamForm
	qForm    *form.QuestionForm
	refresh  uint64
	log      zerolog.Logger
}

func New(api API, opts Options, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		api:  api,
		opts: opts,
		log:  log.With().Str("component", "orchestrator").Logger(),
	}
}

func (o *Orchestrator) Tab() Tab {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tab
}

// SetTab switches the visible collection. The open modal is unaffected.
func (o *Orchestrator) SetTab(t Tab) {
	o.mu.Lock()
	o.tab = t
	o.mu.Unlock()
}

func (o *Orchestrator) Modal() Modal {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.modal
}

// Refresh is the counter incremented after every successful write.
func (o *Orchestrator) Refresh() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.refresh
}

// SelectedExam returns a copy of the exam being edited, if any.
func (o *Orchestrator) SelectedExam() (model.Exam, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.exam == nil {
		return model.Exam{}, false
	}
	return *o.exam, true
}

// SelectedQuestion returns a copy of the question being edited, if any.
func (o *Orchestrator) SelectedQuestion() (model.Question, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.question == nil {
		return model.Question{}, false
	}
	return *o.question, true
}

// ExamForm is the form of the open exam modal, or nil.
func (o *Orchestrator) ExamForm() *form.ExamForm {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.examForm
}

// QuestionForm is the form of the open question modal, or nil.
func (o *Orchestrator) QuestionForm() *form.QuestionForm {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.qForm
}

func (o *Orchestrator) OpenCreateExam() *form.ExamForm {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
	o.modal = ModalCreateExam
	o.examForm = form.NewExamForm(o.opts.CreatedBy, o.opts.Location)
	return o.examForm
}

func (o *Orchestrator) OpenEditExam(exam model.Exam) *form.ExamForm {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
	o.modal = ModalEditExam
	o.exam = &exam
	o.examForm = form.EditExamForm(exam, o.opts.Location)
	return o.examForm
}

func (o *Orchestrator) OpenCreateQuestion() *form.QuestionForm {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
	o.modal = ModalCreateQuestion
	o.qForm = form.NewQuestionForm(o.log)
	return o.qForm
}

func (o *Orchestrator) OpenEditQuestion(q model.Question) *form.QuestionForm {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
	o.modal = ModalEditQuestion
	o.question = &q
	o.qForm = form.EditQuestionForm(q, o.log)
	return o.qForm
}

// Close dismisses the modal and forgets the selected record. Tab and list
// state are untouched.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.clearLocked()
	o.mu.Unlock()
}

func (o *Orchestrator) clearLocked() {
	o.modal = ModalNone
	o.exam = nil
	o.question = nil
	o.examForm = nil
	o.qForm = nil
}

// succeeded closes the modal, then bumps the refresh counter.
func (o *Orchestrator) succeeded() {
	o.mu.Lock()
	o.clearLocked()
	o.refresh++
	o.mu.Unlock()
}

// SubmitExam submits the open exam form through the orchestrator.
func (o *Orchestrator) SubmitExam(ctx context.Context) error {
	f := o.ExamForm()
	if f == nil {
		return ErrNoForm
	}
	return f.Submit(ctx, o)
}

// SubmitQuestion submits the open question form through the orchestrator.
func (o *Orchestrator) SubmitQuestion(ctx context.Context) error {
	f := o.QuestionForm()
	if f == nil {
		return ErrNoForm
	}
	return f.Submit(ctx, o)
}

// CreateExam implements form.ExamSubmitter.
func (o *Orchestrator) CreateExam(ctx context.Context, payload model.ExamCreate) error {
	if err := o.api.CreateExam(ctx, payload); err != nil {
		o.log.Error().Err(err).Msg("Failed to create exam")
		return err
	}
	o.succeeded()
	return nil
}

// UpdateExam implements form.ExamSubmitter. Without a selected exam it
// does nothing.
func (o *Orchestrator) UpdateExam(ctx context.Context, payload model.ExamUpdate) error {
	exam, ok := o.SelectedExam()
	if !ok {
		return nil
	}
	if err := o.api.UpdateExam(ctx, exam.ID, payload); err != nil {
		o.log.Error().Err(err).Int("exam_id", exam.ID).Msg("Failed to update exam")
		return err
	}
	o.succeeded()
	return nil
}

// CreateQuestion implements form.QuestionSubmitter.
func (o *Orchestrator) CreateQuestion(ctx context.Context, payload model.QuestionCreate) error {
	if err := o.api.CreateQuestion(ctx, payload); err != nil {
		o.log.Error().Err(err).Msg("Failed to create question")
		return err
	}
	o.succeeded()
	return nil
}

// UpdateQuestion implements form.QuestionSubmitter. Without a selected
// question it does nothing.
func (o *Orchestrator) UpdateQuestion(ctx context.Context, payload model.QuestionUpdate) error {
	q, ok := o.SelectedQuestion()
	if !ok {
		return nil
	}
	if err := o.api.UpdateQuestion(ctx, q.ID, payload); err != nil {
		o.log.Error().Err(err).Int("question_id", q.ID).Msg("Failed to update question")
		return err
	}
	o.succeeded()
	return nil
}
