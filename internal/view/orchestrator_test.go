package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/form"
	"github.com/stemsi/exstem-console/internal/model"
)

type fakeAPI struct {
	fail            error
	examCreates     []model.ExamCreate
	examUpdates     map[int]model.ExamUpdate
	questionCreates []model.QuestionCreate
	questionUpdates map[int]model.QuestionUpdate
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		examUpdates:     map[int]model.ExamUpdate{},
		questionUpdates: map[int]model.QuestionUpdate{},
	}
}

func (f *fakeAPI) CreateExam(_ context.Context, p model.ExamCreate) error {
	if f.fail != nil {
		return f.fail
	}
	f.examCreates = append(f.examCreates, p)
	return nil
}

func (f *fakeAPI) UpdateExam(_ context.Context, id int, p model.ExamUpdate) error {
	if f.fail != nil {
		return f.fail
	}
	f.examUpdates[id] = p
	return nil
}

func (f *fakeAPI) CreateQuestion(_ context.Context, p model.QuestionCreate) error {
	if f.fail != nil {
		return f.fail
	}
	f.questionCreates = append(f.questionCreates, p)
	return nil
}

func (f *fakeAPI) UpdateQuestion(_ context.Context, id int, p model.QuestionUpdate) error {
	if f.fail != nil {
		return f.fail
	}
	f.questionUpdates[id] = p
	return nil
}

func newOrchestrator(api API) *Orchestrator {
	return New(api, Options{CreatedBy: 7, Location: time.UTC}, zerolog.Nop())
}

func TestCreateExamClosesAndRefreshes(t *testing.T) {
	api := newFakeAPI()
	o := newOrchestrator(api)

	f := o.OpenCreateExam()
	f.Edit(func(d *form.ExamDraft) {
		d.Title = "Midterm"
		d.StartDate = "2025-03-01T09:00"
		d.EndDate = "2025-03-01T11:00"
		d.DurationMinutes = 120
	})

	if err := o.SubmitExam(context.Background()); err != nil {
		t.Fatalf("SubmitExam: %v", err)
	}
	if len(api.examCreates) != 1 {
		t.Fatalf("creates = %d", len(api.examCreates))
	}
	got := api.examCreates[0]
	if got.Title != "Midterm" || got.CreatedBy != 7 || got.StartDate != "2025-03-01T09:00:00Z" {
		t.Errorf("payload = %+v", got)
	}
	if o.Modal() != ModalNone || o.ExamForm() != nil {
		t.Error("modal should be closed")
	}
	if o.Refresh() != 1 {
		t.Errorf("refresh = %d, want 1", o.Refresh())
	}
	if f.State() != form.StateClosed {
		t.Errorf("form state = %v", f.State())
	}
}

func TestSubmitFailureKeepsModalOpen(t *testing.T) {
	api := newFakeAPI()
	api.fail = errors.New("boom")
	o := newOrchestrator(api)

	exam := model.Exam{ID: 3, Title: "Quiz", StartDate: "2025-01-01T08:00:00Z", EndDate: "2025-01-01T09:00:00Z", DurationMinutes: 60}
	o.OpenEditExam(exam)

	err := o.SubmitExam(context.Background())
	if !errors.Is(err, api.fail) {
		t.Fatalf("err = %v", err)
	}
	if o.Modal() != ModalEditExam {
		t.Errorf("modal = %v", o.Modal())
	}
	if sel, ok := o.SelectedExam(); !ok || sel.ID != 3 {
		t.Error("selected exam lost")
	}
	if o.Refresh() != 0 {
		t.Error("refresh must not change on failure")
	}
	if o.ExamForm().State() != form.StateEditing {
		t.Error("form should return to editing")
	}
}

func TestUpdateExamUsesSelectedID(t *testing.T) {
	api := newFakeAPI()
	o := newOrchestrator(api)
	o.OpenEditExam(model.Exam{ID: 9, Title: "Final", StartDate: "2025-06-01T08:00:00Z", EndDate: "2025-06-01T10:00:00Z", DurationMinutes: 90})

	if err := o.SubmitExam(context.Background()); err != nil {
		t.Fatalf("SubmitExam: %v", err)
	}
	upd, ok := api.examUpdates[9]
	if !ok || upd.Title == nil || *upd.Title != "Final" {
		t.Errorf("update = %+v", upd)
	}
}

func TestValidationFailureIssuesNoRequest(t *testing.T) {
	api := newFakeAPI()
	o := newOrchestrator(api)
	f := o.OpenCreateQuestion()
	f.Edit(func(d *form.QuestionDraft) {
		d.Options = []string{"", "", ""}
		d.Points = 0
	})

	err := o.SubmitQuestion(context.Background())
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if len(verr.Fields) != 5 {
		t.Errorf("fields = %v", verr.Fields)
	}
	if len(api.questionCreates) != 0 || o.Modal() != ModalCreateQuestion {
		t.Error("validation failure must not submit or close")
	}
}

func TestQuestionTypeSwitchDropsOptions(t *testing.T) {
	api := newFakeAPI()
	o := newOrchestrator(api)
	o.OpenEditQuestion(model.Question{
		ID: 4, ExamID: 2, Text: "2+2?", Type: model.QuestionTypeMultipleChoice,
		Options: []string{"3", "4"}, CorrectAnswer: "4", Points: 1,
	})
	f := o.QuestionForm()
	f.SetType(model.QuestionTypeTrueFalse)
	f.Edit(func(d *form.QuestionDraft) { d.CorrectAnswer = "True" })

	if err := o.SubmitQuestion(context.Background()); err != nil {
		t.Fatalf("SubmitQuestion: %v", err)
	}
	upd := api.questionUpdates[4]
	if upd.Options != nil {
		t.Errorf("options leaked: %v", upd.Options)
	}
	if upd.ExamID != 2 {
		t.Errorf("examId = %d", upd.ExamID)
	}
}

func TestOpenCreateClearsSelection(t *testing.T) {
	o := newOrchestrator(newFakeAPI())
	o.OpenEditQuestion(model.Question{ID: 1})
	o.OpenCreateExam()

	if _, ok := o.SelectedQuestion(); ok {
		t.Error("selected question should be cleared")
	}
	if o.QuestionForm() != nil {
		t.Error("question form should be dropped")
	}
	if o.Modal().Title() != "Create New Exam" {
		t.Errorf("title = %q", o.Modal().Title())
	}
}

func TestCloseKeepsTab(t *testing.T) {
	o := newOrchestrator(newFakeAPI())
	o.SetTab(TabQuestions)
	o.OpenEditExam(model.Exam{ID: 1})
	o.Close()

	if o.Modal() != ModalNone || o.Tab() != TabQuestions {
		t.Errorf("modal = %v tab = %v", o.Modal(), o.Tab())
	}
	if _, ok := o.SelectedExam(); ok {
		t.Error("selected exam should be cleared")
	}
}

func TestSubmitWithoutModal(t *testing.T) {
	o := newOrchestrator(newFakeAPI())
	if err := o.SubmitExam(context.Background()); !errors.Is(err, ErrNoForm) {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateWithoutSelectionIsNoop(t *testing.T) {
	api := newFakeAPI()
	o := newOrchestrator(api)
	title := "x"
	if err := o.UpdateExam(context.Background(), model.ExamUpdate{Title: &title}); err != nil {
		t.Fatal(err)
	}
	if len(api.examUpdates) != 0 || o.Refresh() != 0 {
		t.Error("no update expected")
	}
}

func TestModalTitles(t *testing.T) {
	cases := map[Modal]string{
		ModalNone:           "",
		ModalCreateExam:     "Create New Exam",
		ModalEditExam:       "Edit Exam",
		ModalCreateQuestion: "Create New Question",
		ModalEditQuestion:   "Edit Question",
	}
	for m, want := range cases {
		if got := m.Title(); got != want {
			t.Errorf("%d: got %q, want %q", m, got, want)
		}
	}
}
