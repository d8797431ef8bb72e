package list

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
)

// ExamAPI is the part of the API client the exam list needs.
type ExamAPI interface {
	ListExams(ctx context.Context, pageIndex, pageSize int, filter model.ExamFilter) (*model.PagedResponse[model.Exam], error)
	DeleteExam(ctx context.Context, id int) error
}

// QuestionAPI is the part of the API client the question list needs.
type QuestionAPI interface {
	ListQuestions(ctx context.Context, pageIndex, pageSize int) (*model.PagedResponse[model.Question], error)
	DeleteQuestion(ctx context.Context, id int) error
}

// ExamList is the exam table with its title search.
type ExamList struct {
	*Controller[model.Exam, model.ExamFilter]
}

// NewExamList wires an exam list controller to api.
func NewExamList(api ExamAPI, pageSize int, log zerolog.Logger) *ExamList {
	return &ExamList{
		Controller: NewController[model.Exam, model.ExamFilter]("exams", pageSize, api.ListExams, api.DeleteExam, log),
	}
}

// Search loads page 1 narrowed to titles containing title. An empty
// title clears the filter.
func (l *ExamList) Search(ctx context.Context, title string) {
	l.Load(ctx, 1, model.ExamFilter{Title: title})
}

// Find returns the exam with id from the current page.
func (l *ExamList) Find(id int) (model.Exam, bool) {
	for _, e := range l.Items() {
		if e.ID == id {
			return e, true
		}
	}
	return model.Exam{}, false
}

// QuestionList is the question table.
type QuestionList struct {
	*Controller[model.Question, NoFilter]
}

// NewQuestionList wires a question list controller to api.
func NewQuestionList(api QuestionAPI, pageSize int, log zerolog.Logger) *QuestionList {
	fetch := func(ctx context.Context, pageIndex, pageSize int, _ NoFilter) (*model.PagedResponse[model.Question], error) {
		return api.ListQuestions(ctx, pageIndex, pageSize)
	}
	return &QuestionList{
		Controller: NewController[model.Question, NoFilter]("questions", pageSize, fetch, api.DeleteQuestion, log),
	}
}

// Find returns the question with id from the current page.
func (l *QuestionList) Find(id int) (model.Question, bool) {
	for _, q := range l.Items() {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}
