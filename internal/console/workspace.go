package console

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/list"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/view"
)

// API is everything the console needs from the data service client.
type API interface {
	list.ExamAPI
	list.QuestionAPI
	view.API
	GetExam(ctx context.Context, id int) (*model.Exam, error)
	GetQuestion(ctx context.Context, id int) (*model.Question, error)
}

// Settings are the per-session knobs taken from configuration.
type Settings struct {
	PageSize        int
	ExamChoiceLimit int
	CreatedBy       int
	Location        *time.Location
}

// Workspace is the state behind one browser session: the orchestrator
// and both list controllers.
type Workspace struct {
	View      *view.Orchestrator
	Exams     *list.ExamList
	Questions *list.QuestionList
}

// NewWorkspace wires fresh controllers to api.
func NewWorkspace(api API, s Settings, log zerolog.Logger) *Workspace {
	return &Workspace{
		View:      view.New(api, view.Options{CreatedBy: s.CreatedBy, Location: s.Location}, log),
		Exams:     list.NewExamList(api, s.PageSize, log),
		Questions: list.NewQuestionList(api, s.PageSize, log),
	}
}

// Sync refreshes the list behind the active tab if the refresh counter
// moved since it last loaded.
func (w *Workspace) Sync(ctx context.Context) {
	signal := w.View.Refresh()
	if w.View.Tab() == view.TabQuestions {
		w.Questions.Sync(ctx, signal)
		return
	}
	w.Exams.Sync(ctx, signal)
}
