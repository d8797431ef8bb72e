package console

import (
	"html/template"
	"time"

	"github.com/stemsi/exstem-console/internal/form"
	"github.com/stemsi/exstem-console/internal/list"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/view"
)

// consolePage is the data behind console.html.
type consolePage struct {
	Tab        string
	Exams      list.Snapshot[model.Exam, model.ExamFilter]
	Questions  list.Snapshot[model.Question, list.NoFilter]
	ModalTitle string
	Exam       *examDialog
	Question   *questionDialog
	// Message is the request failure shown inside the open dialog.
	Message string
}

type examDialog struct {
	Edit       bool
	Draft      form.ExamDraft
	Errors     map[string]string
	Submitting bool
}

type questionDialog struct {
	Edit       bool
	Draft      form.QuestionDraft
	Errors     map[string]string
	Submitting bool
	Choices    []model.Exam
	Types      []model.QuestionType
}

// pagerView feeds the "pager" template.
type pagerView struct {
	list.Pager
	Action string
}

type confirmPage struct {
	Prompt string
	Action string
	Cancel string
}

func buildPage(ws *Workspace, message string) consolePage {
	p := consolePage{
		Tab:        ws.View.Tab().String(),
		ModalTitle: ws.View.Modal().Title(),
		Message:    message,
	}
	if ws.View.Tab() == view.TabQuestions {
		p.Questions = ws.Questions.Snapshot()
	} else {
		p.Exams = ws.Exams.Snapshot()
	}

	if f := ws.View.ExamForm(); f != nil {
		p.Exam = &examDialog{
			Edit:       f.Mode() == form.ModeEdit,
			Draft:      f.Draft(),
			Errors:     f.Errors(),
			Submitting: f.Submitting(),
		}
	}
	if f := ws.View.QuestionForm(); f != nil {
		p.Question = &questionDialog{
			Edit:       f.Mode() == form.ModeEdit,
			Draft:      f.Draft(),
			Errors:     f.Errors(),
			Submitting: f.Submitting(),
			Choices:    f.ExamChoices(),
			Types:      model.QuestionTypes,
		}
	}
	return p
}

// templateFuncs are the helpers available to every console template.
func templateFuncs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"date": func(s string) string {
			return model.FormatDisplay(s, loc)
		},
		"pager": func(p list.Pager, action string) pagerView {
			return pagerView{Pager: p, Action: action}
		},
		"add": func(a, b int) int {
			return a + b
		},
		"optional": func(n *int) string {
			if n == nil {
				return ""
			}
			return itoa(*n)
		},
		"truncate": func(s string, n int) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return string(r[:n]) + "..."
		},
		// choices lists the options an answer may be picked from.
		"choices": form.NonBlank,
		"positive": func(n int) string {
			if n <= 0 {
				return ""
			}
			return itoa(n)
		},
	}
}
