package console

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/apiclient"
	"github.com/stemsi/exstem-console/internal/form"
	"github.com/stemsi/exstem-console/internal/list"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/view"
)

const removeOptionAction = "remove-option-"

// Handler serves the console pages. Every mutating POST redirects back
// to the active tab, except submits that fail, which re-render in place.
type Handler struct {
	api      API
	settings Settings
	log      zerolog.Logger
}

func NewHandler(api API, settings Settings, log zerolog.Logger) *Handler {
	return &Handler{
		api:      api,
		settings: settings,
		log:      log.With().Str("component", "console").Logger(),
	}
}

// NewWorkspace builds the state for a new browser session.
func (h *Handler) NewWorkspace() *Workspace {
	return NewWorkspace(h.api, h.settings, h.log)
}

// ─── Pages ──────────────────────────────────────────────────────────────

// Show renders tab after syncing its list with the refresh counter.
func (h *Handler) Show(tab view.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := workspaceFrom(c)
		ws.View.SetTab(tab)
		h.render(c, http.StatusOK, ws, "")
	}
}

// SearchExams applies the title filter from the search box and resets to page 1.
func (h *Handler) SearchExams(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.Exams.Search(c.Request.Context(), c.PostForm("title"))
	redirect(c, view.TabExams)
}

// GoTo moves the list behind tab to the posted page.
func (h *Handler) GoTo(tab view.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := workspaceFrom(c)
		page, err := strconv.Atoi(c.PostForm("page"))
		if err == nil {
			if tab == view.TabQuestions {
				ws.Questions.GoTo(c.Request.Context(), page)
			} else {
				ws.Exams.GoTo(c.Request.Context(), page)
			}
		}
		redirect(c, tab)
	}
}

// ─── Modals ─────────────────────────────────────────────────────────────

func (h *Handler) NewExam(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.View.SetTab(view.TabExams)
	ws.View.OpenCreateExam()
	redirect(c, view.TabExams)
}

func (h *Handler) NewQuestion(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.View.SetTab(view.TabQuestions)
	f := ws.View.OpenCreateQuestion()
	f.LoadExamChoices(c.Request.Context(), h.api, h.settings.ExamChoiceLimit)
	redirect(c, view.TabQuestions)
}

// EditExam opens the edit dialog for the exam with the path id, taken
// from the current page or fetched when it is not there.
func (h *Handler) EditExam(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.View.SetTab(view.TabExams)
	id, ok := pathID(c)
	if !ok {
		redirect(c, view.TabExams)
		return
	}

	exam, found := ws.Exams.Find(id)
	if !found {
		fetched, err := h.api.GetExam(c.Request.Context(), id)
		if err != nil || fetched == nil {
			h.log.Warn().Err(err).Int("exam_id", id).Msg("Exam not available for editing")
			redirect(c, view.TabExams)
			return
		}
		exam = *fetched
	}
	ws.View.OpenEditExam(exam)
	redirect(c, view.TabExams)
}

// EditQuestion opens the edit dialog for the question with the path id.
func (h *Handler) EditQuestion(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.View.SetTab(view.TabQuestions)
	id, ok := pathID(c)
	if !ok {
		redirect(c, view.TabQuestions)
		return
	}

	q, found := ws.Questions.Find(id)
	if !found {
		fetched, err := h.api.GetQuestion(c.Request.Context(), id)
		if err != nil || fetched == nil {
			h.log.Warn().Err(err).Int("question_id", id).Msg("Question not available for editing")
			redirect(c, view.TabQuestions)
			return
		}
		q = *fetched
	}
	f := ws.View.OpenEditQuestion(q)
	f.LoadExamChoices(c.Request.Context(), h.api, h.settings.ExamChoiceLimit)
	redirect(c, view.TabQuestions)
}

// CloseModal dismisses whatever dialog is open.
func (h *Handler) CloseModal(c *gin.Context) {
	ws := workspaceFrom(c)
	ws.View.Close()
	redirect(c, ws.View.Tab())
}

// ExamModal handles every button of the exam dialog.
func (h *Handler) ExamModal(c *gin.Context) {
	ws := workspaceFrom(c)
	f := ws.View.ExamForm()
	if f == nil {
		redirect(c, ws.View.Tab())
		return
	}
	if c.PostForm("action") == "cancel" {
		ws.View.Close()
		redirect(c, ws.View.Tab())
		return
	}

	bindExamDraft(c, f)
	h.finishSubmit(c, ws, ws.View.SubmitExam(c.Request.Context()))
}

// QuestionModal handles every button of the question dialog: submit,
// type changes and option editing.
func (h *Handler) QuestionModal(c *gin.Context) {
	ws := workspaceFrom(c)
	f := ws.View.QuestionForm()
	if f == nil {
		redirect(c, ws.View.Tab())
		return
	}

	action := c.PostForm("action")
	if action == "cancel" {
		ws.View.Close()
		redirect(c, ws.View.Tab())
		return
	}

	bindQuestionDraft(c, f)

	switch {
	case action == "submit":
		h.finishSubmit(c, ws, ws.View.SubmitQuestion(c.Request.Context()))
		return
	case action == "add-option":
		f.AddOption()
	case strings.HasPrefix(action, removeOptionAction):
		if i, err := strconv.Atoi(strings.TrimPrefix(action, removeOptionAction)); err == nil {
			f.RemoveOption(i)
		}
	}
	redirect(c, ws.View.Tab())
}

func (h *Handler) finishSubmit(c *gin.Context, ws *Workspace, err error) {
	switch {
	case err == nil:
		redirect(c, ws.View.Tab())
	case form.IsValidation(err):
		h.render(c, http.StatusUnprocessableEntity, ws, "")
	default:
		h.render(c, http.StatusBadGateway, ws, errorMessage(err))
	}
}

// ─── Delete ─────────────────────────────────────────────────────────────

// ConfirmDelete renders the yes/no page that precedes a delete.
func (h *Handler) ConfirmDelete(tab view.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := workspaceFrom(c)
		id, ok := pathID(c)
		if !ok {
			redirect(c, tab)
			return
		}
		prompt := ws.Exams.DeletePrompt()
		if tab == view.TabQuestions {
			prompt = ws.Questions.DeletePrompt()
		}
		c.HTML(http.StatusOK, "confirm.html", confirmPage{
			Prompt: prompt,
			Action: "/" + tab.String() + "/" + strconv.Itoa(id) + "/delete",
			Cancel: "/" + tab.String(),
		})
	}
}

// Delete removes the record when the confirmation form answered yes.
func (h *Handler) Delete(tab view.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := workspaceFrom(c)
		id, ok := pathID(c)
		if ok {
			confirm := list.Confirm(func(string) bool { return c.PostForm("confirm") == "yes" })
			if tab == view.TabQuestions {
				ws.Questions.Remove(c.Request.Context(), id, confirm)
			} else {
				ws.Exams.Remove(c.Request.Context(), id, confirm)
			}
		}
		redirect(c, tab)
	}
}

// ─── Rendering ──────────────────────────────────────────────────────────

func (h *Handler) render(c *gin.Context, status int, ws *Workspace, message string) {
	ws.Sync(c.Request.Context())
	c.HTML(status, "console.html", buildPage(ws, message))
}

func redirect(c *gin.Context, tab view.Tab) {
	c.Redirect(http.StatusSeeOther, "/"+tab.String())
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func errorMessage(err error) string {
	if reqErr, ok := apiclient.AsRequestError(err); ok && reqErr.Message != "" {
		return reqErr.Message
	}
	return err.Error()
}

func bindExamDraft(c *gin.Context, f *form.ExamForm) {
	f.Edit(func(d *form.ExamDraft) {
		d.Title = c.PostForm("title")
		d.Description = c.PostForm("description")
		d.StartDate = c.PostForm("startDate")
		d.EndDate = c.PostForm("endDate")
		d.DurationMinutes = atoi(c.PostForm("durationMinutes"))
		d.TotalMarks = optionalInt(c.PostForm("totalMarks"))
	})
}

// bindQuestionDraft copies the posted fields into the draft. Options and
// the correct answer belong to the type the page was rendered with, so
// they are only taken when the type select did not change.
func bindQuestionDraft(c *gin.Context, f *form.QuestionForm) {
	posted := model.QuestionType(c.PostForm("type"))
	current := f.Draft().Type
	sameType := posted == "" || posted == current

	f.Edit(func(d *form.QuestionDraft) {
		d.ExamID = atoi(c.PostForm("examId"))
		d.Text = c.PostForm("text")
		d.Points = atoi(c.PostForm("points"))
		if !sameType {
			return
		}
		if current == model.QuestionTypeMultipleChoice {
			d.Options = c.PostFormArray("options")
		}
		d.CorrectAnswer = c.PostForm("correctAnswer")
	})
	if !sameType {
		f.SetType(posted)
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func optionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
