package console

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-console/internal/middleware"
	"github.com/stemsi/exstem-console/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded console templates.
func Templates(h *Handler) (*template.Template, error) {
	return template.New("console").Funcs(templateFuncs(h.settings.Location)).ParseFS(templateFS, "templates/*.html")
}

// NewRouter wires the console routes onto a gin engine.
func NewRouter(h *Handler, store *Store, metrics *middleware.Metrics, ginMode string) (*gin.Engine, error) {
	gin.SetMode(ginMode)
	router := gin.Default()

	tmpl, err := Templates(h)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	router.Use(metrics.Middleware())
	router.Use(middleware.Brotli())

	// Static assets with a one day cache.
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(24 * time.Hour))
	{
		staticGroup.StaticFS("/", http.FS(assets))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": store.Len()})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ─── Console pages (session scoped) ────────────────────────────────
	pages := router.Group("/")
	pages.Use(store.Middleware())
	{
		pages.GET("", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/exams")
		})

		exams := pages.Group("/exams")
		{
			exams.GET("", h.Show(view.TabExams))
			exams.POST("/search", h.SearchExams)
			exams.POST("/page", h.GoTo(view.TabExams))
			exams.POST("/new", h.NewExam)
			exams.POST("/:id/edit", h.EditExam)
			exams.GET("/:id/delete", h.ConfirmDelete(view.TabExams))
			exams.POST("/:id/delete", h.Delete(view.TabExams))
		}

		questions := pages.Group("/questions")
		{
			questions.GET("", h.Show(view.TabQuestions))
			questions.POST("/page", h.GoTo(view.TabQuestions))
			questions.POST("/new", h.NewQuestion)
			questions.POST("/:id/edit", h.EditQuestion)
			questions.GET("/:id/delete", h.ConfirmDelete(view.TabQuestions))
			questions.POST("/:id/delete", h.Delete(view.TabQuestions))
		}

		modal := pages.Group("/modal")
		{
			modal.POST("/close", h.CloseModal)
			modal.POST("/exam", h.ExamModal)
			modal.POST("/question", h.QuestionModal)
		}
	}

	return router, nil
}
