package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-console/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer starts a data service stand-in; routes registers handlers on /api.
func newTestServer(t *testing.T, routes func(api *gin.RouterGroup)) *Client {
	t.Helper()
	r := gin.New()
	routes(r.Group("/api"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/api/")
}

func TestListExamsBuildsQuery(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.GET("/exams", func(c *gin.Context) {
			gotQuery = c.Request.URL.Query()
			c.JSON(http.StatusOK, model.NewPagedResponse([]model.Exam{{ID: 1, Title: "Midterm"}}, 1, 1, 10))
		})
	})

	page, err := client.ListExams(context.Background(), 1, 10, model.ExamFilter{Title: "Mid"})
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Midterm" {
		t.Fatalf("unexpected items: %+v", page.Items)
	}
	if page.PageIndex != 1 || page.TotalPages != 1 {
		t.Errorf("unexpected paging: %+v", page)
	}
	if gotQuery["pageIndex"][0] != "1" || gotQuery["pageSize"][0] != "10" || gotQuery["title"][0] != "Mid" {
		t.Errorf("unexpected query: %v", gotQuery)
	}
	if _, ok := gotQuery["createdBy"]; ok {
		t.Error("createdBy should be omitted when unset")
	}
}

func TestListQuestionsEmptyPage(t *testing.T) {
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.GET("/questions", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"items": nil, "totalCount": 10, "pageIndex": 2, "pageSize": 10, "totalPages": 1})
		})
	})

	page, err := client.ListQuestions(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("items = %#v, want empty slice", page.Items)
	}
}

func TestGetExamNotFound(t *testing.T) {
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.GET("/exams/:id", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "Exam not found"})
		})
	})

	_, err := client.GetExam(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	reqErr, ok := AsRequestError(err)
	if !ok {
		t.Fatalf("want *RequestError, got %T", err)
	}
	if reqErr.Message != "Exam not found" || reqErr.Code != "NOT_FOUND" {
		t.Errorf("unexpected error: %+v", reqErr)
	}
}

func TestGetQuestionDecodesRecord(t *testing.T) {
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.GET("/questions/:id", func(c *gin.Context) {
			id, _ := strconv.Atoi(c.Param("id"))
			c.JSON(http.StatusOK, model.Question{ID: id, ExamID: 4, Text: "2+2?", Type: model.QuestionTypeMultipleChoice, Options: []string{"3", "4"}, CorrectAnswer: "4", Points: 2})
		})
	})

	q, err := client.GetQuestion(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.ID != 7 || q.ExamID != 4 || len(q.Options) != 2 {
		t.Errorf("unexpected question: %+v", q)
	}
}

func TestCreateExamSendsJSON(t *testing.T) {
	var got model.ExamCreate
	var contentType string
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.POST("/exams", func(c *gin.Context) {
			contentType = c.GetHeader("Content-Type")
			if err := json.NewDecoder(c.Request.Body).Decode(&got); err != nil {
				t.Errorf("decode: %v", err)
			}
			c.Status(http.StatusCreated)
		})
	})

	err := client.CreateExam(context.Background(), model.ExamCreate{
		Title: "Midterm", StartDate: "2025-03-01T09:00:00Z", EndDate: "2025-03-01T11:00:00Z",
		DurationMinutes: 120, CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if got.Title != "Midterm" || got.DurationMinutes != 120 {
		t.Errorf("server received %+v", got)
	}
}

func TestUpdateQuestionOmitsNilFields(t *testing.T) {
	var raw map[string]any
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.PUT("/questions/:id", func(c *gin.Context) {
			_ = json.NewDecoder(c.Request.Body).Decode(&raw)
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	})

	text := "Updated"
	if err := client.UpdateQuestion(context.Background(), 3, model.QuestionUpdate{ExamID: 2, Text: &text}); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if raw["examId"] != float64(2) || raw["text"] != "Updated" {
		t.Errorf("unexpected body: %v", raw)
	}
	for _, key := range []string{"options", "points", "type", "correctAnswer"} {
		if _, ok := raw[key]; ok {
			t.Errorf("%s should be omitted", key)
		}
	}
}

func TestDeleteNoContent(t *testing.T) {
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.DELETE("/exams/:id", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
	})

	if err := client.DeleteExam(context.Background(), 5); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}
}

func TestErrorWithoutMessageUsesGenericText(t *testing.T) {
	client := newTestServer(t, func(api *gin.RouterGroup) {
		api.DELETE("/questions/:id", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})
	})

	err := client.DeleteQuestion(context.Background(), 1)
	reqErr, ok := AsRequestError(err)
	if !ok {
		t.Fatalf("want *RequestError, got %v", err)
	}
	if reqErr.Message != genericMessage || reqErr.Status != http.StatusInternalServerError {
		t.Errorf("unexpected error: %+v", reqErr)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("500 must not match ErrNotFound")
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(base).ListQuestions(context.Background(), 1, 10)
	reqErr, ok := AsRequestError(err)
	if !ok {
		t.Fatalf("want *RequestError, got %v", err)
	}
	if !reqErr.Transport() || reqErr.Message == "" {
		t.Errorf("unexpected transport error: %+v", reqErr)
	}
}
