package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/apiclient"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/response"
	"github.com/stemsi/exstem-console/internal/service"
	"github.com/stemsi/exstem-console/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

type fakeExams struct {
	exams      map[int]model.Exam
	lastFilter model.ExamFilter
	lastPage   [2]int
	createErr  error
}

func (f *fakeExams) List(_ context.Context, filter model.ExamFilter, pageIndex, pageSize int) (model.PagedResponse[model.Exam], error) {
	f.lastFilter = filter
	f.lastPage = [2]int{pageIndex, pageSize}
	p := service.NormalizePage(pageIndex, pageSize)
	var items []model.Exam
	if p.Index == 1 {
		for _, e := range f.exams {
			items = append(items, e)
		}
	}
	return model.NewPagedResponse(items, len(f.exams), p.Index, p.Size), nil
}

func (f *fakeExams) GetByID(_ context.Context, id int) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &e, nil
}

func (f *fakeExams) Create(_ context.Context, req model.ExamCreate) (*model.Exam, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e := model.Exam{ID: len(f.exams) + 1, Title: req.Title, StartDate: req.StartDate, EndDate: req.EndDate}
	f.exams[e.ID] = e
	return &e, nil
}

func (f *fakeExams) Update(_ context.Context, id int, req model.ExamUpdate) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	f.exams[id] = e
	return &e, nil
}

func (f *fakeExams) Delete(_ context.Context, id int) error {
	if _, ok := f.exams[id]; !ok {
		return service.ErrNotFound
	}
	delete(f.exams, id)
	return nil
}

type fakeQuestions struct {
	err error
}

func (f *fakeQuestions) List(_ context.Context, pageIndex, pageSize int) (model.PagedResponse[model.Question], error) {
	p := service.NormalizePage(pageIndex, pageSize)
	return model.NewPagedResponse[model.Question](nil, 0, p.Index, p.Size), nil
}

func (f *fakeQuestions) GetByID(context.Context, int) (*model.Question, error) {
	return nil, service.ErrNotFound
}

func (f *fakeQuestions) Create(_ context.Context, req model.QuestionCreate) (*model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Question{ID: 1, ExamID: req.ExamID, Text: req.Text, Type: req.Type}, nil
}

func (f *fakeQuestions) Update(_ context.Context, id int, req model.QuestionUpdate) (*model.Question, error) {
	return &model.Question{ID: id, ExamID: req.ExamID}, f.err
}

func (f *fakeQuestions) Delete(context.Context, int) error {
	return f.err
}

func newTestRouter(exams *fakeExams, questions *fakeQuestions) *gin.Engine {
	r := gin.New()
	eh := NewExamHandler(exams, zerolog.Nop())
	qh := NewQuestionHandler(questions, zerolog.Nop())
	api := r.Group("/api")
	api.GET("/exams", eh.ListExams)
	api.GET("/exams/:id", eh.GetExam)
	api.POST("/exams", eh.CreateExam)
	api.PUT("/exams/:id", eh.UpdateExam)
	api.DELETE("/exams/:id", eh.DeleteExam)
	api.GET("/questions", qh.ListQuestions)
	api.GET("/questions/:id", qh.GetQuestion)
	api.POST("/questions", qh.CreateQuestion)
	api.PUT("/questions/:id", qh.UpdateQuestion)
	api.DELETE("/questions/:id", qh.DeleteQuestion)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return body
}

func seeded() *fakeExams {
	return &fakeExams{exams: map[int]model.Exam{
		1: {ID: 1, Title: "Midterm"},
	}}
}

func TestListExamsBindsQuery(t *testing.T) {
	exams := seeded()
	r := newTestRouter(exams, &fakeQuestions{})

	w := serve(r, http.MethodGet, "/api/exams?pageIndex=1&pageSize=5&title=mid&createdBy=3&startDateFrom=2025-01-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if exams.lastFilter.Title != "mid" || exams.lastFilter.CreatedBy != 3 || exams.lastFilter.StartDateFrom != "2025-01-01" {
		t.Errorf("filter = %+v", exams.lastFilter)
	}
	if exams.lastPage != [2]int{1, 5} {
		t.Errorf("page = %v", exams.lastPage)
	}

	var page model.PagedResponse[model.Exam]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 || len(page.Items) != 1 || page.PageSize != 5 {
		t.Errorf("page = %+v", page)
	}
}

func TestEmptyPageSerialisesItemsArray(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodGet, "/api/exams?pageIndex=2&pageSize=10", "")
	if !strings.Contains(w.Body.String(), `"items":[]`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetExamNotFound(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodGet, "/api/exams/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decodeError(t, w); body.Code != response.ErrNotFound || body.Message == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestInvalidID(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodDelete, "/api/exams/abc", "")
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != response.ErrInvalidID {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestCreateExamValidation(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodPost, "/api/exams", `{"title":"   ","durationMinutes":0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeError(t, w)
	if body.Code != response.ErrValidation {
		t.Errorf("code = %s", body.Code)
	}
	for _, field := range []string{"title", "startDate", "endDate", "durationMinutes", "createdBy"} {
		if body.Fields[field] == "" {
			t.Errorf("missing field error for %s: %v", field, body.Fields)
		}
	}
}

func TestMalformedBodyIsInvalidPayload(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	cases := map[string]string{
		"truncated":  `{"title":`,
		"wrong type": `{"examId":"one","text":"?","type":"Essay","points":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/api/questions", body)
			if w.Code != http.StatusBadRequest || decodeError(t, w).Code != response.ErrInvalidPayload {
				t.Errorf("status = %d body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateExamReturnsRecord(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodPost, "/api/exams",
		`{"title":"Final","startDate":"2025-06-01T09:00:00Z","endDate":"2025-06-01T11:00:00Z","durationMinutes":120,"createdBy":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var e model.Exam
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Title != "Final" || e.ID == 0 {
		t.Errorf("exam = %+v, err = %v", e, err)
	}
}

func TestCreateExamScheduleError(t *testing.T) {
	exams := seeded()
	exams.createErr = service.ErrInvalidSchedule
	r := newTestRouter(exams, &fakeQuestions{})
	w := serve(r, http.MethodPost, "/api/exams",
		`{"title":"Final","startDate":"2025-06-01T11:00:00Z","endDate":"2025-06-01T09:00:00Z","durationMinutes":120,"createdBy":1}`)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != response.ErrInvalidSchedule {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestDeleteExamNoContent(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodDelete, "/api/exams/1", "")
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("status = %d body = %q", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodDelete, "/api/exams/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", w.Code)
	}
}

func TestCreateQuestionUnknownExam(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{err: service.ErrUnknownExam})
	w := serve(r, http.MethodPost, "/api/questions", `{"examId":42,"text":"Sky is blue","type":"TrueFalse","correctAnswer":"True","points":1}`)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != response.ErrInvalidExamRef {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestCreateQuestionRejectsUnknownType(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodPost, "/api/questions", `{"examId":1,"text":"?","type":"Matching","points":1}`)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Fields["type"] == "" {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestUpdateQuestionRequiresExamID(t *testing.T) {
	r := newTestRouter(seeded(), &fakeQuestions{})
	w := serve(r, http.MethodPut, "/api/questions/3", `{"text":"Changed"}`)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Fields["examId"] == "" {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

// The console's API client must understand every response shape the
// handlers produce.
func TestClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(seeded(), &fakeQuestions{}))
	defer srv.Close()
	client := apiclient.NewClient(srv.URL + "/api")
	ctx := context.Background()

	page, err := client.ListExams(ctx, 1, 10, model.ExamFilter{})
	if err != nil || page.TotalPages != 1 || page.PageIndex != 1 {
		t.Fatalf("ListExams = %+v, %v", page, err)
	}

	empty, err := client.ListQuestions(ctx, 1, 10)
	if err != nil || empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("ListQuestions = %+v, %v", empty, err)
	}

	if _, err := client.GetExam(ctx, 77); !errors.Is(err, apiclient.ErrNotFound) {
		t.Errorf("GetExam err = %v", err)
	}

	if err := client.CreateExam(ctx, model.ExamCreate{
		Title: "Quiz", StartDate: "2025-01-01T08:00:00Z", EndDate: "2025-01-01T09:00:00Z", DurationMinutes: 30, CreatedBy: 1,
	}); err != nil {
		t.Errorf("CreateExam: %v", err)
	}

	if err := client.DeleteExam(ctx, 1); err != nil {
		t.Errorf("DeleteExam: %v", err)
	}

	err = client.CreateQuestion(ctx, model.QuestionCreate{ExamID: 1, Text: " ", Type: model.QuestionTypeEssay, Points: 1})
	reqErr, ok := apiclient.AsRequestError(err)
	if !ok || reqErr.Status != http.StatusBadRequest || reqErr.Fields["text"] == "" {
		t.Errorf("CreateQuestion err = %#v", err)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		db     Pinger
		status int
		want   string
	}{
		{"redis missing", fakePinger{}, http.StatusOK, "degraded"},
		{"postgres down", fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewSystemHandler(tc.db, nil, zerolog.Nop()).Health)
			w := serve(r, http.MethodGet, "/health", "")
			if w.Code != tc.status {
				t.Fatalf("status = %d", w.Code)
			}
			var report healthReport
			if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil || report.Status != tc.want {
				t.Errorf("report = %+v, err = %v", report, err)
			}
		})
	}
}
