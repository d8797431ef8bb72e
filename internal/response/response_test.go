package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(t *testing.T, reqID string, h gin.HandlerFunc) (*httptest.ResponseRecorder, ErrorBody) {
	t.Helper()
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body ErrorBody
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return w, body
}

func TestFailCarriesRequestID(t *testing.T) {
	w, body := run(t, "trace-123", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrNotFound)
	})
	if w.Code != http.StatusNotFound || body.Code != ErrNotFound {
		t.Fatalf("status = %d body = %+v", w.Code, body)
	}
	if body.RequestID != "trace-123" || w.Header().Get("X-Request-ID") != "trace-123" {
		t.Errorf("request id = %q / %q", body.RequestID, w.Header().Get("X-Request-ID"))
	}
	if body.Message != GetMessage(ErrNotFound) {
		t.Errorf("message = %q", body.Message)
	}
}

func TestRequestIDReplacedWhenUnusable(t *testing.T) {
	for _, id := range []string{"", strings.Repeat("a", 65), "has space"} {
		w, _ := run(t, id, func(c *gin.Context) { NoContent(c) })
		got := w.Header().Get("X-Request-ID")
		if got == "" || got == id {
			t.Errorf("incoming %q kept as %q", id, got)
		}
	}
}

func TestFailWithFields(t *testing.T) {
	_, body := run(t, "", func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"title": "title is required"})
	})
	if body.Fields["title"] != "title is required" {
		t.Errorf("fields = %v", body.Fields)
	}
}

func TestAbortFailStopsChain(t *testing.T) {
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) {
		AbortFail(c, http.StatusTooManyRequests, ErrRateLimitExceeded)
	}, func(c *gin.Context) {
		reached = true
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if reached || w.Code != http.StatusTooManyRequests {
		t.Errorf("reached = %v status = %d", reached, w.Code)
	}
}

func TestUnknownCodeMessage(t *testing.T) {
	if GetMessage("SOMETHING_ELSE") != "An unexpected error occurred." {
		t.Errorf("fallback message changed")
	}
}
