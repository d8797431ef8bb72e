package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func brotliRouter(body string) *gin.Engine {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{Quality: 5, MinLength: 64}))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, body)
	})
	return r
}

func get(r http.Handler, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("exam list row ", 50)
	w := get(brotliRouter(body), "gzip, br;q=1.0")

	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q", got)
	}
	plain, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(plain) != body {
		t.Errorf("round trip mismatch: %d bytes", len(plain))
	}
}

func TestBrotliLeavesSmallBodiesPlain(t *testing.T) {
	w := get(brotliRouter("ok"), "br")
	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q", got)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestBrotliRequiresAcceptEncoding(t *testing.T) {
	body := strings.Repeat("x", 200)
	w := get(brotliRouter(body), "gzip")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != body {
		t.Errorf("unexpected compression for gzip-only client")
	}
}

func TestBrotliFlushCommitsPlainOutput(t *testing.T) {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
		_, _ = c.Writer.Write([]byte("head "))
		c.Writer.Flush()
		_, _ = c.Writer.Write([]byte(strings.Repeat("y", 100)))
	})

	w := get(r, "br")
	if w.Header().Get("Content-Encoding") != "" {
		t.Fatalf("flushed response must stay plain")
	}
	if want := "head " + strings.Repeat("y", 100); w.Body.String() != want {
		t.Errorf("body = %q", w.Body.String())
	}
}
