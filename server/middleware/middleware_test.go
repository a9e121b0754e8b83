package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(log *logger.Logger) *gin.Engine {
	e := gin.New()
	e.Use(middleware.Recovery(log), middleware.RequestID(), middleware.RequestLogger(log))
	e.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	e.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	e.GET("/panic", func(*gin.Context) { panic("test panic") })
	e.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return e
}

func do(e *gin.Engine, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestRecovery_NoPanic(t *testing.T) {
	rr := do(newEngine(logger.Nop()), "/ok", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_Panic(t *testing.T) {
	rr := do(newEngine(logger.Nop()), "/panic", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
}

func TestRequestID_GeneratesID(t *testing.T) {
	rr := do(newEngine(logger.Nop()), "/ok", nil)
	if len(rr.Header().Get(middleware.HeaderRequestID)) != 36 {
		t.Errorf("expected generated UUID, got %q", rr.Header().Get(middleware.HeaderRequestID))
	}
}

func TestRequestID_PreservesID(t *testing.T) {
	rr := do(newEngine(logger.Nop()), "/ok", http.Header{middleware.HeaderRequestID: {"abc"}})
	if got := rr.Header().Get(middleware.HeaderRequestID); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	e := newEngine(log)

	do(e, "/health", nil)
	if buf.Len() != 0 {
		t.Errorf("expected health checks to be skipped, got %s", buf.String())
	}

	do(e, "/missing", http.Header{middleware.HeaderRequestID: {"req-1"}})
	line := buf.String()
	for _, want := range []string{`"level":"warn"`, `"status":404`, `"path":"/missing"`, `"request_id":"req-1"`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %s in %s", want, line)
		}
	}
}
