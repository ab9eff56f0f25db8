package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runSanitize(t *testing.T, target string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Sanitize()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func TestSanitize_AllowsCleanRequest(t *testing.T) {
	rec := runSanitize(t, "/api/v1/incidents?status=open", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestSanitize_BlocksPathTraversal(t *testing.T) {
	rec := runSanitize(t, "/api/v1/../../etc/passwd", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSanitize_BlocksScriptInjection(t *testing.T) {
	rec := runSanitize(t, "/api/v1/incidents?q=%3Cscript%3Ealert(1)%3C/script%3E", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSanitize_BlocksHeaderInjection(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents", nil)
	req.Header["X-Custom"] = []string{"value\r\nInjected: true"}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Sanitize()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello world"},
		{"  trimmed  ", "trimmed"},
		{"null\x00byte", "nullbyte"},
		{"line\nbreaks\tkept", "line\nbreaks\tkept"},
		{"ctrl\x07chars", "ctrlchars"},
	}
	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
