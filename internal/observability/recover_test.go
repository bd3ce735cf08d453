package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware("test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/agent", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestCompactStackTruncates(t *testing.T) {
	stack := strings.Repeat("line\n", 100)
	got := compactStack(stack)
	if len(strings.Split(got, "\n")) > 16 {
		t.Fatalf("compacted stack still has %d lines", len(strings.Split(got, "\n")))
	}
}
