package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"
)

func TestWebsiteCheck(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       model.WebsiteStatus
	}{
		{"OK response", http.StatusOK, model.WebsiteOK},
		{"No content still ok", http.StatusNoContent, model.WebsiteOK},
		{"Redirect-free 404", http.StatusNotFound, model.WebsiteDown},
		{"Server error", http.StatusInternalServerError, model.WebsiteDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("Expected HEAD request, got %s", r.Method)
				}
				w.WriteHeader(tt.statusCode)
			}))
			defer backend.Close()

			checker := NewWebsiteChecker(config.ProbesConfig{TimeoutSeconds: 2})
			checker.baseURL = backend.URL

			if got := checker.Check(context.Background(), "acme"); got != tt.want {
				t.Errorf("Check() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWebsiteCheck_Unreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	checker := NewWebsiteChecker(config.ProbesConfig{TimeoutSeconds: 2})
	checker.baseURL = backend.URL

	if got := checker.Check(context.Background(), "acme"); got != model.WebsiteDown {
		t.Errorf("Check() = %q, want %q", got, model.WebsiteDown)
	}
}
