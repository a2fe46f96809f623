package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"
)

func newWhoisTestClient(backend *httptest.Server) *WhoisClient {
	return NewWhoisClient(config.ProbesConfig{
		WhoisAPIKey:    "test-key",
		WhoisEndpoint:  backend.URL,
		TimeoutSeconds: 2,
	})
}

func TestCheckDomain_Interpretation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.DomainStatus
	}{
		{
			"Missing whois data means available",
			`{"WhoisRecord":{"dataError":"MISSING_WHOIS_DATA"}}`,
			model.DomainAvailable,
		},
		{
			"No data means available",
			`{"WhoisRecord":{"dataError":"NO_DATA"}}`,
			model.DomainAvailable,
		},
		{
			"Incomplete data means available",
			`{"WhoisRecord":{"dataError":"INCOMPLETE_DATA"}}`,
			model.DomainAvailable,
		},
		{
			"No match marker in raw text means available",
			`{"WhoisRecord":{"registryData":{"rawText":"No match for domain ACME.COM"}}}`,
			model.DomainAvailable,
		},
		{
			"No match marker in stripped text means available",
			`{"WhoisRecord":{"registryData":{"strippedText":"No match"}}}`,
			model.DomainAvailable,
		},
		{
			"Structured record means taken",
			`{"WhoisRecord":{"registryData":{"rawText":"Domain Name: ACME.COM\nRegistrar: Example Inc."}}}`,
			model.DomainTaken,
		},
		{
			"Record without registry data means taken",
			`{"WhoisRecord":{}}`,
			model.DomainTaken,
		},
		{
			"Missing record means error",
			`{}`,
			model.DomainError,
		},
		{
			"Malformed body means error",
			`{not json`,
			model.DomainError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("domainName") != "acme.com" {
					t.Errorf("Unexpected domainName query: %s", r.URL.Query().Get("domainName"))
				}
				w.Write([]byte(tt.body))
			}))
			defer backend.Close()

			check := newWhoisTestClient(backend).CheckDomain(context.Background(), "acme.com")

			if check.Domain != "acme.com" {
				t.Errorf("Domain = %q, want %q", check.Domain, "acme.com")
			}
			if check.Status != tt.want {
				t.Errorf("Status = %q, want %q", check.Status, tt.want)
			}
		})
	}
}

func TestCheckDomain_BackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	check := newWhoisTestClient(backend).CheckDomain(context.Background(), "acme.com")
	if check.Status != model.DomainError {
		t.Errorf("Status = %q, want %q", check.Status, model.DomainError)
	}
}

func TestCheckDomain_Unreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // shut down before use

	check := newWhoisTestClient(backend).CheckDomain(context.Background(), "acme.com")
	if check.Status != model.DomainError {
		t.Errorf("Status = %q, want %q", check.Status, model.DomainError)
	}
}
