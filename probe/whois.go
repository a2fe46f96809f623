package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"

	"github.com/rs/zerolog/log"
)

// WhoisClient checks domain registration status via the WhoisXML API.
// All failures are absorbed into the returned DomainCheck; CheckDomain never
// returns an error so one bad registry lookup cannot abort a preview.
type WhoisClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewWhoisClient creates a new WHOIS lookup client
func NewWhoisClient(cfg config.ProbesConfig) *WhoisClient {
	return &WhoisClient{
		apiKey:   cfg.WhoisAPIKey,
		endpoint: cfg.WhoisEndpoint,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// whoisResponse is the subset of the WhoisXML response we interpret
type whoisResponse struct {
	WhoisRecord *whoisRecord `json:"WhoisRecord"`
}

type whoisRecord struct {
	DataError    string        `json:"dataError"`
	RegistryData *registryData `json:"registryData"`
}

type registryData struct {
	RawText      string `json:"rawText"`
	StrippedText string `json:"strippedText"`
}

// CheckDomain looks up one domain variant. A registry record with an explicit
// no-data error code, or raw/stripped registry text containing "No match",
// means the domain is available; any other structured record means taken;
// transport or format failures yield DomainError.
func (c *WhoisClient) CheckDomain(ctx context.Context, domain string) model.DomainCheck {
	check := model.DomainCheck{Domain: domain, Status: model.DomainError}

	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	query.Set("domainName", domain)
	query.Set("outputFormat", "JSON")
	reqURL := c.endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error().Err(err).Str("domain", domain).Msg("Failed to build whois request")
		return check
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("Whois lookup failed")
		return check
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("domain", domain).Msg("Whois backend returned non-200 status")
		return check
	}

	var whois whoisResponse
	if err := json.NewDecoder(resp.Body).Decode(&whois); err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("Failed to decode whois response")
		return check
	}

	record := whois.WhoisRecord
	if record == nil {
		// No record at all is indistinguishable from a backend fault
		return check
	}

	if record.isAvailable() {
		check.Status = model.DomainAvailable
	} else {
		check.Status = model.DomainTaken
	}

	log.Debug().Str("domain", domain).Str("status", string(check.Status)).Msg("Whois check completed")
	return check
}

// isAvailable interprets the registry markers that signal an unregistered
// domain: explicit no-data error codes, or a "No match" marker in the raw or
// stripped registry text.
func (r *whoisRecord) isAvailable() bool {
	switch r.DataError {
	case "MISSING_WHOIS_DATA", "NO_DATA", "INCOMPLETE_DATA":
		return true
	}
	if r.RegistryData != nil {
		if strings.Contains(r.RegistryData.RawText, "No match") ||
			strings.Contains(r.RegistryData.StrippedText, "No match") {
			return true
		}
	}
	return false
}
