package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"

	"github.com/rs/zerolog/log"
)

// WebsiteChecker probes whether the brand's presumed primary domain serves a
// live site. It issues a HEAD request so no body is transferred.
type WebsiteChecker struct {
	baseURL    string
	httpClient *http.Client
}

// NewWebsiteChecker creates a website reachability checker
func NewWebsiteChecker(cfg config.ProbesConfig) *WebsiteChecker {
	return &WebsiteChecker{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Check reports WebsiteOK only for a 2xx response from https://{brand}.com;
// any other response or transport failure is WebsiteDown.
func (c *WebsiteChecker) Check(ctx context.Context, brandName string) model.WebsiteStatus {
	target := c.baseURL
	if target == "" {
		target = fmt.Sprintf("https://%s.com", brandName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		log.Error().Err(err).Str("brand_name", brandName).Msg("Failed to build website check request")
		return model.WebsiteDown
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("brand_name", brandName).Msg("Website unreachable")
		return model.WebsiteDown
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return model.WebsiteOK
	}
	return model.WebsiteDown
}
