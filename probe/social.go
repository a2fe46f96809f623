package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"

	"github.com/rs/zerolog/log"
)

// Supported social platform names. These are the keys of PreviewData.Social.
const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformX         = "x"
)

// actorItem is a single record returned by a scraping actor's dataset
type actorItem struct {
	Error string `json:"error"`
	Demo  bool   `json:"demo"`
}

// platformSpec describes how one platform's profile check is performed:
// which actor to run, how to address the profile, and how to read the
// dataset it produces. Interpretation rules differ per actor, so they live
// here as data instead of branching inside the client.
type platformSpec struct {
	actorID     string
	resultsType string
	profileURL  func(brandName string) string
	interpret   func(items []actorItem) model.SocialStatus
}

// SocialClient checks profile existence through an Apify-style scraping
// backend. Every failure collapses to "not found"; CheckProfile never
// returns an error.
type SocialClient struct {
	token      string
	endpoint   string
	specs      map[string]platformSpec
	httpClient *http.Client
}

// NewSocialClient creates a social profile presence client with the
// per-platform actor configuration
func NewSocialClient(cfg config.ProbesConfig) *SocialClient {
	return &SocialClient{
		token:    cfg.ApifyToken,
		endpoint: cfg.ApifyEndpoint,
		specs: map[string]platformSpec{
			PlatformInstagram: {
				actorID:     cfg.InstagramActorID,
				resultsType: "details",
				profileURL: func(brandName string) string {
					return fmt.Sprintf("https://www.instagram.com/%s/", brandName)
				},
				interpret: func(items []actorItem) model.SocialStatus {
					if len(items) == 0 || items[0].Error == "no_items" {
						return model.SocialNotFound
					}
					return model.SocialOK
				},
			},
			PlatformTikTok: {
				actorID:     cfg.TikTokActorID,
				resultsType: "profile",
				profileURL: func(brandName string) string {
					return fmt.Sprintf("https://www.tiktok.com/@%s", brandName)
				},
				interpret: func(items []actorItem) model.SocialStatus {
					if len(items) == 0 || items[0].Demo {
						return model.SocialNotFound
					}
					return model.SocialOK
				},
			},
			PlatformX: {
				actorID:     cfg.XActorID,
				resultsType: "profile",
				profileURL: func(brandName string) string {
					return fmt.Sprintf("https://x.com/%s", brandName)
				},
				interpret: func(items []actorItem) model.SocialStatus {
					// The X actor pads its dataset with demo records; only a
					// real item proves the profile exists
					for _, item := range items {
						if !item.Demo {
							return model.SocialOK
						}
					}
					return model.SocialNotFound
				},
			},
		},
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Platforms returns the supported platform names in a stable order
func (c *SocialClient) Platforms() []string {
	return []string{PlatformInstagram, PlatformTikTok, PlatformX}
}

// actorInput is the request body sent to a scraping actor run
type actorInput struct {
	DirectURLs   []string `json:"directUrls"`
	ResultsType  string   `json:"resultsType"`
	ResultsLimit int      `json:"resultsLimit"`
}

// CheckProfile runs the platform's actor synchronously and interprets its
// dataset. Unknown platforms and any transport or backend error all yield
// SocialNotFound.
func (c *SocialClient) CheckProfile(ctx context.Context, platform, brandName string) model.SocialStatus {
	spec, ok := c.specs[platform]
	if !ok {
		log.Warn().Str("platform", platform).Msg("Unknown social platform")
		return model.SocialNotFound
	}

	input := actorInput{
		DirectURLs:   []string{spec.profileURL(brandName)},
		ResultsType:  spec.resultsType,
		ResultsLimit: 1,
	}

	body, err := json.Marshal(input)
	if err != nil {
		log.Error().Err(err).Str("platform", platform).Msg("Failed to marshal actor input")
		return model.SocialNotFound
	}

	runURL := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.endpoint, url.PathEscape(spec.actorID), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, runURL, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("platform", platform).Msg("Failed to build actor request")
		return model.SocialNotFound
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("platform", platform).Str("brand_name", brandName).Msg("Social profile check failed")
		return model.SocialNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("platform", platform).Msg("Scraping backend returned non-2xx status")
		return model.SocialNotFound
	}

	var items []actorItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		log.Warn().Err(err).Str("platform", platform).Msg("Failed to decode actor dataset")
		return model.SocialNotFound
	}

	status := spec.interpret(items)
	log.Debug().
		Str("platform", platform).
		Str("brand_name", brandName).
		Int("items", len(items)).
		Str("status", string(status)).
		Msg("Social profile check completed")
	return status
}
