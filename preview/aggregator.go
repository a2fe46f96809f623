package preview

import (
	"context"
	"sync"

	"github.com/dopeeycode/brandfuse-api/model"

	"github.com/rs/zerolog/log"
)

// DomainProber checks registration status of a single domain variant
type DomainProber interface {
	CheckDomain(ctx context.Context, domain string) model.DomainCheck
}

// SocialProber checks profile existence on a social platform
type SocialProber interface {
	CheckProfile(ctx context.Context, platform, brandName string) model.SocialStatus
}

// WebsiteProber checks reachability of the brand's primary domain
type WebsiteProber interface {
	Check(ctx context.Context, brandName string) model.WebsiteStatus
}

// Aggregator fans out all probes for one brand name concurrently and
// assembles the PreviewData. Probes absorb their own failures, so
// BuildPreview always returns a complete value and never an error.
type Aggregator struct {
	domains   DomainProber
	social    SocialProber
	website   WebsiteProber
	tlds      []string
	platforms []string
}

// NewAggregator creates a preview aggregator over the given probes. tlds
// fixes the order of DomainChecks in every preview; platforms fixes the key
// set of the social map.
func NewAggregator(domains DomainProber, social SocialProber, website WebsiteProber, tlds, platforms []string) *Aggregator {
	return &Aggregator{
		domains:   domains,
		social:    social,
		website:   website,
		tlds:      tlds,
		platforms: platforms,
	}
}

// BuildPreview runs every domain variant, the website check, and every
// social platform check concurrently and waits for all of them. Each
// goroutine writes only its own pre-allocated slot, so result order follows
// the configured TLD list rather than completion order.
func (a *Aggregator) BuildPreview(ctx context.Context, brandName string) model.PreviewData {
	domainChecks := make([]model.DomainCheck, len(a.tlds))
	socialResults := make([]model.SocialStatus, len(a.platforms))
	var websiteStatus model.WebsiteStatus

	var wg sync.WaitGroup

	for i, tld := range a.tlds {
		i, tld := i, tld
		wg.Add(1)
		go func() {
			defer wg.Done()
			domainChecks[i] = a.domains.CheckDomain(ctx, brandName+tld)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		websiteStatus = a.website.Check(ctx, brandName)
	}()

	for i, platform := range a.platforms {
		i, platform := i, platform
		wg.Add(1)
		go func() {
			defer wg.Done()
			socialResults[i] = a.social.CheckProfile(ctx, platform, brandName)
		}()
	}

	wg.Wait()

	social := make(map[string]model.SocialStatus, len(a.platforms))
	for i, platform := range a.platforms {
		social[platform] = socialResults[i]
	}

	log.Info().
		Str("brand_name", brandName).
		Int("domain_checks", len(domainChecks)).
		Str("website", string(websiteStatus)).
		Msg("Preview aggregation completed")

	return model.PreviewData{
		DomainChecks: domainChecks,
		Website:      websiteStatus,
		Social:       social,
	}
}
