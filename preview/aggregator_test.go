package preview

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dopeeycode/brandfuse-api/model"
)

var (
	testTLDs      = []string{".com", ".com.br", ".net", ".org"}
	testPlatforms = []string{"instagram", "tiktok", "x"}
)

// fakeDomainProber resolves per-domain after a configurable delay so slower
// probes finish after faster ones
type fakeDomainProber struct {
	delays map[string]time.Duration
	status map[string]model.DomainStatus
	calls  int32
}

func (f *fakeDomainProber) CheckDomain(ctx context.Context, domain string) model.DomainCheck {
	atomic.AddInt32(&f.calls, 1)
	if delay, ok := f.delays[domain]; ok {
		time.Sleep(delay)
	}
	status, ok := f.status[domain]
	if !ok {
		status = model.DomainAvailable
	}
	return model.DomainCheck{Domain: domain, Status: status}
}

type fakeSocialProber struct {
	status map[string]model.SocialStatus
	delay  time.Duration
}

func (f *fakeSocialProber) CheckProfile(ctx context.Context, platform, brandName string) model.SocialStatus {
	time.Sleep(f.delay)
	if status, ok := f.status[platform]; ok {
		return status
	}
	return model.SocialNotFound
}

type fakeWebsiteProber struct {
	status model.WebsiteStatus
}

func (f *fakeWebsiteProber) Check(ctx context.Context, brandName string) model.WebsiteStatus {
	return f.status
}

func TestBuildPreview_PreservesTLDOrder(t *testing.T) {
	// First TLD is the slowest, last the fastest; completion order is the
	// reverse of the configured order
	domains := &fakeDomainProber{
		delays: map[string]time.Duration{
			"acme.com":    80 * time.Millisecond,
			"acme.com.br": 60 * time.Millisecond,
			"acme.net":    40 * time.Millisecond,
			"acme.org":    10 * time.Millisecond,
		},
		status: map[string]model.DomainStatus{},
	}

	agg := NewAggregator(domains, &fakeSocialProber{}, &fakeWebsiteProber{status: model.WebsiteOK}, testTLDs, testPlatforms)
	data := agg.BuildPreview(context.Background(), "acme")

	if len(data.DomainChecks) != len(testTLDs) {
		t.Fatalf("DomainChecks length = %d, want %d", len(data.DomainChecks), len(testTLDs))
	}
	for i, tld := range testTLDs {
		want := "acme" + tld
		if data.DomainChecks[i].Domain != want {
			t.Errorf("DomainChecks[%d].Domain = %q, want %q", i, data.DomainChecks[i].Domain, want)
		}
	}
}

func TestBuildPreview_RunsProbesConcurrently(t *testing.T) {
	delays := make(map[string]time.Duration, len(testTLDs))
	for _, tld := range testTLDs {
		delays["acme"+tld] = 50 * time.Millisecond
	}
	domains := &fakeDomainProber{delays: delays, status: map[string]model.DomainStatus{}}
	social := &fakeSocialProber{delay: 50 * time.Millisecond}

	agg := NewAggregator(domains, social, &fakeWebsiteProber{status: model.WebsiteOK}, testTLDs, testPlatforms)

	start := time.Now()
	agg.BuildPreview(context.Background(), "acme")
	elapsed := time.Since(start)

	// Serialized execution would need at least 7 * 50ms
	if elapsed > 200*time.Millisecond {
		t.Errorf("BuildPreview took %v, probes appear serialized", elapsed)
	}
	if got := atomic.LoadInt32(&domains.calls); got != int32(len(testTLDs)) {
		t.Errorf("Domain probe called %d times, want %d", got, len(testTLDs))
	}
}

func TestBuildPreview_AllPlatformsAlwaysPresent(t *testing.T) {
	social := &fakeSocialProber{status: map[string]model.SocialStatus{
		"instagram": model.SocialOK,
		// tiktok and x deliberately unset; the prober returns not found
	}}

	agg := NewAggregator(&fakeDomainProber{status: map[string]model.DomainStatus{}}, social, &fakeWebsiteProber{status: model.WebsiteDown}, testTLDs, testPlatforms)
	data := agg.BuildPreview(context.Background(), "acme")

	if len(data.Social) != len(testPlatforms) {
		t.Fatalf("Social has %d entries, want %d", len(data.Social), len(testPlatforms))
	}
	for _, platform := range testPlatforms {
		if _, ok := data.Social[platform]; !ok {
			t.Errorf("Social missing entry for %q", platform)
		}
	}
	if data.Social["instagram"] != model.SocialOK {
		t.Errorf("Social[instagram] = %q, want %q", data.Social["instagram"], model.SocialOK)
	}
	if data.Social["tiktok"] != model.SocialNotFound {
		t.Errorf("Social[tiktok] = %q, want %q", data.Social["tiktok"], model.SocialNotFound)
	}
}

func TestBuildPreview_FailedProbesStillComplete(t *testing.T) {
	// Probes encode failure in their results; the preview must carry those
	// normalized statuses for every slot
	domains := &fakeDomainProber{status: map[string]model.DomainStatus{
		"acme.com":    model.DomainError,
		"acme.com.br": model.DomainError,
		"acme.net":    model.DomainError,
		"acme.org":    model.DomainError,
	}}

	agg := NewAggregator(domains, &fakeSocialProber{}, &fakeWebsiteProber{status: model.WebsiteDown}, testTLDs, testPlatforms)
	data := agg.BuildPreview(context.Background(), "acme")

	for i, check := range data.DomainChecks {
		if check.Status != model.DomainError {
			t.Errorf("DomainChecks[%d].Status = %q, want %q", i, check.Status, model.DomainError)
		}
		if !strings.HasPrefix(check.Domain, "acme") {
			t.Errorf("DomainChecks[%d].Domain = %q, missing brand prefix", i, check.Domain)
		}
	}
	if data.Website != model.WebsiteDown {
		t.Errorf("Website = %q, want %q", data.Website, model.WebsiteDown)
	}
}
