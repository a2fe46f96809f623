package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"
	"github.com/dopeeycode/brandfuse-api/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupTestStore(t *testing.T) (*ReportStore, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	// Cache disabled so tests observe Redis state directly
	reportStore, err := New(client, config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return reportStore, s
}

func pendingReport(id string) *model.Report {
	return &model.Report{
		ID:        id,
		BrandName: "acme",
		Status:    model.StatusPending,
		PreviewData: model.PreviewData{
			DomainChecks: []model.DomainCheck{
				{Domain: "acme.com", Status: model.DomainAvailable},
			},
			Website: model.WebsiteOK,
			Social: map[string]model.SocialStatus{
				"instagram": model.SocialOK,
				"tiktok":    model.SocialNotFound,
				"x":         model.SocialOK,
			},
		},
		CreatedAt: time.Now(),
	}
}

func paidContent() *model.FullReport {
	return &model.FullReport{
		Website:        model.WebsiteOK,
		Score:          42,
		AdvancedChecks: []string{"Trademark check"},
	}
}

func TestCreateAndFindByID(t *testing.T) {
	reportStore, _ := setupTestStore(t)
	ctx := context.Background()

	report := pendingReport("rep-1")
	if err := reportStore.Create(ctx, report); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := reportStore.FindByID(ctx, "rep-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.BrandName != "acme" || found.Status != model.StatusPending {
		t.Errorf("FindByID() returned %+v", found)
	}
	if found.AccessToken != "" || found.FullReport != nil {
		t.Error("Pending report must not carry access token or full report")
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	reportStore, _ := setupTestStore(t)
	ctx := context.Background()

	if err := reportStore.Create(ctx, pendingReport("rep-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := reportStore.Create(ctx, pendingReport("rep-1")); !errors.Is(err, ErrReportExists) {
		t.Errorf("Expected ErrReportExists, got %v", err)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	reportStore, _ := setupTestStore(t)

	_, err := reportStore.FindByID(context.Background(), "missing")
	if !errors.Is(err, utils.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestMarkPaid_Transition(t *testing.T) {
	reportStore, _ := setupTestStore(t)
	ctx := context.Background()

	if err := reportStore.Create(ctx, pendingReport("rep-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := reportStore.MarkPaid(ctx, "rep-1", "token-abc", paidContent()); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	report, err := reportStore.FindByID(ctx, "rep-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if report.Status != model.StatusPaid {
		t.Errorf("Status = %q, want %q", report.Status, model.StatusPaid)
	}
	if report.AccessToken != "token-abc" {
		t.Errorf("AccessToken = %q, want %q", report.AccessToken, "token-abc")
	}
	if report.FullReport == nil || report.FullReport.Score != 42 {
		t.Errorf("FullReport not set as expected: %+v", report.FullReport)
	}
	if report.PaidAt == nil {
		t.Error("PaidAt not set")
	}

	// The token index must resolve the same record
	byToken, err := reportStore.FindByToken(ctx, "token-abc")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if byToken.ID != "rep-1" {
		t.Errorf("FindByToken() returned report %q, want rep-1", byToken.ID)
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	reportStore, _ := setupTestStore(t)
	ctx := context.Background()

	if err := reportStore.Create(ctx, pendingReport("rep-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := reportStore.MarkPaid(ctx, "rep-1", "token-first", paidContent()); err != nil {
		t.Fatalf("First MarkPaid() error = %v", err)
	}

	err := reportStore.MarkPaid(ctx, "rep-1", "token-second", paidContent())
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("Second MarkPaid() error = %v, want ErrAlreadyPaid", err)
	}

	report, err := reportStore.FindByID(ctx, "rep-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if report.AccessToken != "token-first" {
		t.Errorf("AccessToken = %q, the first token must survive redelivery", report.AccessToken)
	}
}

func TestMarkPaid_NotFound(t *testing.T) {
	reportStore, _ := setupTestStore(t)

	err := reportStore.MarkPaid(context.Background(), "missing", "token", paidContent())
	if !errors.Is(err, utils.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestMarkPaid_ConcurrentDuplicates(t *testing.T) {
	reportStore, _ := setupTestStore(t)
	ctx := context.Background()

	if err := reportStore.Create(ctx, pendingReport("rep-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	var winners int32
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = reportStore.MarkPaid(ctx, "rep-1", fmt.Sprintf("token-%d", i), paidContent())
		}()
	}
	wg.Wait()

	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrAlreadyPaid):
		default:
			t.Errorf("Unexpected MarkPaid error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("Exactly one MarkPaid must win, got %d", winners)
	}

	// The surviving record carries exactly the winner's token
	report, err := reportStore.FindByID(ctx, "rep-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	byToken, err := reportStore.FindByToken(ctx, report.AccessToken)
	if err != nil {
		t.Fatalf("FindByToken(%q) error = %v", report.AccessToken, err)
	}
	if byToken.AccessToken != report.AccessToken {
		t.Errorf("Token index and record disagree: %q vs %q", byToken.AccessToken, report.AccessToken)
	}
}

func TestFindByToken_NotFound(t *testing.T) {
	reportStore, _ := setupTestStore(t)

	_, err := reportStore.FindByToken(context.Background(), "unknown-token")
	if !errors.Is(err, utils.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestFindByToken_CachesPaidReports(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	reportStore, err := New(client, config.CacheConfig{
		Enabled:     true,
		MaxSizeMB:   1,
		TTLSeconds:  60,
		CounterSize: 1000,
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer reportStore.Close()

	ctx := context.Background()
	if err := reportStore.Create(ctx, pendingReport("rep-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := reportStore.MarkPaid(ctx, "rep-1", "token-abc", paidContent()); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	first, err := reportStore.FindByToken(ctx, "token-abc")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}

	// Ristretto admission is asynchronous
	time.Sleep(20 * time.Millisecond)

	// Redis going away must not break cached reads once the entry landed
	s.Close()
	cached, err := reportStore.FindByToken(ctx, "token-abc")
	if err == nil && cached.ID != first.ID {
		t.Errorf("Cached report id = %q, want %q", cached.ID, first.ID)
	}
}
