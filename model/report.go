package model

import "time"

// ReportStatus is the lifecycle state of a report. The only legal transition
// is StatusPending -> StatusPaid; StatusPaid is terminal.
type ReportStatus string

const (
	StatusPending ReportStatus = "PENDING"
	StatusPaid    ReportStatus = "PAID"
)

// DomainStatus represents the availability status of a single domain variant
type DomainStatus string

const (
	DomainAvailable DomainStatus = "available"
	DomainTaken     DomainStatus = "taken"
	DomainError     DomainStatus = "error"
)

// SocialStatus represents whether a profile exists on a social platform
type SocialStatus string

const (
	SocialOK       SocialStatus = "ok"
	SocialNotFound SocialStatus = "not found"
)

// WebsiteStatus represents reachability of the brand's primary domain
type WebsiteStatus string

const (
	WebsiteOK   WebsiteStatus = "ok"
	WebsiteDown WebsiteStatus = "down"
)

// DomainCheck holds the result of one per-TLD availability lookup
type DomainCheck struct {
	Domain string       `json:"domain"`
	Status DomainStatus `json:"status"`
}

// PreviewData is the aggregated probe output shown before payment.
// DomainChecks keeps the configured TLD order; Social always carries an entry
// for every supported platform.
type PreviewData struct {
	DomainChecks []DomainCheck           `json:"domainChecks"`
	Website      WebsiteStatus           `json:"website"`
	Social       map[string]SocialStatus `json:"social"`
}

// FullReport is the paid content, synthesized once on the PENDING->PAID
// transition and immutable afterwards
type FullReport struct {
	DomainChecks   []DomainCheck           `json:"domainChecks"`
	Website        WebsiteStatus           `json:"website"`
	Social         map[string]SocialStatus `json:"social"`
	Score          int                     `json:"score"`
	AdvancedChecks []string                `json:"advancedChecks"`
}

// Report is the persisted entity. AccessToken and FullReport are both set iff
// Status is StatusPaid; PreviewData and BrandName never change after creation.
type Report struct {
	ID          string       `json:"id"`
	BrandName   string       `json:"brandName"`
	Status      ReportStatus `json:"status"`
	PreviewData PreviewData  `json:"previewData"`
	AccessToken string       `json:"accessToken,omitempty"`
	FullReport  *FullReport  `json:"fullReport,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	PaidAt      *time.Time   `json:"paidAt,omitempty"`
}
