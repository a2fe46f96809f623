package utils

import "errors"

var (
	ErrEmptyBrandName    = errors.New("brandName is required")
	ErrInvalidBrandName  = errors.New("invalid brand name format")
	ErrBrandNameTooLong  = errors.New("brand name exceeds maximum length")
	ErrMissingToken      = errors.New("missing access token")
	ErrReportNotFound    = errors.New("report not found")
	ErrReportNotPaid     = errors.New("report not paid yet")
	ErrMissingSignature  = errors.New("missing webhook signature")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrMissingReportID   = errors.New("missing reportId in event metadata")
)
