package model

// CreateRequest is the request body for starting a report. Kept here so the
// swagger annotations can reference it.
type CreateRequest struct {
	BrandName string `json:"brandName" example:"acme"`
}
