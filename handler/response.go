package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dopeeycode/brandfuse-api/model"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CreateReportResponse is the payload returned when a report is started
type CreateReportResponse struct {
	ReportID    string            `json:"reportId"`
	CheckoutURL string            `json:"checkoutUrl"`
	PreviewData model.PreviewData `json:"previewData"`
}

// WebhookResponse acknowledges an inbound billing event
type WebhookResponse struct {
	Received bool   `json:"received"`
	Status   string `json:"status,omitempty"`
}

// SendJSONError sends a JSON error response
func SendJSONError(w http.ResponseWriter, statusCode int, err error, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   err.Error(),
		Message: message,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("Failed to encode error response")
	}
}

// SendJSONSuccess sends a JSON success response
func SendJSONSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode success response")
	}
}
