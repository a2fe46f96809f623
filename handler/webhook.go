package handler

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dopeeycode/brandfuse-api/billing"
	"github.com/dopeeycode/brandfuse-api/model"
	"github.com/dopeeycode/brandfuse-api/store"
	"github.com/dopeeycode/brandfuse-api/utils"

	"github.com/rs/zerolog/log"
)

// Extra analyses listed in every paid report. Placeholder content until the
// scoring pipeline lands.
var advancedChecks = []string{
	"Trademark check",
	"Auction analysis",
	"Domain history",
}

// PaymentWebhook handles POST /api/stripe/webhook
// @Summary Billing payment webhook
// @Description Consumes payment events from the billing processor. Only checkout.session.completed changes report state; the transition is idempotent, so redelivering the same event is safe.
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} handler.WebhookResponse "Event acknowledged"
// @Failure 400 {object} handler.ErrorResponse "Signature or format verification failed"
// @Failure 404 {object} handler.ErrorResponse "No report matches the event's correlation id"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /api/stripe/webhook [post]
func (h *ReportHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read webhook body")
		SendJSONError(w, http.StatusBadRequest, err, "Failed to read request body")
		return
	}

	secret := h.config.Billing.WebhookSecret
	if secret == "" {
		// Degraded local mode: the payload is accepted verbatim. Must never
		// be enabled in production.
		log.Warn().Msg("Webhook secret not configured, skipping signature verification")
	} else {
		tolerance := time.Duration(h.config.Billing.SignatureTolerance) * time.Second
		sigHeader := r.Header.Get("Stripe-Signature")
		if err := billing.VerifySignature(payload, sigHeader, secret, tolerance); err != nil {
			log.Warn().Err(err).Msg("Webhook signature verification failed")
			SendJSONError(w, http.StatusBadRequest, err, "")
			return
		}
	}

	event, err := billing.ParseEvent(payload)
	if err != nil {
		log.Warn().Err(err).Msg("Malformed webhook payload")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid event payload")
		return
	}

	if event.Type != billing.EventCheckoutCompleted {
		log.Debug().Str("event_type", event.Type).Msg("Ignoring billing event")
		SendJSONSuccess(w, http.StatusOK, WebhookResponse{Received: true, Status: "ignored"})
		return
	}

	reportID := event.ReportID()
	if reportID == "" {
		log.Warn().Str("event_id", event.ID).Msg("Billing event carries no reportId metadata")
		SendJSONError(w, http.StatusBadRequest, utils.ErrMissingReportID, "")
		return
	}

	ctx, cancel := h.opTimeout(r.Context())
	defer cancel()

	report, err := h.store.FindByID(ctx, reportID)
	if errors.Is(err, utils.ErrReportNotFound) {
		log.Warn().Str("report_id", reportID).Msg("Billing event references unknown report")
		SendJSONError(w, http.StatusNotFound, err, "")
		return
	} else if err != nil {
		log.Error().Err(err).Str("report_id", reportID).Msg("Failed to fetch report for billing event")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to fetch report")
		return
	}

	if report.Status == model.StatusPaid {
		// Idempotency short-circuit: the event was delivered before. Nothing
		// is mutated and no new token is minted.
		log.Info().Str("report_id", reportID).Msg("Report already processed")
		SendJSONSuccess(w, http.StatusOK, WebhookResponse{Received: true, Status: "already processed"})
		return
	}

	accessToken, err := utils.NewAccessToken()
	if err != nil {
		log.Error().Err(err).Str("report_id", reportID).Msg("Failed to generate access token")
		SendJSONError(w, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	fullReport := buildFullReport(report.PreviewData)

	err = h.store.MarkPaid(ctx, reportID, accessToken, fullReport)
	if errors.Is(err, store.ErrAlreadyPaid) {
		// A concurrent duplicate delivery won the race; treat it the same as
		// the short-circuit above
		log.Info().Str("report_id", reportID).Msg("Report paid concurrently, acknowledging duplicate event")
		SendJSONSuccess(w, http.StatusOK, WebhookResponse{Received: true, Status: "already processed"})
		return
	} else if errors.Is(err, utils.ErrReportNotFound) {
		SendJSONError(w, http.StatusNotFound, err, "")
		return
	} else if err != nil {
		log.Error().Err(err).Str("report_id", reportID).Msg("Failed to mark report paid")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to update report")
		return
	}

	log.Info().
		Str("report_id", reportID).
		Str("event_id", event.ID).
		Msg("Report unlocked")

	SendJSONSuccess(w, http.StatusOK, WebhookResponse{Received: true, Status: "processed"})
}

// buildFullReport synthesizes the paid content from the preview. The score
// is derived from a digest of the preview data, so redelivered events always
// reproduce an identical report.
func buildFullReport(previewData model.PreviewData) *model.FullReport {
	data, _ := json.Marshal(previewData)
	sum := sha256.Sum256(data)
	score := int(binary.BigEndian.Uint32(sum[:4]) % 100)

	return &model.FullReport{
		DomainChecks:   previewData.DomainChecks,
		Website:        previewData.Website,
		Social:         previewData.Social,
		Score:          score,
		AdvancedChecks: advancedChecks,
	}
}
