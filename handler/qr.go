package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dopeeycode/brandfuse-api/model"
	"github.com/dopeeycode/brandfuse-api/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// CheckoutQR handles GET /api/reports/{reportID}/qr - renders a payment link
// for a pending report as a QR code. A fresh checkout session is created per
// request; multiple sessions for the same report are harmless since the
// transition is idempotent.
// @Summary Checkout link QR code
// @Description Generates a PNG QR code encoding a checkout URL for the report
// @Tags Reports
// @Produce png
// @Param reportID path string true "Report id"
// @Param size query int false "Image size in pixels (128-1024)" default(256)
// @Success 200 {file} binary "PNG image"
// @Failure 400 {object} handler.ErrorResponse "Invalid size parameter"
// @Failure 404 {object} handler.ErrorResponse "Report not found"
// @Failure 409 {object} handler.ErrorResponse "Report already paid"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /api/reports/{reportID}/qr [get]
func (h *ReportHandler) CheckoutQR(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reportID := vars["reportID"]

	size := 256
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		parsedSize, err := strconv.Atoi(sizeStr)
		if err != nil {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number")
			return
		}
		if parsedSize < 128 || parsedSize > 1024 {
			SendJSONError(w, http.StatusBadRequest, errors.New("size out of range"), "Size must be between 128 and 1024")
			return
		}
		size = parsedSize
	}

	ctx, cancel := h.opTimeout(r.Context())
	defer cancel()

	report, err := h.store.FindByID(ctx, reportID)
	if errors.Is(err, utils.ErrReportNotFound) {
		log.Warn().Str("report_id", reportID).Msg("Report not found for QR generation")
		SendJSONError(w, http.StatusNotFound, err, "")
		return
	} else if err != nil {
		log.Error().Err(err).Str("report_id", reportID).Msg("Failed to fetch report for QR")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to fetch report")
		return
	}

	if report.Status == model.StatusPaid {
		SendJSONError(w, http.StatusConflict, errors.New("report already paid"), "This report is already unlocked")
		return
	}

	session, err := h.checkout.CreateSession(r.Context(), report.BrandName, report.ID)
	if err != nil {
		log.Error().Err(err).Str("report_id", reportID).Msg("Failed to create checkout session for QR")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to create checkout session")
		return
	}

	qrCode, err := qrcode.Encode(session.URL, qrcode.Medium, size)
	if err != nil {
		log.Error().Err(err).Str("report_id", reportID).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(qrCode)))

	if _, err := w.Write(qrCode); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
		return
	}

	log.Info().
		Str("report_id", reportID).
		Int("size", size).
		Msg("Checkout QR code generated")
}
