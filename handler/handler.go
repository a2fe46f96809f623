package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dopeeycode/brandfuse-api/billing"
	"github.com/dopeeycode/brandfuse-api/config"
	"github.com/dopeeycode/brandfuse-api/model"
	"github.com/dopeeycode/brandfuse-api/preview"
	"github.com/dopeeycode/brandfuse-api/store"
	"github.com/dopeeycode/brandfuse-api/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles brand report operations
type ReportHandler struct {
	store      *store.ReportStore
	aggregator *preview.Aggregator
	checkout   billing.CheckoutCreator
	config     config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportStore *store.ReportStore, aggregator *preview.Aggregator, checkout billing.CheckoutCreator, cfg config.Config) *ReportHandler {
	return &ReportHandler{
		store:      reportStore,
		aggregator: aggregator,
		checkout:   checkout,
		config:     cfg,
	}
}

func (h *ReportHandler) opTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
}

// CreateReport handles POST /api/reports/start
// @Summary Start a brand availability report
// @Description Probes domain registries, social platforms, and website reachability for the brand name, persists a pending report, and returns the preview together with a checkout URL for unlocking the full report.
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body model.CreateRequest true "Report request"
// @Success 201 {object} handler.CreateReportResponse "Report created"
// @Failure 400 {object} handler.ErrorResponse "Missing or invalid brand name"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /api/reports/start [post]
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var input struct {
		BrandName string `json:"brandName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	brandName, err := utils.ValidateBrandName(input.BrandName)
	if err != nil {
		log.Warn().Err(err).Str("brand_name", input.BrandName).Msg("Invalid brand name")
		SendJSONError(w, http.StatusBadRequest, err, "")
		return
	}

	// The probes carry their own timeouts, so the fan-out is bounded even
	// though it runs on the request context
	previewData := h.aggregator.BuildPreview(r.Context(), brandName)

	report := &model.Report{
		ID:          uuid.New().String(),
		BrandName:   brandName,
		Status:      model.StatusPending,
		PreviewData: previewData,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := h.opTimeout(r.Context())
	defer cancel()

	if err := h.store.Create(ctx, report); err != nil {
		log.Error().Err(err).Str("brand_name", brandName).Msg("Failed to persist report")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to create report")
		return
	}

	session, err := h.checkout.CreateSession(r.Context(), brandName, report.ID)
	if err != nil {
		log.Error().Err(err).Str("report_id", report.ID).Msg("Failed to create checkout session")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to create checkout session")
		return
	}

	log.Info().
		Str("report_id", report.ID).
		Str("brand_name", brandName).
		Str("session_id", session.ID).
		Msg("Report started")

	SendJSONSuccess(w, http.StatusCreated, CreateReportResponse{
		ReportID:    report.ID,
		CheckoutURL: session.URL,
		PreviewData: previewData,
	})
}

// GetReport handles GET /api/reports/{accessToken}
// @Summary Fetch a paid full report
// @Description Returns the full report for the given access token. The token is the sole credential; report ids never unlock content.
// @Tags Reports
// @Produce json
// @Param accessToken path string true "Access token issued on payment"
// @Success 200 {object} model.FullReport "Full report"
// @Failure 400 {object} handler.ErrorResponse "Missing access token"
// @Failure 403 {object} handler.ErrorResponse "Report not paid yet"
// @Failure 404 {object} handler.ErrorResponse "No report for this token"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /api/reports/{accessToken} [get]
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accessToken := vars["accessToken"]

	if accessToken == "" {
		SendJSONError(w, http.StatusBadRequest, utils.ErrMissingToken, "Access token is required")
		return
	}

	ctx, cancel := h.opTimeout(r.Context())
	defer cancel()

	report, err := h.store.FindByToken(ctx, accessToken)
	if errors.Is(err, utils.ErrReportNotFound) {
		log.Warn().Msg("Access token does not match any report")
		SendJSONError(w, http.StatusNotFound, err, "")
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Failed to fetch report by token")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to fetch report")
		return
	}

	// Defensive: a token should only exist for paid reports
	if report.Status != model.StatusPaid || report.FullReport == nil {
		log.Warn().Str("report_id", report.ID).Msg("Token presented for unpaid report")
		SendJSONError(w, http.StatusForbidden, utils.ErrReportNotPaid, "")
		return
	}

	SendJSONSuccess(w, http.StatusOK, report.FullReport)
}

// HealthCheck handles GET /health
// @Summary Health check
// @Description Returns service health status and Redis connectivity
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Service is healthy"
// @Failure 503 {object} map[string]string "Service is unhealthy"
// @Router /health [get]
func (h *ReportHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Redis health check failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "unhealthy",
			"redis":  "unavailable",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"redis":  "connected",
	})
}
