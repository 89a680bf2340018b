package handlers

import (
	"net/http"

	"github.com/upb/psp-router/utils"
	"go.uber.org/zap"
)

// RouterHealthResponse is the router's health report
type RouterHealthResponse struct {
	Status          string   `json:"status"`
	RiskThreshold   float64  `json:"risk_threshold"`
	DefaultProvider string   `json:"default_provider"`
	Providers       []string `json:"providers"`
	PreferenceOrder []string `json:"preference_order"`
}

// SimulatorHealthResponse is the PSP simulator's health report
type SimulatorHealthResponse struct {
	Status   string  `json:"status"`
	BaseFail float64 `json:"base_fail"`
}

// RouterStatus reports the routing setup shown on the health endpoint
type RouterStatus interface {
	Threshold() float64
	PreferenceOrder() []string
}

// ProviderLister lists the configured PSPs
type ProviderLister interface {
	List() []string
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	status          RouterStatus
	providers       ProviderLister
	defaultProvider string
	logger          *zap.Logger
}

// NewHealthHandler creates a new HealthHandler for the router
func NewHealthHandler(status RouterStatus, providers ProviderLister, defaultProvider string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		status:          status,
		providers:       providers,
		defaultProvider: defaultProvider,
		logger:          logger,
	}
}

// HandleHealth handles GET /health
// Always returns 200 if the service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := RouterHealthResponse{
		Status:          "ok",
		RiskThreshold:   h.status.Threshold(),
		DefaultProvider: h.defaultProvider,
		Providers:       h.providers.List(),
		PreferenceOrder: h.status.PreferenceOrder(),
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}

// SimulatorHealth returns the PSP simulator's health handler
func SimulatorHealth(baseFail float64, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := SimulatorHealthResponse{Status: "ok", BaseFail: baseFail}
		if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
			logger.Error("failed to write health response", zap.Error(err))
		}
	}
}
