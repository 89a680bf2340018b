package handlers

import (
	"net/http"

	"github.com/upb/psp-router/models"
	"github.com/upb/psp-router/utils"
	"go.uber.org/zap"
)

// Simulator settles a transaction with a simulated PSP verdict
type Simulator interface {
	Simulate(txn models.Transaction) models.ProviderResponse
}

// PSPHandler serves the PSP process protocol
type PSPHandler struct {
	simulator Simulator
	logger    *zap.Logger
}

// NewPSPHandler creates a new PSPHandler
func NewPSPHandler(simulator Simulator, logger *zap.Logger) *PSPHandler {
	return &PSPHandler{
		simulator: simulator,
		logger:    logger,
	}
}

// HandleProcess handles POST /process
func (h *PSPHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	txn, ok := decodeTransaction(w, r, h.logger)
	if !ok {
		return
	}

	resp := h.simulator.Simulate(txn)

	h.logger.Debug("transaction processed",
		zap.String("txn_id", txn.ID),
		zap.String("status", string(resp.Status)))

	if err := utils.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("failed to write psp response", zap.Error(err))
	}
}
