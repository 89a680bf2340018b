package handlers

import (
	"context"
	"net/http"

	"github.com/upb/psp-router/middleware"
	"github.com/upb/psp-router/models"
	"github.com/upb/psp-router/utils"
	"go.uber.org/zap"
)

// Router routes a transaction to a PSP and reports the outcome
type Router interface {
	Route(ctx context.Context, txn models.Transaction) models.RoutingResult
}

// RouteHandler handles routing requests
type RouteHandler struct {
	router Router
	logger *zap.Logger
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(router Router, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		router: router,
		logger: logger,
	}
}

// HandleRoute handles POST /route
func (h *RouteHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	txn, ok := decodeTransaction(w, r, h.logger)
	if !ok {
		return
	}

	result := h.router.Route(r.Context(), txn)

	if err := utils.WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("failed to write routing result",
			zap.String("request_id", getRequestID(r)),
			zap.String("txn_id", result.TxnID),
			zap.Error(err))
	}
}

func getRequestID(r *http.Request) string {
	return middleware.GetRequestIDFromContext(r.Context())
}
