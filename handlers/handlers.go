package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/upb/psp-router/models"
	"github.com/upb/psp-router/services"
	"github.com/upb/psp-router/utils"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// decodeTransaction reads and validates a transaction body. On failure the
// error response has already been written and ok is false.
func decodeTransaction(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (txn models.Transaction, ok bool) {
	requestID := getRequestID(r)

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&txn); err != nil {
		logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		derr := services.Wrap(services.ErrInvalidTransaction, err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			derr = derr.WithDetail("limit_bytes", tooLarge.Limit)
		}
		HandleServiceError(w, derr, logger)
		return txn, false
	}

	if err := utils.ValidateStruct(&txn); err != nil {
		logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, logger)
		return txn, false
	}

	return txn, true
}

// NotFound answers unknown paths with a JSON 404
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w, "endpoint not found")
}
