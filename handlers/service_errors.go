package handlers

import (
	"net/http"

	"github.com/upb/psp-router/services"
	"github.com/upb/psp-router/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	if services.IsValidationError(err) {
		if err := utils.WriteBadRequest(w, err.Error(), services.GetErrorDetails(err)); err != nil {
			logger.Error("failed to write bad request response", zap.Error(err))
		}
		return
	}

	// Scorer and PSP failures are folded into the routing result, so anything
	// else reaching here is unexpected
	logger.Error("unhandled service error",
		zap.Error(err),
		zap.String("error_type", string(services.GetErrorType(err))))
	if err := utils.WriteInternalServerError(w, "An unexpected error occurred"); err != nil {
		logger.Error("failed to write internal error response", zap.Error(err))
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{})
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	// Generic validation error
	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
