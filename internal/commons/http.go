package commons

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "backoffice/internal/errors"
)

type ErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	TraceID string                       `json:"traceId,omitempty"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, traceID, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		TraceID: traceID,
		Details: details,
	}, logger)
}

// WriteError maps a typed error to its status and code. Anything untyped is
// logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		writeErrorResponse(w, traceID, http.StatusUnauthorized, unauthorizedCode(ue.Reason), ue.Message, logger)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		writeErrorResponse(w, traceID, http.StatusBadRequest, "INSUFFICIENT_STOCK", "insufficient stock", logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), logger)
		return
	}

	logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
}

func writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string, logger *zap.Logger) {
	WriteJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
		TraceID: traceID,
	}, logger)
}

func unauthorizedCode(reason apperrors.UnauthorizedReason) string {
	switch reason {
	case apperrors.ReasonTokenMissing:
		return "TOKEN_MISSING"
	case apperrors.ReasonTokenExpired:
		return "TOKEN_EXPIRED"
	case apperrors.ReasonInvalidCredentials:
		return "INVALID_CREDENTIALS"
	default:
		return "TOKEN_INVALID"
	}
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

// PathID reads a positive integer chi URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be a positive integer",
		})
	}
	return id, nil
}
