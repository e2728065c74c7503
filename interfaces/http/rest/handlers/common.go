// Package handlers implements the REST endpoints of the writing pipeline.
package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/pkg/api"
	"github.com/komi0929/pen-sub000/pkg/auth"
	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(t appErrors.ErrorType) int {
	switch t {
	case appErrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case appErrors.ErrorTypeAuthRequired:
		return http.StatusUnauthorized
	case appErrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case appErrors.ErrorTypeConflict:
		return http.StatusConflict
	case appErrors.ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case appErrors.ErrorTypeStoreUnavailable:
		return http.StatusServiceUnavailable
	case appErrors.ErrorTypeGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates any error into the JSON error envelope. Unknown
// errors are logged and masked as internal.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		status := statusFor(appErr.Type)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err))
		}
		api.Error(w, status, string(appErr.Type), appErr.Message)
		return
	}
	logger.Error("request failed", zap.Error(err))
	api.Error(w, http.StatusInternalServerError, string(appErrors.ErrorTypeInternal), "internal error")
}

// userID pulls the authenticated user from the request context. The auth
// middleware guarantees it is set on every /api route.
func userID(r *http.Request) string {
	return auth.UserIDFromContext(r.Context())
}
