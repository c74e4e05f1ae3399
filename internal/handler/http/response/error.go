package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their kind
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		slog.ErrorContext(r.Context(), "unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		writeError(w, http.StatusUnprocessableEntity, appErr.Code, err.Error(), nil)
	case apperror.KindNotFound:
		writeError(w, http.StatusNotFound, appErr.Code, err.Error(), nil)
	case apperror.KindConflict, apperror.KindState:
		writeError(w, http.StatusConflict, appErr.Code, err.Error(), nil)
	case apperror.KindForbidden:
		writeError(w, http.StatusForbidden, appErr.Code, err.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "unclassified domain error", "code", appErr.Code, "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
