package api

import (
	"errors"
	"log/slog"
	"net/http"

	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/pkg/httputil"
)

// errorStatus maps service sentinels to a status code and a client message.
// Anything unknown is a store failure.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errorvalues.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, errorvalues.ErrInvalidDate):
		return http.StatusBadRequest, "invalid date"
	case errors.Is(err, errorvalues.ErrInvalidImport):
		return http.StatusBadRequest, "invalid import document"
	case errors.Is(err, errorvalues.ErrUnauthenticated), errors.Is(err, errorvalues.ErrInvalidToken):
		return http.StatusUnauthorized, "no authorization"
	case errors.Is(err, errorvalues.ErrWrongCredentials):
		return http.StatusForbidden, "invalid username or password"
	case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
		return http.StatusNotFound, "habit doesn't exist"
	case errors.Is(err, errorvalues.ErrUserNotFound):
		return http.StatusNotFound, "user doesn't exist"
	case errors.Is(err, errorvalues.ErrEntryNotFound):
		return http.StatusNotFound, "entry doesn't exist"
	case errors.Is(err, errorvalues.ErrUserExists):
		return http.StatusConflict, "user with such name already exists"
	case errors.Is(err, errorvalues.ErrHabitExists):
		return http.StatusConflict, "habit already exists"
	case errors.Is(err, errorvalues.ErrEntryExists):
		return http.StatusConflict, "entry changed concurrently, retry"
	case errors.Is(err, errorvalues.ErrFutureDate):
		return http.StatusUnprocessableEntity, "future dates can't be tracked"
	case errors.Is(err, errorvalues.ErrBackupDisabled):
		return http.StatusServiceUnavailable, "backups are not configured"
	}
	return http.StatusInternalServerError, "internal error"
}

// writeServiceError logs err under op and answers with its status. Details are
// only shown for bad requests.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	code, msg := errorStatus(err)
	var details error
	switch {
	case code == http.StatusInternalServerError:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
	case code == http.StatusBadRequest:
		details = err
		logger.Error(op+" error: "+msg, slog.String("error", err.Error()))
	default:
		logger.Error(op + " error: " + msg)
	}
	httputil.WriteErrorResponse(w, code, msg, details)
}
