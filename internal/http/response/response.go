// Package response writes JSON bodies and maps application errors to HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"feedbackboard/internal/apperr"
	"feedbackboard/internal/logger"
)

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && log != nil {
		log.Error("encode response failed", "error", err)
	}
}

func OK(w http.ResponseWriter, data any, log *logger.Logger) {
	JSON(w, http.StatusOK, data, log)
}

func Created(w http.ResponseWriter, data any, log *logger.Logger) {
	JSON(w, http.StatusCreated, data, log)
}

func Error(w http.ResponseWriter, status int, message string, log *logger.Logger) {
	JSON(w, status, ErrorBody{Error: message}, log)
}

// HandleError writes the status and message carried by an *apperr.Error.
// Anything else is logged and reported as a generic 500.
func HandleError(w http.ResponseWriter, err error, log *logger.Logger) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError && log != nil {
			log.Error("request failed", "code", appErr.Code, "error", err)
		}
		msg := appErr.Error()
		if appErr.Code == apperr.CodeInternal {
			// the cause stays in the log
			msg = appErr.Message
		}
		JSON(w, status, ErrorBody{
			Error:   msg,
			Code:    string(appErr.Code),
			Details: appErr.Details,
		}, log)
		return
	}

	if log != nil {
		log.Error("unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, "internal server error", log)
}
