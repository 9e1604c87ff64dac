package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hrleave/internal/domain/leave"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write json failed", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FailError writes a use-case error. Business errors keep their code and
// message; internal failures are logged and answered with a generic message.
func FailError(w http.ResponseWriter, logger *zap.Logger, err error, requestID string) {
	var le *leave.Error
	if !errors.As(err, &le) {
		le = &leave.Error{Kind: leave.KindInternal, Code: leave.ErrInternal.Code, Err: err}
	}
	status := le.HTTPStatus()
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", zap.String("code", le.Code), zap.Error(err))
		}
		Fail(w, status, le.Code, "internal server error", requestID)
		return
	}
	Fail(w, status, le.Code, le.Message, requestID)
}
