package server

import (
	"encoding/json"
	"errors"
	"net/http"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
	"github.com/matzehuels/msaflow/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error to its HTTP status and response code.
func statusFor(err error) (int, apperr.Code) {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, apperr.ErrCodeNotFound
	}
	code := apperr.GetCode(err)
	switch code {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidFormat:
		return http.StatusBadRequest, code
	case apperr.ErrCodeNotFound, apperr.ErrCodeFileNotFound:
		return http.StatusNotFound, apperr.ErrCodeNotFound
	case apperr.ErrCodeInvalidDefinition,
		apperr.ErrCodeUnknownFunction,
		apperr.ErrCodeInvalidNetwork,
		apperr.ErrCodeUnreachable,
		apperr.ErrCodeNoDemand:
		return http.StatusUnprocessableEntity, code
	}
	return http.StatusInternalServerError, apperr.ErrCodeInternal
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := apperr.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	} else if status == http.StatusNotFound {
		msg = "run not found"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
