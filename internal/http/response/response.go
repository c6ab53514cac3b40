package response

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/shamimfewd/job-provider-server/internal/common"
)

type errorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func Text(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// Error maps coded application errors onto HTTP statuses. Internal errors
// are logged but never echoed to the client.
func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = common.NewError(common.CodeInternal, "internal server error", err)
	}

	status := http.StatusInternalServerError
	body := errorBody{Message: appErr.Message, Fields: appErr.Fields}
	switch appErr.Code {
	case common.CodeValidation, common.CodeConflict:
		status = http.StatusBadRequest
	case common.CodeUnauthorized:
		status = http.StatusUnauthorized
	case common.CodeForbidden:
		status = http.StatusForbidden
	case common.CodeNotFound:
		status = http.StatusNotFound
	case common.CodeInternal:
		log.WithError(appErr.Err).Error(appErr.Message)
		body.Message = "internal server error"
		body.Fields = nil
	}

	JSON(w, status, body)
}
