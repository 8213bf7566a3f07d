package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"autorevise/internal/api"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.WithError(err).Error(logMsg)
	}

	http.Error(w, userMsg, status)
}

// backendErrorMessage turns an API error into something safe to show
// the user. Backend validation messages pass through; transport and
// decode failures collapse to a generic message.
func backendErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ErrBackendUnavailable
}
