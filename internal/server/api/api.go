// Package api provides HTTP API handlers for sareefit try-on sessions and measurements.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/body"
	"github.com/ayusman/sareefit/internal/logging"
	"github.com/ayusman/sareefit/internal/overlay"
	"github.com/ayusman/sareefit/internal/pose"
	"github.com/ayusman/sareefit/internal/store"
)

// MaxUploadBytes caps multipart photo uploads.
const MaxUploadBytes = 10 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

// landmarkRequest is the JSON body shared by every endpoint that accepts a
// client-detected pose.
type landmarkRequest struct {
	Landmarks   []pose.Landmark `json:"landmarks" validate:"required,len=33"`
	ImageWidth  int             `json:"image_width" validate:"required,gt=0"`
	ImageHeight int             `json:"image_height" validate:"required,gt=0"`
}

// writeJSON writes a JSON response with the given status code. The body is
// encoded before the status is sent, so a value that cannot be encoded
// becomes a logged 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, log *logrus.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		w.WriteHeader(status)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		orDiscard(log).WithFields(logging.Fields{
			"error":  err.Error(),
			"status": status,
		}).Error("Failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to encode response"}` + "\n"))
		return
	}

	w.WriteHeader(status)
	w.Write(append(payload, '\n'))
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, nil, status, errorResponse{Error: message})
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pose.ErrInvalidLandmarkSet),
		errors.Is(err, body.ErrInvalidDimensions),
		errors.Is(err, body.ErrDegenerateCalibration),
		errors.Is(err, body.ErrLowVisibility),
		errors.Is(err, overlay.ErrInvalidImage),
		errors.Is(err, app.ErrNoPoseDetected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrDetectorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err with its mapped status. Server errors are logged
// and replaced by fallback so internals do not leak.
func writeAppError(w http.ResponseWriter, log *logrus.Logger, err error, fallback string) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.WithFields(logging.Fields{"error": err.Error()}).Error(fallback)
		writeError(w, status, fallback)
		return
	}
	writeError(w, status, err.Error())
}

// decodeBody decodes and validates a JSON request body into dst, writing a
// 400 response and returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "Invalid field " + fe.Field() + ": failed " + fe.Tag()
	}
	return "Invalid request"
}

func orDiscard(log *logrus.Logger) *logrus.Logger {
	if log == nil {
		return logging.Discard()
	}
	return log
}
