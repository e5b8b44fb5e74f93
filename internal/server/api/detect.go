package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/store"
)

// DetectHandler runs server-side pose detection on an uploaded photo and
// records the resulting session.
type DetectHandler struct {
	app *app.App
	log *logrus.Logger
}

// NewDetectHandler creates a new DetectHandler.
func NewDetectHandler(a *app.App, log *logrus.Logger) *DetectHandler {
	return &DetectHandler{app: a, log: orDiscard(log)}
}

// ServeHTTP handles POST /api/detect with a multipart "image" field and an
// optional "draping_style" field.
func (h *DetectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	style, err := store.ParseDrapingStyle(r.FormValue("draping_style"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.app.AnalyzeImage(r.Context(), data, style)
	if err != nil {
		writeAppError(w, h.log, err, "Failed to analyze image")
		return
	}

	writeJSON(w, h.log, http.StatusCreated, result)
}

// OverlayHandler returns an uploaded photo with the detected skeleton drawn on it.
type OverlayHandler struct {
	app *app.App
	log *logrus.Logger
}

// NewOverlayHandler creates a new OverlayHandler.
func NewOverlayHandler(a *app.App, log *logrus.Logger) *OverlayHandler {
	return &OverlayHandler{app: a, log: orDiscard(log)}
}

// ServeHTTP handles POST /api/overlay with a multipart "image" field.
func (h *OverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	out, result, err := h.app.RenderOverlay(r.Context(), data)
	if err != nil {
		writeAppError(w, h.log, err, "Failed to render overlay")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Header().Set("X-Drape-Scale", strconv.FormatFloat(result.Placement.Scale, 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// readUpload reads the "image" multipart field, writing a 400 or 413
// response and returning false on failure.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Image too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image is required")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return nil, false
	}
	return data, true
}
