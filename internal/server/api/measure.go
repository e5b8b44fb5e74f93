package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/pose"
)

// MeasureHandler computes anchors, measurements and drape placement for a
// client-detected pose without recording a session.
type MeasureHandler struct {
	app *app.App
	log *logrus.Logger
}

// NewMeasureHandler creates a new MeasureHandler.
func NewMeasureHandler(a *app.App, log *logrus.Logger) *MeasureHandler {
	return &MeasureHandler{app: a, log: orDiscard(log)}
}

// ServeHTTP handles POST /api/measure.
func (h *MeasureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req landmarkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	set, err := pose.NewLandmarkSet(req.Landmarks)
	if err != nil {
		writeAppError(w, h.log, err, "Failed to read landmarks")
		return
	}

	analysis, err := h.app.Measure(r.Context(), set, req.ImageWidth, req.ImageHeight)
	if err != nil {
		writeAppError(w, h.log, err, "Failed to compute measurements")
		return
	}

	writeJSON(w, h.log, http.StatusOK, analysis)
}
