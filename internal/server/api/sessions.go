package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/body"
	"github.com/ayusman/sareefit/internal/pose"
	"github.com/ayusman/sareefit/internal/store"
)

// SessionHandler handles HTTP requests for try-on session resources.
type SessionHandler struct {
	app   *app.App
	store *store.Store
	log   *logrus.Logger
}

// NewSessionHandler creates a new SessionHandler. The app must have been
// created with s as its store.
func NewSessionHandler(a *app.App, s *store.Store, log *logrus.Logger) *SessionHandler {
	return &SessionHandler{app: a, store: s, log: orDiscard(log)}
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and
// /api/sessions/{id}/landmarks.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "landmarks":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.landmarks(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type createSessionRequest struct {
	Landmarks    []pose.Landmark `json:"landmarks" validate:"required,len=33"`
	ImageWidth   int             `json:"image_width" validate:"required,gt=0"`
	ImageHeight  int             `json:"image_height" validate:"required,gt=0"`
	DrapingStyle string          `json:"draping_style" validate:"omitempty,oneof=nivi bengali gujarati tamil_nadu kerala maharashtrian modern_lehenga"`
}

type sessionResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	DrapingStyle string         `json:"draping_style"`
	ImageWidth   int            `json:"image_width"`
	ImageHeight  int            `json:"image_height"`
	Error        string         `json:"error,omitempty"`
	Analysis     *body.Analysis `json:"analysis,omitempty"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type landmarksResponse struct {
	SessionID string            `json:"session_id"`
	Landmarks *pose.LandmarkSet `json:"landmarks"`
}

func toSessionResponse(s *store.Session, analysis *body.Analysis) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		Status:       string(s.Status),
		DrapingStyle: string(s.DrapingStyle),
		ImageWidth:   s.ImageWidth,
		ImageHeight:  s.ImageHeight,
		Error:        s.Error,
		Analysis:     analysis,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/sessions?limit=N.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(r.Context(), limit)
	if err != nil {
		writeAppError(w, h.log, err, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s, nil))
	}

	writeJSON(w, h.log, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}, including the analysis once completed.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Sessions().GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeAppError(w, h.log, err, "Failed to get session")
		return
	}

	var analysis *body.Analysis
	stored, err := h.store.Analyses().GetBySessionID(r.Context(), id)
	switch {
	case err == nil:
		analysis = &stored.Analysis
	case !errors.Is(err, store.ErrNotFound):
		writeAppError(w, h.log, err, "Failed to get session analysis")
		return
	}

	writeJSON(w, h.log, http.StatusOK, toSessionResponse(sess, analysis))
}

// create handles POST /api/sessions with client-detected landmarks.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	style, err := store.ParseDrapingStyle(req.DrapingStyle)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, err := pose.NewLandmarkSet(req.Landmarks)
	if err != nil {
		writeAppError(w, h.log, err, "Failed to read landmarks")
		return
	}

	result, err := h.app.AnalyzeLandmarks(r.Context(), set, req.ImageWidth, req.ImageHeight, style)
	if err != nil {
		writeAppError(w, h.log, err, "Failed to analyze landmarks")
		return
	}

	writeJSON(w, h.log, http.StatusCreated, result)
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeAppError(w, h.log, err, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// landmarks handles GET /api/sessions/{id}/landmarks.
func (h *SessionHandler) landmarks(w http.ResponseWriter, r *http.Request, id string) {
	set, err := h.store.Landmarks().GetBySessionID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Landmarks not found")
			return
		}
		writeAppError(w, h.log, err, "Failed to get landmarks")
		return
	}

	writeJSON(w, h.log, http.StatusOK, landmarksResponse{SessionID: id, Landmarks: set})
}
