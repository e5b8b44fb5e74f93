package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/logging"
	"github.com/ayusman/sareefit/internal/pose"
	"github.com/ayusman/sareefit/internal/server/api"
)

const (
	// maxFrameBytes bounds a single inbound landmark frame.
	maxFrameBytes = 64 << 10
	writeTimeout  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// liveFrame is one client-detected pose sent over the live socket.
type liveFrame struct {
	Landmarks   []pose.Landmark `json:"landmarks"`
	ImageWidth  int             `json:"image_width"`
	ImageHeight int             `json:"image_height"`
}

type liveError struct {
	Error string `json:"error"`
}

// LiveHandler answers each landmark frame on a WebSocket with its analysis.
// Frames are processed in order, one at a time per connection.
type LiveHandler struct {
	app *app.App
	log *logrus.Logger
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(a *app.App, log *logrus.Logger) *LiveHandler {
	if log == nil {
		log = logging.Discard()
	}
	return &LiveHandler{app: a, log: log}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithField("error", err.Error()).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameBytes)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithField("error", err.Error()).Warn("Live connection closed")
			}
			return
		}

		reply := h.analyze(r, data)

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			h.log.WithField("error", err.Error()).Warn("Failed to write live frame")
			return
		}
	}
}

// analyze turns one inbound frame into either a body.Analysis or a liveError.
func (h *LiveHandler) analyze(r *http.Request, data []byte) interface{} {
	var frame liveFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return liveError{Error: "Invalid JSON"}
	}

	set, err := pose.NewLandmarkSet(frame.Landmarks)
	if err != nil {
		return liveError{Error: err.Error()}
	}

	analysis, err := h.app.Measure(r.Context(), set, frame.ImageWidth, frame.ImageHeight)
	if err != nil {
		if api.StatusFor(err) >= http.StatusInternalServerError {
			h.log.WithField("error", err.Error()).Error("Failed to analyze live frame")
			return liveError{Error: "Failed to analyze frame"}
		}
		return liveError{Error: err.Error()}
	}
	return analysis
}
