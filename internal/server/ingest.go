package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/detector"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Ingestion rate limits. The coordinator's queue is unbounded, so the rate
// cap on each producer connection is what keeps a runaway or hostile
// producer from growing it without bound.
const (
	// MaxFramesPerSecond caps each producer's sustained frame rate.
	MaxFramesPerSecond = 60
	// FrameBurst is the short-term burst allowance per producer.
	FrameBurst = 120
)

// frameMessage is one landmark frame pushed by a remote producer.
type frameMessage struct {
	Landmarks   []detector.Landmark `json:"landmarks"`
	ImageWidth  int                 `json:"image_width"`
	ImageHeight int                 `json:"image_height"`
}

// IngestHandler accepts landmark frames from remote producers over a
// WebSocket and submits them to the coordinator's ingestion queue.
type IngestHandler struct {
	app *app.App
}

// NewIngestHandler creates an IngestHandler feeding the given coordinator.
func NewIngestHandler(a *app.App) *IngestHandler {
	return &IngestHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests and then reads frame
// messages until the producer disconnects.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	limiter := rate.NewLimiter(rate.Limit(MaxFramesPerSecond), FrameBurst)
	dropped := 0

	for {
		var msg frameMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if dropped > 0 {
				log.Printf("frame producer %s disconnected (%d frames rate-dropped)", r.RemoteAddr, dropped)
			}
			return
		}

		if len(msg.Landmarks) == 0 {
			continue
		}

		// Frames are sampled state, not events: over the cap, dropping the
		// newest is acceptable and keeps the queue bounded in practice.
		if !limiter.Allow() {
			dropped++
			continue
		}

		h.app.SubmitFrame(msg.Landmarks, msg.ImageWidth, msg.ImageHeight)
	}
}
