package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/examroom/examroom-backend/internal/middleware"
	"github.com/examroom/examroom-backend/internal/model"
	"github.com/examroom/examroom-backend/internal/session"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// stateFrame is one push of the live attempt state sent each second while
// the stream is open.
type stateFrame struct {
	Status  model.AttemptStatus `json:"exam_status"`
	Timer   int                 `json:"timer"`
	Score   int                 `json:"score"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
}

// WSHandler streams live session state (countdown, status) to the quiz
// presentation over WebSocket.
type WSHandler struct {
	manager  *session.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(manager *session.Manager, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		manager:  manager,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/session/stream
//
// Pushes one state frame per second. The clock itself lives in the timer
// worker; this stream only mirrors the store, so a dropped connection
// never stalls or doubles the countdown.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	store := h.manager.StoreFor(c.Request.Context(), middleware.SessionFromClaims(claims))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("subject", claims.Subject).Logger()
	wsLog.Info().Msg("Session stream connected")

	// Reader goroutine: we never expect client frames, but reading is what
	// detects a closed connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Session stream closed")
			return
		case <-ticker.C:
			state := store.State()
			frame := stateFrame{
				Status:  state.Status,
				Timer:   state.Timer,
				Score:   store.Score(),
				Loading: state.Loading,
				Error:   state.Error,
			}
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(frame); err != nil {
				wsLog.Debug().Err(err).Msg("Session stream write failed")
				return
			}
		}
	}
}
