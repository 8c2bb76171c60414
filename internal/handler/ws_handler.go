package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/metrics"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
	ws "github.com/tcu-dcda/dcda-advisor/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
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

// WSHandler pushes catalog change events to open wizards.
type WSHandler struct {
	rdb      *redis.Client
	catalog  *service.CatalogService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, catalog *service.CatalogService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		catalog:  catalog,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// OfferingsStream godoc
// WS /ws/v1/offerings/stream
// Greets the client with the live term, then forwards every change event
// published on the offerings channel.
func (h *WSHandler) OfferingsStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.WebsocketClients.Inc()
	defer metrics.WebsocketClients.Dec()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.OfferingsUpdatedChannel())
	defer pubsub.Close()

	hello := ws.HelloResponse{Event: ws.EventHello}
	if snap, err := h.catalog.Snapshot(); err == nil {
		hello.CurrentTerm = snap.CurrentTerm().Label()
		hello.OfferedCount = len(snap.Offerings().OfferedCodes)
	}
	if err := ws.WriteTyped(conn, hello); err != nil {
		return
	}

	ws.Configure(conn)
	// Only this goroutine writes; the reader hands replies over.
	replies := make(chan any, 4)
	go h.readLoop(conn, replies, cancel)

	pingTicker := time.NewTicker(ws.PingPeriod)
	defer pingTicker.Stop()

	h.log.Debug().Str("remote", c.ClientIP()).Msg("Offerings stream client connected")
	ch := pubsub.Channel()
	for {
		var err error
		select {
		case <-ctx.Done():
			h.log.Debug().Msg("Offerings stream client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			err = ws.WriteRaw(conn, []byte(msg.Payload))
		case reply := <-replies:
			err = ws.WriteTyped(conn, reply)
		case <-pingTicker.C:
			err = ws.WritePing(conn)
		}
		if err != nil {
			h.log.Debug().Err(err).Msg("Offerings stream write failed")
			return
		}
	}
}

// readLoop answers client pings until the connection drops.
func (h *WSHandler) readLoop(conn *websocket.Conn, replies chan<- any, cancel context.CancelFunc) {
	defer cancel()
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply any
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}
		select {
		case replies <- reply:
		default:
		}
	}
}
