package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	fid "github.com/amterp/flexid"
	"github.com/gorilla/websocket"

	"promptlab/internal/infra"
)

const liveWriteWait = 10 * time.Second

var liveIDs = fid.MustNewGenerator(fid.NewConfig().
	WithEpoch(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).
	WithTickSize(10 * time.Millisecond).
	WithNumRandomChars(3))

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveMessage is the JSON envelope sent to live clients.
type LiveMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type liveConn struct {
	id   string
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *liveConn) send(msg LiveMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return c.conn.WriteJSON(msg)
}

// LiveHub tracks open live connections so catalog reloads reach every form.
type LiveHub struct {
	mu     sync.RWMutex
	conns  map[*liveConn]struct{}
	logger infra.Logger
}

func NewLiveHub(logger infra.Logger) *LiveHub {
	return &LiveHub{conns: make(map[*liveConn]struct{}), logger: logger}
}

// Broadcast sends msg to every connection. Failed connections are closed.
func (h *LiveHub) Broadcast(msg LiveMessage) {
	h.mu.RLock()
	conns := make([]*liveConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.send(msg); err != nil {
			h.logger.Debug().Err(err).Str("conn", c.id).Msg("live: broadcast failed")
			h.remove(c)
		}
	}
}

// Len reports the number of open connections.
func (h *LiveHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *LiveHub) add(c *liveConn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *LiveHub) remove(c *liveConn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		_ = c.conn.Close()
	}
	h.mu.Unlock()
}

// Live upgrades to a websocket and answers every composition frame with the
// recomputed palette and prompt. Frames are handled in order.
func (a *App) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("live: upgrade failed")
		return
	}
	c := &liveConn{id: liveIDs.MustGenerate(), conn: conn}
	log := a.Logger.With().Str("conn", c.id).Logger()
	log.Debug().Msg("live: connected")
	if a.Hub != nil {
		a.Hub.add(c)
		defer a.Hub.remove(c)
	} else {
		defer conn.Close()
	}

	hello := map[string]any{"id": c.id, "defaults": a.catalog().Defaults}
	if err := c.send(LiveMessage{Type: "connected", Data: hello}); err != nil {
		return
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("live: connection closed")
			}
			return
		}
		if err := c.send(a.liveReply(data)); err != nil {
			return
		}
	}
}

func (a *App) liveReply(data []byte) LiveMessage {
	var req compositionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return LiveMessage{Type: "error", Data: map[string]string{"error": "invalid payload"}}
	}
	resp, err := a.compose(req)
	if err != nil {
		return LiveMessage{Type: "error", Data: map[string]string{"error": compositionErrorMessage(err)}}
	}
	return LiveMessage{Type: "composition", Data: resp}
}
