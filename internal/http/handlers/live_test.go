package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func dialLive(t *testing.T, app *App) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(app.Live))
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

type liveReplyFrame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func TestLiveRepliesPerFrame(t *testing.T) {
	app := newTestApp()
	conn := dialLive(t, app)

	var hello liveReplyFrame
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("first frame type = %q, want connected", hello.Type)
	}
	if id, _ := hello.Data["id"].(string); id == "" {
		t.Fatalf("connected frame carries no connection id: %+v", hello.Data)
	}

	frames := []string{
		`{"selection":{"subject":"A fox"},"accent":"#ff0000","paletteMode":"Complementar"}`,
		`{"selection":{"subject":"A fox","mood":"Serene"},"accent":"#ff0000","paletteMode":"Complementar"}`,
	}
	wants := []string{
		"A fox — colors #ff0000, #00ffff",
		"A fox — Serene, colors #ff0000, #00ffff",
	}
	for i, frame := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
		var reply liveReplyFrame
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read reply %d: %v", i, err)
		}
		if reply.Type != "composition" {
			t.Fatalf("reply %d type = %q, want composition", i, reply.Type)
		}
		if got := reply.Data["prompt"]; got != wants[i] {
			t.Fatalf("reply %d prompt = %v, want %q", i, got, wants[i])
		}
	}
}

func TestLiveInvalidFrameKeepsConnection(t *testing.T) {
	conn := dialLive(t, newTestApp())
	var hello liveReplyFrame
	_ = conn.ReadJSON(&hello)

	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{not json`))
	var reply liveReplyFrame
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read error reply: %v", err)
	}
	if reply.Type != "error" || reply.Data["error"] == "" {
		t.Fatalf("reply = %+v, want error frame", reply)
	}

	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"accent":"#zzzzzz"}`))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read second reply: %v", err)
	}
	if reply.Type != "error" {
		t.Fatalf("reply type = %q, want error", reply.Type)
	}

	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{}`))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read third reply: %v", err)
	}
	if reply.Type != "composition" {
		t.Fatalf("reply type = %q, want composition after errors", reply.Type)
	}
}

func TestLiveHubBroadcast(t *testing.T) {
	app := newTestApp()
	app.Hub = NewLiveHub(zerolog.Nop())
	conn := dialLive(t, app)
	var hello liveReplyFrame
	_ = conn.ReadJSON(&hello)

	deadline := time.Now().Add(2 * time.Second)
	for app.Hub.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	app.Hub.Broadcast(LiveMessage{Type: "catalog", Data: map[string]string{"version": "2"}})

	var msg liveReplyFrame
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if msg.Type != "catalog" || msg.Data["version"] != "2" {
		t.Fatalf("broadcast = %+v", msg)
	}
}
