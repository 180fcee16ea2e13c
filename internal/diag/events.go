package diag

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lxzan/gws"

	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/vcontroller"
)

// AppEventMessage is the wire shape of one core.AppEvent pushed to the
// /events endpoint.
type AppEventMessage struct {
	Kind      string `json:"kind"` // "Axis", "Button", "POV"
	Index     int    `json:"index"`
	Value     int32  `json:"value"`
	Seq       uint32 `json:"seq"`
	Timestamp int64  `json:"timestamp"`
}

// eventsHandler implements gws.Event, streaming nothing on receipt — this
// endpoint is push-only from the server's side. It embeds
// gws.BuiltinEventHandler so it only needs to override the lifecycle hooks
// it actually cares about.
type eventsHandler struct {
	gws.BuiltinEventHandler
}

func (eventsHandler) OnOpen(socket *gws.Conn) {
	log.Println("diag /events client connected")
}

func (eventsHandler) OnClose(socket *gws.Conn, err error) {
	log.Printf("diag /events client disconnected: %v", err)
}

var eventsUpgrader = gws.NewUpgrader(eventsHandler{}, &gws.ServerOption{
	ParallelEnabled: false,
})

// EventsHandler upgrades incoming requests to the lighter-weight gws
// websocket and hands the connection to pump, which pushes AppEvents onto
// it as they're translated. This runs alongside the gorilla-backed state
// hub on a different stack entirely, by design.
func EventsHandler(pump func(*gws.Conn)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := eventsUpgrader.Upgrade(w, r)
		if err != nil {
			log.Printf("diag: /events upgrade failed: %v", err)
			return
		}
		go conn.ReadLoop()
		go pump(conn)
	}
}

// PushAppEvent writes one translated event to conn. It reports whether the
// write succeeded, so the pump loop can stop once the connection is gone.
func PushAppEvent(conn *gws.Conn, ev core.AppEvent) bool {
	msg := AppEventMessage{
		Kind:      ev.VId.Kind.String(),
		Index:     ev.VId.Index,
		Value:     ev.Value,
		Seq:       ev.Seq,
		Timestamp: ev.Timestamp,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("diag: error marshaling app event: %v", err)
		return true
	}
	if err := conn.WriteMessage(gws.OpcodeText, data); err != nil {
		log.Printf("diag: error writing app event: %v", err)
		return false
	}
	return true
}

// EventPumpLoop repeatedly drains ctrl's buffered events on interval and
// forwards each translated AppEvent to conn, stopping on the first write
// failure (the client disconnected). cache persists this stream's
// shared-trigger state across polls, independent of any other consumer of
// the same controller's events.
func EventPumpLoop(conn *gws.Conn, ctrl *vcontroller.Controller, cache *core.TriggerCache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		events, err := ctrl.EncodeBufferedEvents(false, cache)
		if err != nil && err.Code != core.CodeOverflow {
			log.Printf("diag: event encode error: %v", err)
		}
		for _, ev := range events {
			if !PushAppEvent(conn, ev) {
				return
			}
		}
	}
}
