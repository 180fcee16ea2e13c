// Package diag is the diagnostics HTTP/websocket surface: a gorilla
// websocket endpoint broadcasting full/delta Virtual Controller state
// (adapted from the teacher's internal/hub + internal/server), a second,
// lighter lxzan/gws endpoint streaming the Event Encoder's buffered
// AppEvents, and a minified static diagnostic page.
package diag

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/lxzan/gws"

	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/vcontroller"
)

const eventsPollInterval = 16 * time.Millisecond

// Server hosts the diagnostic page and both websocket endpoints on one
// listener.
type Server struct {
	hub          *Hub
	broadcaster  *Broadcaster
	ctrl         *vcontroller.Controller
	triggerCache *core.TriggerCache
	addr         string
	httpServer   *http.Server
}

func New(ctrl *vcontroller.Controller, addr string) *Server {
	h := NewHub()
	b := NewBroadcaster(h, ctrl)
	return &Server{
		hub:          h,
		broadcaster:  b,
		ctrl:         ctrl,
		triggerCache: &core.TriggerCache{},
		addr:         addr,
	}
}

// Run starts the hub and broadcaster goroutines. Call before
// ListenAndServe.
func (s *Server) Run() {
	go s.hub.Run()
	go s.broadcaster.Run()
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster))
	mux.Handle("/events", EventsHandler(func(conn *gws.Conn) {
		EventPumpLoop(conn, s.ctrl, s.triggerCache, eventsPollInterval)
	}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(DiagPage())
	})

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	log.Printf("diagnostics server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		log.Println("shutting down diagnostics server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
