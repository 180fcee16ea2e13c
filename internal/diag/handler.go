package diag

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // diagnostics endpoint, local use only
	},
}

func handleWebSocket(h *Hub, b *Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("diag: websocket upgrade failed: %v", err)
			return
		}

		client := NewClient(h, conn)
		h.Register(client)
		b.SendInitialState(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
