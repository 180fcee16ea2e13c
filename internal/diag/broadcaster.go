package diag

import (
	"encoding/json"
	"log"
	"time"

	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/vcontroller"
	"github.com/xidi-go/xidi/internal/xinput"
)

const (
	pollInterval     = 16 * time.Millisecond
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster polls a Virtual Controller and pushes full/delta state
// messages to the hub, matching the teacher's periodic-full-plus-delta
// cadence (internal/hub.Broadcaster) but driven by polling rather than a
// push channel, since vcontroller.Controller exposes pull-only GetState.
type Broadcaster struct {
	hub       *Hub
	ctrl      *vcontroller.Controller
	lastState Snapshot
	seq       int64
}

func NewBroadcaster(h *Hub, ctrl *vcontroller.Controller) *Broadcaster {
	return &Broadcaster{hub: h, ctrl: ctrl}
}

func toSnapshot(s core.SState, code string) Snapshot {
	return Snapshot{Axis: s.Axis, Button: s.Button, POV: s.POV, ErrorCode: code}
}

func errorCodeString(ctrl *vcontroller.Controller) string {
	switch ctrl.ErrorCode() {
	case xinput.ErrSuccess:
		return "success"
	case xinput.ErrDeviceNotConnected:
		return "device-not-connected"
	default:
		return "other-error"
	}
}

// Run polls the controller on a fixed cadence, emitting a delta whenever
// the state changed and a full resync every fullSyncInterval or every
// deltaCountSync deltas, whichever comes first. Should be run in a
// goroutine; it never returns.
func (b *Broadcaster) Run() {
	poll := time.NewTicker(pollInterval)
	defer poll.Stop()
	full := time.NewTicker(fullSyncInterval)
	defer full.Stop()

	var deltaCount int64

	for {
		select {
		case <-poll.C:
			state := b.ctrl.GetState()
			snap := toSnapshot(state, errorCodeString(b.ctrl))

			delta := ComputeDelta(b.lastState, snap)
			b.lastState = snap
			if delta.IsEmpty() {
				continue
			}

			b.seq++
			deltaCount++
			if deltaCount >= deltaCountSync {
				b.sendFull(snap)
				deltaCount = 0
			} else {
				b.sendDelta(delta)
			}

		case <-full.C:
			b.seq++
			b.sendFull(b.lastState)
		}
	}
}

// SendInitialState sends the current full state to a newly connected
// client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.seq++
	msg := NewFullMessage(b.seq, b.lastState)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("diag: error marshaling initial state: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) sendFull(snap Snapshot) {
	msg := NewFullMessage(b.seq, snap)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("diag: error marshaling full message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}

func (b *Broadcaster) sendDelta(delta *DeltaChanges) {
	msg := NewDeltaMessage(b.seq, delta)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("diag: error marshaling delta message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
