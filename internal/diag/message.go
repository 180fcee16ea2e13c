package diag

import (
	"slices"
	"time"
)

// Snapshot is the JSON wire shape of one core.SState, flattened for the
// diagnostics transport.
type Snapshot struct {
	Axis      []int32 `json:"axis"`
	Button    []bool  `json:"button"`
	POV       []int32 `json:"pov"`
	ErrorCode string  `json:"errorCode"`
}

// DeltaChanges carries only the fields that changed since the last message,
// mirroring the full/delta split of the teacher's hub package.
type DeltaChanges struct {
	Axis      *[]int32 `json:"axis,omitempty"`
	Button    *[]bool  `json:"button,omitempty"`
	POV       *[]int32 `json:"pov,omitempty"`
	ErrorCode *string  `json:"errorCode,omitempty"`
}

// IsEmpty reports whether the delta carries no changes at all.
func (d *DeltaChanges) IsEmpty() bool {
	return d.Axis == nil && d.Button == nil && d.POV == nil && d.ErrorCode == nil
}

// ComputeDelta diffs two snapshots field by field.
func ComputeDelta(old, next Snapshot) *DeltaChanges {
	d := &DeltaChanges{}
	if !slices.Equal(old.Axis, next.Axis) {
		d.Axis = &next.Axis
	}
	if !slices.Equal(old.Button, next.Button) {
		d.Button = &next.Button
	}
	if !slices.Equal(old.POV, next.POV) {
		d.POV = &next.POV
	}
	if old.ErrorCode != next.ErrorCode {
		d.ErrorCode = &next.ErrorCode
	}
	return d
}

// WSMessage is a message sent from the diagnostics server to a connected
// client over the state-hub websocket.
type WSMessage struct {
	Type      string        `json:"type"` // "full", "delta", or "event"
	Seq       int64         `json:"seq"`
	Timestamp int64         `json:"timestamp"`
	Event     string        `json:"event,omitempty"`
	Data      *Snapshot     `json:"data,omitempty"`
	Changes   *DeltaChanges `json:"changes,omitempty"`
}

func NewFullMessage(seq int64, s Snapshot) *WSMessage {
	return &WSMessage{Type: "full", Seq: seq, Timestamp: time.Now().UnixMilli(), Data: &s}
}

func NewDeltaMessage(seq int64, d *DeltaChanges) *WSMessage {
	return &WSMessage{Type: "delta", Seq: seq, Timestamp: time.Now().UnixMilli(), Changes: d}
}

func NewEventMessage(seq int64, event string) *WSMessage {
	return &WSMessage{Type: "event", Seq: seq, Timestamp: time.Now().UnixMilli(), Event: event}
}
