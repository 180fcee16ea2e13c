// Package vcontroller implements the Virtual Controller: the latest-state
// cache, its packet-number/error-code state machine, and the mutex-guarded
// refresh algorithm of spec.md §4.7.
package vcontroller

import (
	"log"
	"sync"

	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/xinput"
)

// Observation is the kind of transition the state machine surfaced on a
// refresh, for logging/diagnostics. It carries no behavior of its own.
type Observation int

const (
	// ObsNone means the refresh produced no errorCode transition worth
	// surfacing (including "no refresh happened at all").
	ObsNone Observation = iota
	ObsConnectedOrCleared
	ObsDisconnectedOrErrored
	ObsErrorChanged
)

// Controller is the Virtual Controller for one logical device: it owns the
// axis properties table and caches the profile's transformed state, polling
// an XInput source on demand.
type Controller struct {
	mu sync.Mutex

	profile *core.Profile
	axes    *core.AxisTable
	source  xinput.Source

	controllerID int

	latestState   core.SState
	packetNumber  uint32
	errorCode     xinput.ErrorCode
	refreshNeeded bool
}

// New constructs a Controller bound to profile and source. The axis
// properties table starts fully at its defaults.
func New(profile *core.Profile, source xinput.Source, controllerID int) *Controller {
	return &Controller{
		profile:       profile,
		axes:          core.NewAxisTable(int(profile.CountOf(core.KindAxis))),
		source:        source,
		controllerID:  controllerID,
		latestState:   core.NewSState(profile),
		errorCode:     xinput.ErrDeviceNotConnected,
		refreshNeeded: true,
	}
}

// Profile returns the controller's immutable mapping profile.
func (c *Controller) Profile() *core.Profile { return c.profile }

// WithAxesLocked runs fn with the controller's own mutex held, giving
// exclusive access to the axis properties table — the same lock GetState
// and refreshLocked use. spec.md §5 requires property writes and
// GetState/RefreshState to serialize on exactly one lock; this is the only
// way outside this package to touch the axis table, so that requirement
// holds regardless of which package is doing the touching.
func (c *Controller) WithAxesLocked(fn func(*core.AxisTable)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.axes)
}

// EncodeBufferedEvents drains (or, with peek, previews) the source's
// buffered physical events and translates them through the Event Encoder,
// holding the same mutex GetState/refreshLocked use so this can never run
// concurrently with a property write touching the same axis table (spec.md
// §5). cache carries the Event Encoder's persistent shared-trigger state
// across calls; callers that need an independently-sequenced event stream
// (the legacy-API wrapper, the diagnostics event stream) each keep their own
// core.TriggerCache.
func (c *Controller) EncodeBufferedEvents(peek bool, cache *core.TriggerCache) ([]core.AppEvent, *core.Error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.source.LockEventBuffer()
	defer c.source.UnlockEventBuffer()
	return core.EncodeEventsMode(c.profile, c.axes, c.source, peek, cache)
}

// GetState returns a copy of the controller's current transformed state,
// refreshing from the source first when refreshNeeded is set. This is
// §4.7's GetState: its single observable side effect is setting
// refreshNeeded, and since nothing clears it, every call polls the source
// once.
func (c *Controller) GetState() core.SState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refreshNeeded {
		c.refreshLocked()
	}
	c.refreshNeeded = true
	return c.latestState
}

// ErrorCode reports the error code observed on the most recent refresh,
// without itself triggering one.
func (c *Controller) ErrorCode() xinput.ErrorCode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorCode
}

// refreshLocked implements the refresh algorithm of spec.md §4.7. The
// caller must hold c.mu.
func (c *Controller) refreshLocked() bool {
	errorCode, packetNumber, raw := c.source.GetState(c.controllerID)
	if errorCode != xinput.ErrSuccess {
		raw = xinput.Snapshot{}
	}

	prevCode := c.errorCode
	obs := classifyTransition(prevCode, errorCode)
	logObservation(obs, c.controllerID)

	samePacket := packetNumber == c.packetNumber
	bothSuccess := prevCode == xinput.ErrSuccess && errorCode == xinput.ErrSuccess
	bothNonSuccess := prevCode != xinput.ErrSuccess && errorCode != xinput.ErrSuccess
	c.errorCode = errorCode
	c.packetNumber = packetNumber

	if samePacket && (bothSuccess || bothNonSuccess) {
		return false
	}

	next := core.ComputeSState(c.profile, c.axes, raw)
	if next.Equal(c.latestState) {
		return false
	}
	c.latestState = next
	return true
}

// classifyTransition implements the three-state observation rules of
// spec.md §4.7.
func classifyTransition(prev, next xinput.ErrorCode) Observation {
	if next == xinput.ErrSuccess {
		if prev == xinput.ErrSuccess {
			return ObsNone
		}
		return ObsConnectedOrCleared
	}
	if prev == xinput.ErrSuccess {
		return ObsDisconnectedOrErrored
	}
	if prev != next {
		return ObsErrorChanged
	}
	return ObsNone
}

func logObservation(obs Observation, controllerID int) {
	switch obs {
	case ObsConnectedOrCleared:
		log.Printf("controller %d: connected", controllerID)
	case ObsDisconnectedOrErrored:
		log.Printf("controller %d: disconnected or errored", controllerID)
	case ObsErrorChanged:
		log.Printf("controller %d: error state changed", controllerID)
	}
}
