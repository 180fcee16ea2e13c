// Package sdlsource is the one concrete xinput.Source this repository
// ships: it polls a real joystick through SDL3's gamepad API and repackages
// it as an XInput-shaped snapshot plus a buffered physical-event queue. It
// is kept strictly outside internal/core and internal/xinput's abstract
// contract — the translation engine never imports this package, only the
// xinput.Source interface it implements.
package sdlsource

import (
	"context"
	"log"
	"runtime"
	"sync"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/xinput"
)

const (
	pollDelayNS   = 16_000_000 // ~60Hz
	eventCapacity = 256
)

// Source polls the first connected SDL gamepad and exposes it as an
// xinput.Source.
type Source struct {
	mu sync.Mutex

	gamepad   *sdl.Gamepad
	hasActive bool
	activeID  sdl.JoystickID

	snapshot     xinput.Snapshot
	errorCode    xinput.ErrorCode
	packetNumber uint32

	events     []xinput.PhysEvent
	overflowed bool
	nextSeq    uint32
}

// New constructs an unopened Source; call Run to bring up SDL and start
// polling.
func New() *Source {
	return &Source{errorCode: xinput.ErrDeviceNotConnected}
}

// Run initialises SDL and runs the event+polling loop until ctx is
// cancelled. It locks its goroutine to the OS thread for its whole run,
// matching SDL's single-thread event pump requirement.
func (s *Source) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitGamepad) {
		log.Fatalf("SDL Init failed: %s", sdl.GetError())
	}
	defer sdl.Quit()

	log.Println("SDL3 Gamepad subsystem initialized")

	for _, id := range sdl.GetGamepads() {
		s.openGamepad(id)
	}

	for {
		select {
		case <-ctx.Done():
			s.closeActive()
			return
		default:
		}

		s.processEvents()
		s.pollState()
		sdl.DelayNS(pollDelayNS)
	}
}

func (s *Source) openGamepad(id sdl.JoystickID) {
	gp := sdl.OpenGamepad(id)
	if gp == nil {
		log.Printf("Failed to open gamepad %d: %s", id, sdl.GetError())
		return
	}

	s.mu.Lock()
	if s.hasActive {
		s.mu.Unlock()
		return
	}
	s.gamepad = gp
	s.activeID = id
	s.hasActive = true
	s.errorCode = xinput.ErrSuccess
	s.mu.Unlock()

	log.Printf("Gamepad connected: %s (ID=%d)", sdl.GetGamepadName(gp), id)
}

func (s *Source) closeActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasActive {
		sdl.CloseGamepad(s.gamepad)
		s.hasActive = false
	}
}

func (s *Source) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventGamepadAdded:
			s.openGamepad(event.GDevice().Which)
		case sdl.EventGamepadRemoved:
			s.handleRemoved(event.GDevice().Which)
		}
	}
}

func (s *Source) handleRemoved(id sdl.JoystickID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasActive || s.activeID != id {
		return
	}
	log.Printf("Gamepad disconnected: %d", id)
	sdl.CloseGamepad(s.gamepad)
	s.hasActive = false
	s.errorCode = xinput.ErrDeviceNotConnected
	s.snapshot = xinput.Snapshot{}
	s.packetNumber++
}

// pollState reads the active gamepad's axes/buttons/hat and diffs against
// the previous snapshot, buffering one PhysEvent per physical element whose
// value changed.
func (s *Source) pollState() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasActive || !sdl.GamepadConnected(s.gamepad) {
		return
	}

	gp := s.gamepad
	next := xinput.Snapshot{
		LX: sdl.GetGamepadAxis(gp, sdl.GamepadAxisLeftX),
		LY: sdl.GetGamepadAxis(gp, sdl.GamepadAxisLeftY),
		RX: sdl.GetGamepadAxis(gp, sdl.GamepadAxisRightX),
		RY: sdl.GetGamepadAxis(gp, sdl.GamepadAxisRightY),
		LT: uint8(sdl.GetGamepadAxis(gp, sdl.GamepadAxisLeftTrigger) >> 7),
		RT: uint8(sdl.GetGamepadAxis(gp, sdl.GamepadAxisRightTrigger) >> 7),
	}

	setBit := func(pressed bool, bit uint16) {
		if pressed {
			next.ButtonBits |= bit
		}
	}
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonSouth), core.BitA)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonEast), core.BitB)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonWest), core.BitX)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonNorth), core.BitY)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonLeftShoulder), core.BitLB)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonRightShoulder), core.BitRB)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonBack), core.BitBack)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonStart), core.BitStart)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonLeftStick), core.BitLeftThumb)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonRightStick), core.BitRightThumb)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonDpadUp), core.BitDpadUp)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonDpadDown), core.BitDpadDown)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonDpadLeft), core.BitDpadLeft)
	setBit(sdl.GetGamepadButton(gp, sdl.GamepadButtonDpadRight), core.BitDpadRight)

	s.diffAndBuffer(s.snapshot, next)
	s.snapshot = next
	s.packetNumber++
}

func (s *Source) diffAndBuffer(prev, next xinput.Snapshot) {
	push := func(elem core.PhysElem, value int32) {
		s.nextSeq++
		ev := xinput.PhysEvent{Elem: int(elem), Value: value, Seq: s.nextSeq}
		if len(s.events) >= eventCapacity {
			s.overflowed = true
			return
		}
		s.events = append(s.events, ev)
	}

	if prev.LX != next.LX {
		push(core.StickLeftH, int32(next.LX))
	}
	if prev.LY != next.LY {
		push(core.StickLeftV, int32(next.LY))
	}
	if prev.RX != next.RX {
		push(core.StickRightH, int32(next.RX))
	}
	if prev.RY != next.RY {
		push(core.StickRightV, int32(next.RY))
	}
	if prev.LT != next.LT {
		push(core.TriggerLT, int32(next.LT))
	}
	if prev.RT != next.RT {
		push(core.TriggerRT, int32(next.RT))
	}
	for _, elem := range [...]core.PhysElem{
		core.ButtonA, core.ButtonB, core.ButtonX, core.ButtonY,
		core.ButtonLB, core.ButtonRB, core.ButtonBack, core.ButtonStart,
		core.ButtonLeftStick, core.ButtonRightStick,
	} {
		bit, _ := bitForExport(elem)
		if prev.ButtonBits&bit != next.ButtonBits&bit {
			val := int32(0)
			if next.ButtonBits&bit != 0 {
				val = 1
			}
			push(elem, val)
		}
	}
	if prev.ButtonBits&dpadMask != next.ButtonBits&dpadMask {
		push(core.Dpad, int32(next.ButtonBits&dpadMask))
	}
}

const dpadMask = core.BitDpadUp | core.BitDpadDown | core.BitDpadLeft | core.BitDpadRight

// bitForExport mirrors core's unexported bitFor for the ten button
// PhysElems sdlsource cares about, since the bit table itself is exported.
func bitForExport(p core.PhysElem) (uint16, bool) {
	switch p {
	case core.ButtonA:
		return core.BitA, true
	case core.ButtonB:
		return core.BitB, true
	case core.ButtonX:
		return core.BitX, true
	case core.ButtonY:
		return core.BitY, true
	case core.ButtonLB:
		return core.BitLB, true
	case core.ButtonRB:
		return core.BitRB, true
	case core.ButtonBack:
		return core.BitBack, true
	case core.ButtonStart:
		return core.BitStart, true
	case core.ButtonLeftStick:
		return core.BitLeftThumb, true
	case core.ButtonRightStick:
		return core.BitRightThumb, true
	default:
		return 0, false
	}
}

// GetState implements xinput.Source.
func (s *Source) GetState(controllerID int) (xinput.ErrorCode, uint32, xinput.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if controllerID != 0 {
		return xinput.ErrDeviceNotConnected, 0, xinput.Snapshot{}
	}
	return s.errorCode, s.packetNumber, s.snapshot
}

// LockEventBuffer implements xinput.Source.
func (s *Source) LockEventBuffer() { s.mu.Lock() }

// UnlockEventBuffer implements xinput.Source.
func (s *Source) UnlockEventBuffer() { s.mu.Unlock() }

// BufferedCount implements xinput.Source. Caller must hold the event lock.
func (s *Source) BufferedCount() uint32 { return uint32(len(s.events)) }

// Peek implements xinput.Source. Caller must hold the event lock.
func (s *Source) Peek(i int) xinput.PhysEvent { return s.events[i] }

// Pop implements xinput.Source. Caller must hold the event lock.
func (s *Source) Pop() xinput.PhysEvent {
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

// IsOverflowed implements xinput.Source. Caller must hold the event lock;
// calling it clears the flag, matching the "informational, then reset"
// contract of spec.md §4.6.
func (s *Source) IsOverflowed() bool {
	o := s.overflowed
	s.overflowed = false
	return o
}
