package legacyapi

import (
	"encoding/binary"
	"testing"

	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/propapi"
	"github.com/xidi-go/xidi/internal/vcontroller"
	"github.com/xidi-go/xidi/internal/xinput"
)

// fakeSource is a minimal xinput.Source with a fixed snapshot and a fixed
// event slice, for exercising Device without a real controller.
type fakeSource struct {
	snap   xinput.Snapshot
	events []xinput.PhysEvent
	pos    int
}

func (f *fakeSource) GetState(int) (xinput.ErrorCode, uint32, xinput.Snapshot) {
	return xinput.ErrSuccess, 1, f.snap
}
func (f *fakeSource) LockEventBuffer()   {}
func (f *fakeSource) UnlockEventBuffer() {}
func (f *fakeSource) BufferedCount() uint32 {
	return uint32(len(f.events) - f.pos)
}
func (f *fakeSource) Peek(i int) xinput.PhysEvent { return f.events[f.pos+i] }
func (f *fakeSource) Pop() xinput.PhysEvent {
	ev := f.events[f.pos]
	f.pos++
	return ev
}
func (f *fakeSource) IsOverflowed() bool { return false }

func newTestDevice(t *testing.T) (*Device, *core.Profile) {
	t.Helper()
	p := core.LookupProfile(core.ProfileXInputNative)
	src := &fakeSource{snap: xinput.Snapshot{ButtonBits: 0, LX: 1000}}
	ctrl := vcontroller.New(p, src, 0)
	return NewDevice(ctrl), p
}

func fullFormatRequests(p *core.Profile) ([]core.ObjectRequest, uint32) {
	var reqs []core.ObjectRequest
	off := uint32(0)
	for i := 0; i < int(p.CountOf(core.KindAxis)); i++ {
		reqs = append(reqs, core.ObjectRequest{KindMask: core.KindAxis, InstanceOrAny: i, ByteOffset: off})
		off += 4
	}
	for i := 0; i < int(p.CountOf(core.KindButton)); i++ {
		reqs = append(reqs, core.ObjectRequest{KindMask: core.KindButton, InstanceOrAny: i, ByteOffset: off})
		off++
	}
	for off%4 != 0 {
		off++
	}
	for i := 0; i < int(p.CountOf(core.KindPOV)); i++ {
		reqs = append(reqs, core.ObjectRequest{KindMask: core.KindPOV, InstanceOrAny: i, ByteOffset: off})
		off += 4
	}
	return reqs, off
}

func TestGetCapabilitiesMatchesProfile(t *testing.T) {
	d, p := newTestDevice(t)
	axes, buttons, povs := d.GetCapabilities()
	if axes != uint16(p.CountOf(core.KindAxis)) || buttons != uint16(p.CountOf(core.KindButton)) || povs != uint16(p.CountOf(core.KindPOV)) {
		t.Errorf("GetCapabilities = (%d,%d,%d), want profile counts", axes, buttons, povs)
	}
}

func TestGetMappedStateFailsWithoutDataFormat(t *testing.T) {
	d, _ := newTestDevice(t)
	buf := make([]byte, 64)
	if err := d.GetMappedState(buf); err == nil || err.Code != core.CodeObjectNotFound {
		t.Errorf("GetMappedState(no format) = %v, want CodeObjectNotFound", err)
	}
}

func TestSetDataFormatThenGetMappedState(t *testing.T) {
	d, p := newTestDevice(t)
	reqs, packetSize := fullFormatRequests(p)
	if err := d.SetDataFormat(reqs, packetSize); err != nil {
		t.Fatalf("SetDataFormat failed: %v", err)
	}

	buf := make([]byte, packetSize)
	if err := d.GetMappedState(buf); err != nil {
		t.Fatalf("GetMappedState failed: %v", err)
	}

	xIdx := p.Virt(core.StickLeftH).Index
	got := int32(binary.LittleEndian.Uint32(buf[xIdx*4:]))
	if got == 0 {
		t.Error("mapped X axis read back as 0 from a non-zero raw snapshot")
	}
}

func TestResetDataFormatClearsBinding(t *testing.T) {
	d, p := newTestDevice(t)
	reqs, packetSize := fullFormatRequests(p)
	if err := d.SetDataFormat(reqs, packetSize); err != nil {
		t.Fatalf("SetDataFormat failed: %v", err)
	}
	d.ResetDataFormat()

	buf := make([]byte, packetSize)
	if err := d.GetMappedState(buf); err == nil || err.Code != core.CodeObjectNotFound {
		t.Errorf("GetMappedState after reset = %v, want CodeObjectNotFound", err)
	}
}

func TestEnumerateObjectsFiltersByKindMask(t *testing.T) {
	d, p := newTestDevice(t)
	var gotAxes, gotButtons int
	d.EnumerateObjects(core.KindAxis, func(o core.EnumeratedObject) {
		gotAxes++
		if o.VId.Kind != core.KindAxis {
			t.Errorf("EnumerateObjects(KindAxis) visited %+v", o)
		}
	})
	if gotAxes != int(p.CountOf(core.KindAxis)) {
		t.Errorf("got %d axes, want %d", gotAxes, p.CountOf(core.KindAxis))
	}

	d.EnumerateObjects(AllKinds, func(o core.EnumeratedObject) {
		if o.VId.Kind == core.KindButton {
			gotButtons++
		}
	})
	if gotButtons != int(p.CountOf(core.KindButton)) {
		t.Errorf("got %d buttons under AllKinds, want %d", gotButtons, p.CountOf(core.KindButton))
	}
}

func TestGetBufferedEventsDrainVsPeek(t *testing.T) {
	p := core.LookupProfile(core.ProfileXInputNative)
	src := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(core.ButtonA), Value: 1, Seq: 1},
	}}
	ctrl := vcontroller.New(p, src, 0)
	d := NewDevice(ctrl)

	peeked, err := d.GetBufferedEvents(true)
	if err != nil {
		t.Fatalf("GetBufferedEvents(peek) failed: %v", err)
	}
	if len(peeked) != 1 {
		t.Fatalf("got %d peeked events, want 1", len(peeked))
	}
	if src.BufferedCount() != 1 {
		t.Errorf("BufferedCount after peek = %d, want 1", src.BufferedCount())
	}

	drained, err := d.GetBufferedEvents(false)
	if err != nil {
		t.Fatalf("GetBufferedEvents(drain) failed: %v", err)
	}
	if len(drained) != 1 {
		t.Fatalf("got %d drained events, want 1", len(drained))
	}
	if src.BufferedCount() != 0 {
		t.Errorf("BufferedCount after drain = %d, want 0", src.BufferedCount())
	}
}

func TestPropertiesExposesFacadeBoundToSameBinding(t *testing.T) {
	d, p := newTestDevice(t)
	reqs, packetSize := fullFormatRequests(p)
	if err := d.SetDataFormat(reqs, packetSize); err != nil {
		t.Fatalf("SetDataFormat failed: %v", err)
	}

	if err := d.Properties().SetDeadzone(propapi.ByOffset(0), 1500); err != nil {
		t.Fatalf("SetDeadzone by offset failed: %v", err)
	}
}
