package core

import (
	"testing"

	"github.com/xidi-go/xidi/internal/xinput"
)

// fakeSource is a minimal xinput.Source backed by a fixed event slice, for
// exercising EncodeEvents without a real controller.
type fakeSource struct {
	events     []xinput.PhysEvent
	pos        int
	overflowed bool
}

func (f *fakeSource) GetState(int) (xinput.ErrorCode, uint32, xinput.Snapshot) {
	return xinput.ErrSuccess, 0, xinput.Snapshot{}
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
func (f *fakeSource) IsOverflowed() bool {
	v := f.overflowed
	f.overflowed = false
	return v
}

func TestEncodeEventsButtonPressAndRelease(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	src := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(ButtonA), Value: 1, Seq: 1},
		{Elem: int(ButtonA), Value: 0, Seq: 2},
	}}

	got, err := EncodeEvents(p, axes, src, &TriggerCache{})
	if err != nil {
		t.Fatalf("EncodeEvents failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	wantVid := p.Virt(ButtonA)
	if got[0].VId != wantVid || got[0].Value != 1 {
		t.Errorf("event 0 = %+v, want VId=%v Value=1", got[0], wantVid)
	}
	if got[1].VId != wantVid || got[1].Value != 0 {
		t.Errorf("event 1 = %+v, want VId=%v Value=0", got[1], wantVid)
	}
}

func TestEncodeEventsDiscardedElementProducesNothing(t *testing.T) {
	p := LookupProfile(ProfileStandardGamepad) // discards triggers entirely
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	src := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(TriggerLT), Value: 200, Seq: 1},
	}}

	got, err := EncodeEvents(p, axes, src, &TriggerCache{})
	if err != nil {
		t.Fatalf("EncodeEvents failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d events for a discarded element, want 0", len(got))
	}
}

func TestEncodeEventsStickInversion(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	src := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(StickLeftV), Value: 32767, Seq: 1},
	}}

	got, err := EncodeEvents(p, axes, src, &TriggerCache{})
	if err != nil {
		t.Fatalf("EncodeEvents failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != -32768 {
		t.Errorf("got %+v, want a single event with Value=-32768", got)
	}
}

func TestEncodeEventsSurfacesOverflowNonFatally(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	src := &fakeSource{
		events:     []xinput.PhysEvent{{Elem: int(ButtonA), Value: 1, Seq: 1}},
		overflowed: true,
	}

	got, err := EncodeEvents(p, axes, src, &TriggerCache{})
	if err == nil || err.Code != CodeOverflow {
		t.Fatalf("EncodeEvents error = %v, want CodeOverflow", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d events alongside overflow, want 1 (non-fatal)", len(got))
	}
}

func TestEncodeEventsModePeekLeavesBufferedCountUnchanged(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	src := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(ButtonA), Value: 1, Seq: 1},
		{Elem: int(ButtonB), Value: 1, Seq: 2},
	}}
	cache := &TriggerCache{}

	before := src.BufferedCount()
	got, err := EncodeEventsMode(p, axes, src, true, cache)
	if err != nil {
		t.Fatalf("EncodeEventsMode(peek) failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if after := src.BufferedCount(); after != before {
		t.Errorf("BufferedCount after peek = %d, want unchanged %d", after, before)
	}

	drained, err := EncodeEventsMode(p, axes, src, false, cache)
	if err != nil {
		t.Fatalf("EncodeEventsMode(drain) failed: %v", err)
	}
	if len(drained) != 2 {
		t.Fatalf("got %d drained events, want 2", len(drained))
	}
	if after := src.BufferedCount(); after != 0 {
		t.Errorf("BufferedCount after drain = %d, want 0", after)
	}
}

func TestEncodeEventsSharedTriggerAxis(t *testing.T) {
	p := LookupProfile(ProfileXInputSharedTriggers)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	src := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(TriggerLT), Value: 255, Seq: 1},
	}}

	got, err := EncodeEvents(p, axes, src, &TriggerCache{})
	if err != nil {
		t.Fatalf("EncodeEvents failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != 32767 {
		t.Errorf("got %+v, want a single event with Value=32767", got)
	}
}

// TestEncodeEventsSharedTriggerCacheAccumulatesAcrossEvents reproduces
// spec.md §4.6's "maintain cached raw LT and RT at the encoder level": LT
// and RT moving independently across two separate buffered events must
// still combine correctly, because the second event's translation has to
// fold in the first event's trigger value from the persistent cache rather
// than treating the other trigger as 0.
func TestEncodeEventsSharedTriggerCacheAccumulatesAcrossEvents(t *testing.T) {
	p := LookupProfile(ProfileXInputSharedTriggers)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	cache := &TriggerCache{}

	src1 := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(TriggerLT), Value: 255, Seq: 1},
	}}
	got1, err := EncodeEvents(p, axes, src1, cache)
	if err != nil {
		t.Fatalf("EncodeEvents (LT event) failed: %v", err)
	}
	if len(got1) != 1 || got1[0].Value != 32767 {
		t.Fatalf("got %+v after LT=255 alone, want a single event with Value=32767", got1)
	}

	src2 := &fakeSource{events: []xinput.PhysEvent{
		{Elem: int(TriggerRT), Value: 200, Seq: 2},
	}}
	got2, err := EncodeEvents(p, axes, src2, cache)
	if err != nil {
		t.Fatalf("EncodeEvents (RT event) failed: %v", err)
	}
	if len(got2) != 1 {
		t.Fatalf("got %d events for the RT event, want 1", len(got2))
	}
	// Combined signed value is LT - RT = 255 - 200 = 55, remapped from
	// [-255, 255] onto the default [-32768, 32767] range — nowhere near the
	// solo-RT-only value (RT alone at 200 would remap to a negative value
	// much further from center), proving RT's event picked up LT's cached
	// raw value instead of treating it as 0.
	wantSigned := int32(255 - 200)
	wantRemapped := Remap(wantSigned, -TrigMax, TrigMax, axes.Get(p.Virt(TriggerLT).Index).RangeMin, axes.Get(p.Virt(TriggerLT).Index).RangeMax)
	want := Apply(wantRemapped, axes.Get(p.Virt(TriggerLT).Index))
	if got2[0].Value != want {
		t.Errorf("got %+v, want Value=%d (combined LT=255,RT=200)", got2[0], want)
	}
}
