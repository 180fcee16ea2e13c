package core

import (
	"encoding/binary"
	"testing"

	"github.com/xidi-go/xidi/internal/xinput"
)

func bindSharedTriggerAxis(t *testing.T) (*Profile, *AxisTable, *Binding) {
	t.Helper()
	p := LookupProfile(ProfileXInputSharedTriggers)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	b, err := Bind(p, []ObjectRequest{
		{KindMask: KindAxis, InstanceOrAny: 4, ByteOffset: 0},
	}, 4)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	return p, axes, b
}

// S1: shared-trigger axis combine. LT=255,RT=0 -> +32767. LT=0,RT=255 -> the
// doubled-precision Apply saturates to exactly -32768 here rather than the
// spec's approximate -32767 worked example, per the intentional
// invariant-3 resolution documented on Apply. LT=RT=128 -> within ±1 of 0.
func TestWriteStateSharedTriggerScenarioS1(t *testing.T) {
	p, axes, b := bindSharedTriggerAxis(t)
	out := make([]byte, 4)

	cases := []struct {
		lt, rt uint8
		want   int32
	}{
		{255, 0, 32767},
		{0, 255, -32768},
		{128, 128, 0},
	}
	for _, c := range cases {
		snap := xinput.Snapshot{LT: c.lt, RT: c.rt}
		if err := WriteState(p, axes, b, snap, out); err != nil {
			t.Fatalf("WriteState(LT=%d,RT=%d) failed: %v", c.lt, c.rt, err)
		}
		got := int32(binary.LittleEndian.Uint32(out))
		if got != c.want {
			t.Errorf("LT=%d,RT=%d: got %d, want %d", c.lt, c.rt, got, c.want)
		}
	}
}

// S2: vertical-stick inversion on the XInputNative profile's default range.
func TestWriteStateStickInversionScenarioS2(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	b, err := Bind(p, []ObjectRequest{
		{KindMask: KindAxis, InstanceOrAny: 1, ByteOffset: 0}, // Y axis
	}, 4)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	out := make([]byte, 4)

	if err := WriteState(p, axes, b, xinput.Snapshot{LY: 32767}, out); err != nil {
		t.Fatalf("WriteState failed: %v", err)
	}
	if got := int32(binary.LittleEndian.Uint32(out)); got != -32768 {
		t.Errorf("LY=32767: got %d, want -32768", got)
	}

	if err := WriteState(p, axes, b, xinput.Snapshot{LY: -32768}, out); err != nil {
		t.Fatalf("WriteState failed: %v", err)
	}
	if got := int32(binary.LittleEndian.Uint32(out)); got != 32767 {
		t.Errorf("LY=-32768: got %d, want 32767", got)
	}
}

func TestWriteStateRejectsUndersizedBuffer(t *testing.T) {
	p, axes, b := bindSharedTriggerAxis(t)
	out := make([]byte, 2)
	err := WriteState(p, axes, b, xinput.Snapshot{}, out)
	if err == nil || err.Code != CodeInvalidParam {
		t.Errorf("WriteState with undersized buffer = %v, want CodeInvalidParam", err)
	}
}

func TestWriteStateDpadAndButtons(t *testing.T) {
	p := LookupProfile(ProfileStandardGamepad)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	b, err := Bind(p, []ObjectRequest{
		{KindMask: KindButton, InstanceOrAny: 0, ByteOffset: 0}, // A
		{KindMask: KindPOV, InstanceOrAny: 0, ByteOffset: 4},
	}, 8)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	out := make([]byte, 8)
	snap := xinput.Snapshot{ButtonBits: BitA | BitDpadUp | BitDpadRight}
	if err := WriteState(p, axes, b, snap, out); err != nil {
		t.Fatalf("WriteState failed: %v", err)
	}
	if out[0] != 0x80 {
		t.Errorf("button A byte = %#x, want 0x80", out[0])
	}
	if got := int32(binary.LittleEndian.Uint32(out[4:])); got != 4500 {
		t.Errorf("pov = %d, want 4500", got)
	}
}

func TestWriteStateFillsUnusedPOVWithCenteredSentinel(t *testing.T) {
	p := LookupProfile(ProfileStandardGamepad)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))
	// Claim a second POV slot the profile has no real object for.
	b, err := Bind(p, []ObjectRequest{
		{KindMask: KindPOV, InstanceOrAny: InstanceAny, ByteOffset: 0},
		{KindMask: KindPOV, InstanceOrAny: InstanceAny, ByteOffset: 4},
	}, 8)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	out := make([]byte, 8)
	if err := WriteState(p, axes, b, xinput.Snapshot{}, out); err != nil {
		t.Fatalf("WriteState failed: %v", err)
	}
	if got := int32(binary.LittleEndian.Uint32(out[4:])); got != POVCentered {
		t.Errorf("unused pov slot = %d, want POVCentered", got)
	}
}
