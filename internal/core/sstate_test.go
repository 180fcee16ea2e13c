package core

import (
	"testing"

	"github.com/xidi-go/xidi/internal/xinput"
)

func TestNewSStateDefaultsPOVToCentered(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	s := NewSState(p)
	for i, v := range s.POV {
		if v != POVCentered {
			t.Errorf("POV[%d] = %d, want POVCentered", i, v)
		}
	}
}

func TestSStateEqual(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	a := NewSState(p)
	b := NewSState(p)
	if !a.Equal(b) {
		t.Error("two freshly allocated SStates compared unequal")
	}
	b.Button[0] = true
	if a.Equal(b) {
		t.Error("SStates with differing button state compared equal")
	}
}

func TestComputeSStateMatchesScenarioS2(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))

	s := ComputeSState(p, axes, xinput.Snapshot{LY: 32767})
	yIdx := p.Virt(StickLeftV).Index
	if s.Axis[yIdx] != -32768 {
		t.Errorf("Y axis = %d, want -32768", s.Axis[yIdx])
	}
}

func TestComputeSStateSharedTriggerMatchesStateWriter(t *testing.T) {
	p := LookupProfile(ProfileXInputSharedTriggers)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))

	s := ComputeSState(p, axes, xinput.Snapshot{LT: 255, RT: 0})
	zIdx := p.Virt(TriggerLT).Index
	if s.Axis[zIdx] != 32767 {
		t.Errorf("shared trigger axis = %d, want 32767", s.Axis[zIdx])
	}
}

func TestComputeSStateDpadAndButtons(t *testing.T) {
	p := LookupProfile(ProfileStandardGamepad)
	axes := NewAxisTable(int(p.CountOf(KindAxis)))

	s := ComputeSState(p, axes, xinput.Snapshot{ButtonBits: BitA | BitDpadLeft})
	if !s.Button[p.Virt(ButtonA).Index] {
		t.Error("button A not set")
	}
	if s.POV[p.Virt(Dpad).Index] != 27000 {
		t.Errorf("pov = %d, want 27000", s.POV[p.Virt(Dpad).Index])
	}
}
