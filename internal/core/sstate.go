package core

import "github.com/xidi-go/xidi/internal/xinput"

// SState is the Virtual Controller's fully transformed snapshot: every
// virtual object's current value, indexed densely by kind (spec.md §4.1).
type SState struct {
	Axis   []int32
	Button []bool
	POV    []int32
}

// NewSState allocates a zeroed SState sized for profile, with every POV
// defaulting to the centred sentinel.
func NewSState(profile *Profile) SState {
	s := SState{
		Axis:   make([]int32, profile.CountOf(KindAxis)),
		Button: make([]bool, profile.CountOf(KindButton)),
		POV:    make([]int32, profile.CountOf(KindPOV)),
	}
	for i := range s.POV {
		s.POV[i] = POVCentered
	}
	return s
}

// Equal reports whether two SStates of the same profile carry identical
// values.
func (s SState) Equal(other SState) bool {
	if len(s.Axis) != len(other.Axis) || len(s.Button) != len(other.Button) || len(s.POV) != len(other.POV) {
		return false
	}
	for i := range s.Axis {
		if s.Axis[i] != other.Axis[i] {
			return false
		}
	}
	for i := range s.Button {
		if s.Button[i] != other.Button[i] {
			return false
		}
	}
	for i := range s.POV {
		if s.POV[i] != other.POV[i] {
			return false
		}
	}
	return true
}

// ComputeSState runs the same profile + transform pipeline as WriteState,
// but yields per-object values directly instead of a caller byte layout.
// It is the authority the Virtual Controller's refresh algorithm (§4.7)
// calls on every poll, independent of whether any application data format is
// currently bound.
func ComputeSState(profile *Profile, axes *AxisTable, snap xinput.Snapshot) SState {
	out := NewSState(profile)

	setAxis := func(vid VId, value int32) {
		if vid.Kind == KindAxis {
			out.Axis[vid.Index] = value
		}
	}
	setButton := func(vid VId, pressed bool) {
		if vid.Kind == KindButton {
			out.Button[vid.Index] = pressed
		}
	}

	vLT := profile.Virt(TriggerLT)
	vRT := profile.Virt(TriggerRT)
	if !vLT.IsAbsent() && !vRT.IsAbsent() && vLT == vRT && vLT.Kind == KindAxis {
		m, ok := profile.SharedDir(TriggerLT)
		if ok && (m == 1 || m == -1) {
			s := m*int32(snap.LT) + (-m)*int32(snap.RT)
			p := axes.Get(vLT.Index)
			remapped := Remap(s, -TrigMax, TrigMax, p.RangeMin, p.RangeMax)
			setAxis(vLT, Apply(remapped, p))
		}
	} else {
		for _, pair := range [...]struct {
			elem PhysElem
			raw  uint8
		}{{TriggerLT, snap.LT}, {TriggerRT, snap.RT}} {
			vid := profile.Virt(pair.elem)
			if vid.IsAbsent() {
				continue
			}
			if vid.Kind == KindAxis {
				p := axes.Get(vid.Index)
				remapped := Remap(int32(pair.raw), TriggerRangeMin, TriggerRangeMax, p.RangeMin, p.RangeMax)
				setAxis(vid, Apply(remapped, p))
			} else if vid.Kind == KindButton {
				setButton(vid, pair.raw > TriggerButtonThreshold)
			}
		}
	}

	sticks := [...]struct {
		elem   PhysElem
		raw    int16
		invert bool
	}{
		{StickLeftH, snap.LX, false},
		{StickLeftV, snap.LY, true},
		{StickRightH, snap.RX, false},
		{StickRightV, snap.RY, true},
	}
	for _, s := range sticks {
		vid := profile.Virt(s.elem)
		if vid.IsAbsent() {
			continue
		}
		raw := int32(s.raw)
		if s.invert {
			raw = Invert(raw, StickRangeMin, StickRangeMax)
		}
		p := axes.Get(vid.Index)
		remapped := Remap(raw, StickRangeMin, StickRangeMax, p.RangeMin, p.RangeMax)
		setAxis(vid, Apply(remapped, p))
	}

	if vid := profile.Virt(Dpad); !vid.IsAbsent() && vid.Kind == KindPOV {
		out.POV[vid.Index] = dpadPOV(snap.ButtonBits)
	}

	for _, elem := range [...]PhysElem{
		ButtonA, ButtonB, ButtonX, ButtonY, ButtonLB, ButtonRB,
		ButtonBack, ButtonStart, ButtonLeftStick, ButtonRightStick,
	} {
		vid := profile.Virt(elem)
		if vid.IsAbsent() {
			continue
		}
		bit, _ := bitFor(elem)
		setButton(vid, snap.ButtonBits&bit != 0)
	}

	return out
}
