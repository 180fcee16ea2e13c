package core

import (
	"encoding/binary"

	"github.com/xidi-go/xidi/internal/xinput"
)

// WriteState converts snap into binding's byte layout, writing into out
// (which must be at least binding.PacketSize bytes long). It implements the
// State Writer of spec.md §4.5: the buffer is zeroed first, then every
// virtual object the binding actually uses is written exactly once, with
// axis values passing through remap + the §4.3 transform. Any internal
// invariant violation (kind mismatch, double mapping, zero shared-trigger
// direction) fails the whole call with CodeGeneric and out is left
// indeterminate, per spec.md §7's write-once-started policy.
func WriteState(profile *Profile, axes *AxisTable, binding *Binding, snap xinput.Snapshot, out []byte) *Error {
	if uint32(len(out)) < binding.PacketSize {
		return newErr(CodeInvalidParam, "buffer of %d bytes is smaller than packet size %d", len(out), binding.PacketSize)
	}
	for i := uint32(0); i < binding.PacketSize; i++ {
		out[i] = 0
	}

	written := map[VId]bool{}

	writeAxis := func(vid VId, value int32) *Error {
		if vid.Kind != KindAxis {
			return newErr(CodeGeneric, "expected axis target, got %s", vid.Kind)
		}
		if written[vid] {
			return newErr(CodeGeneric, "virtual object %v written more than once", vid)
		}
		written[vid] = true
		if off, ok := binding.OffsetOf(vid); ok {
			binary.LittleEndian.PutUint32(out[off:], uint32(value))
		}
		return nil
	}

	writeButton := func(vid VId, pressed bool) *Error {
		if vid.Kind != KindButton {
			return newErr(CodeGeneric, "expected button target, got %s", vid.Kind)
		}
		if written[vid] {
			return newErr(CodeGeneric, "virtual object %v written more than once", vid)
		}
		written[vid] = true
		if off, ok := binding.OffsetOf(vid); ok {
			if pressed {
				out[off] = 0x80
			} else {
				out[off] = 0x00
			}
		}
		return nil
	}

	writePOV := func(vid VId, angle int32) *Error {
		if vid.Kind != KindPOV {
			return newErr(CodeGeneric, "expected POV target, got %s", vid.Kind)
		}
		if written[vid] {
			return newErr(CodeGeneric, "virtual object %v written more than once", vid)
		}
		written[vid] = true
		if off, ok := binding.OffsetOf(vid); ok {
			binary.LittleEndian.PutUint32(out[off:], uint32(angle))
		}
		return nil
	}

	// Trigger handling — the critical case.
	vLT := profile.Virt(TriggerLT)
	vRT := profile.Virt(TriggerRT)
	if !vLT.IsAbsent() && !vRT.IsAbsent() && vLT == vRT {
		if vLT.Kind != KindAxis {
			return newErr(CodeGeneric, "shared trigger target must be an axis")
		}
		m, _ := profile.SharedDir(TriggerLT)
		if m != 1 && m != -1 {
			return newErr(CodeGeneric, "shared trigger direction must be +-1, got %d", m)
		}
		s := m*int32(snap.LT) + (-m)*int32(snap.RT)
		remapped := Remap(s, -TrigMax, TrigMax, axes.Get(vLT.Index).RangeMin, axes.Get(vLT.Index).RangeMax)
		value := Apply(remapped, axes.Get(vLT.Index))
		if err := writeAxis(vLT, value); err != nil {
			return err
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
				if err := writeAxis(vid, Apply(remapped, p)); err != nil {
					return err
				}
			} else if vid.Kind == KindButton {
				if err := writeButton(vid, pair.raw > TriggerButtonThreshold); err != nil {
					return err
				}
			} else {
				return newErr(CodeGeneric, "trigger cannot target a POV")
			}
		}
	}

	// Stick handling.
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
		if err := writeAxis(vid, Apply(remapped, p)); err != nil {
			return err
		}
	}

	// D-pad.
	if vid := profile.Virt(Dpad); !vid.IsAbsent() {
		if err := writePOV(vid, dpadPOV(snap.ButtonBits)); err != nil {
			return err
		}
	}

	// Face / shoulder / menu / stick-click buttons.
	for _, elem := range [...]PhysElem{
		ButtonA, ButtonB, ButtonX, ButtonY, ButtonLB, ButtonRB,
		ButtonBack, ButtonStart, ButtonLeftStick, ButtonRightStick,
	} {
		vid := profile.Virt(elem)
		if vid.IsAbsent() {
			continue
		}
		bit, _ := bitFor(elem)
		if err := writeButton(vid, snap.ButtonBits&bit != 0); err != nil {
			return err
		}
	}

	// Any offset reserved for a POV but not filled by a real object reads
	// as centred.
	centered := POVCentered
	for _, off := range binding.SortedUnusedOffsets(KindPOV) {
		binary.LittleEndian.PutUint32(out[off:], uint32(centered))
	}

	return nil
}

// WriteSState is WriteState's counterpart for the legacy-API wrapper's
// getMappedState (spec.md §6): it writes an already-computed SState (the
// Virtual Controller's cached, transformed state) into binding's byte
// layout, rather than re-deriving values from a raw xinput.Snapshot. Every
// virtual object the binding has no slot for is simply skipped; POV offsets
// the binding reserved but that the profile has no real object for still
// read as centred.
func WriteSState(binding *Binding, s SState, out []byte) *Error {
	if uint32(len(out)) < binding.PacketSize {
		return newErr(CodeInvalidParam, "buffer of %d bytes is smaller than packet size %d", len(out), binding.PacketSize)
	}
	for i := uint32(0); i < binding.PacketSize; i++ {
		out[i] = 0
	}

	for i, v := range s.Axis {
		if off, ok := binding.OffsetOf(VId{Kind: KindAxis, Index: i}); ok {
			binary.LittleEndian.PutUint32(out[off:], uint32(v))
		}
	}
	for i, pressed := range s.Button {
		if off, ok := binding.OffsetOf(VId{Kind: KindButton, Index: i}); ok {
			if pressed {
				out[off] = 0x80
			} else {
				out[off] = 0x00
			}
		}
	}
	for i, angle := range s.POV {
		if off, ok := binding.OffsetOf(VId{Kind: KindPOV, Index: i}); ok {
			binary.LittleEndian.PutUint32(out[off:], uint32(angle))
		}
	}

	centered := POVCentered
	for _, off := range binding.SortedUnusedOffsets(KindPOV) {
		binary.LittleEndian.PutUint32(out[off:], uint32(centered))
	}

	return nil
}
