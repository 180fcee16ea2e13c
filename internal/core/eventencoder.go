package core

import "github.com/xidi-go/xidi/internal/xinput"

// AppEvent is one translated, buffered event ready for an application's
// event queue: a virtual object plus the value it transitioned to, already
// passed through the same remap/transform pipeline the State Writer uses.
type AppEvent struct {
	VId       VId
	Value     int32
	Seq       uint32
	Timestamp int64
}

// TriggerCache is the Event Encoder's persistent view of each trigger's last
// known raw value, needed on a shared-trigger-axis profile to reconstruct
// the combined value from a single buffered LT or RT event (spec.md §4.6;
// mirrors the original's cachedValueXInputLT/cachedValueXInputRT Mapper
// fields). Its zero value starts both triggers at raw 0, matching the
// original's default-constructed members, and it must persist for the
// lifetime of whatever owns the encoding (one per legacy-API Device, one per
// diagnostics event stream).
type TriggerCache struct {
	LT, RT int32
}

// EncodeEvents drains every event currently buffered on src (the caller must
// already hold src's event-buffer lock) and translates each physical event
// into zero or more AppEvents, using profile to resolve the physical element
// and axes for the per-axis transform. A physical element the profile
// discards produces no event. Overflow on src is surfaced as CodeOverflow
// alongside whatever events were still recovered — spec.md §4.6 treats
// overflow as informational, not fatal.
func EncodeEvents(profile *Profile, axes *AxisTable, src xinput.Source, cache *TriggerCache) ([]AppEvent, *Error) {
	return EncodeEventsMode(profile, axes, src, false, cache)
}

// EncodeEventsMode is EncodeEvents generalized over the legacy-API
// wrapper's peek/drain distinction (spec.md §6, §8 invariant 7): with
// peek=true the source's buffered events are read via Peek and
// bufferedCount() is left unchanged; with peek=false (drain) each event is
// consumed via Pop. cache is updated as shared-trigger events are seen
// regardless of peek/drain, matching the original, which folds the cache
// update into the same loop that walks peeked or popped events alike.
func EncodeEventsMode(profile *Profile, axes *AxisTable, src xinput.Source, peek bool, cache *TriggerCache) ([]AppEvent, *Error) {
	n := int(src.BufferedCount())
	out := make([]AppEvent, 0, n)

	for i := 0; i < n; i++ {
		var ev xinput.PhysEvent
		if peek {
			ev = src.Peek(i)
		} else {
			ev = src.Pop()
		}
		events, err := encodeOne(profile, axes, ev, cache)
		if err != nil {
			return out, err
		}
		out = append(out, events...)
	}

	if src.IsOverflowed() {
		return out, newErr(CodeOverflow, "event buffer overflowed since the last batch")
	}
	return out, nil
}

func encodeOne(profile *Profile, axes *AxisTable, ev xinput.PhysEvent, cache *TriggerCache) ([]AppEvent, *Error) {
	elem := PhysElem(ev.Elem)

	switch elem {
	case TriggerLT, TriggerRT:
		return encodeTriggerEvent(profile, axes, elem, ev, cache)
	case StickLeftH, StickRightH:
		return encodeAxisEvent(profile, axes, elem, ev.Value, false, ev)
	case StickLeftV, StickRightV:
		return encodeAxisEvent(profile, axes, elem, ev.Value, true, ev)
	case Dpad:
		vid := profile.Virt(Dpad)
		if vid.IsAbsent() {
			return nil, nil
		}
		return []AppEvent{{VId: vid, Value: dpadPOV(uint16(ev.Value)), Seq: ev.Seq, Timestamp: ev.Timestamp}}, nil
	default:
		vid := profile.Virt(elem)
		if vid.IsAbsent() {
			return nil, nil
		}
		if vid.Kind != KindButton {
			return nil, newErr(CodeGeneric, "physical button element mapped to non-button target")
		}
		value := int32(0)
		if ev.Value != 0 {
			value = 1
		}
		return []AppEvent{{VId: vid, Value: value, Seq: ev.Seq, Timestamp: ev.Timestamp}}, nil
	}
}

func encodeAxisEvent(profile *Profile, axes *AxisTable, elem PhysElem, raw int32, invert bool, ev xinput.PhysEvent) ([]AppEvent, *Error) {
	vid := profile.Virt(elem)
	if vid.IsAbsent() {
		return nil, nil
	}
	if vid.Kind != KindAxis {
		return nil, newErr(CodeGeneric, "physical stick axis mapped to non-axis target")
	}
	if invert {
		raw = Invert(raw, StickRangeMin, StickRangeMax)
	}
	p := axes.Get(vid.Index)
	remapped := Remap(raw, StickRangeMin, StickRangeMax, p.RangeMin, p.RangeMax)
	return []AppEvent{{VId: vid, Value: Apply(remapped, p), Seq: ev.Seq, Timestamp: ev.Timestamp}}, nil
}

// encodeTriggerEvent handles one LT/RT physical event. On a profile that
// shares LT/RT onto a single axis, a lone event cannot by itself carry the
// other trigger's current value, so the encoder keeps cache up to date with
// each trigger's last seen raw value and recomputes the combined signed
// value from the cache on every event — spec.md §4.6's "maintain cached raw
// LT and RT at the encoder level", mirrored directly from the original's
// cachedValueXInputLT/cachedValueXInputRT.
func encodeTriggerEvent(profile *Profile, axes *AxisTable, elem PhysElem, ev xinput.PhysEvent, cache *TriggerCache) ([]AppEvent, *Error) {
	vid := profile.Virt(elem)
	if vid.IsAbsent() {
		return nil, nil
	}

	if vid.Kind == KindButton {
		value := int32(0)
		if ev.Value > TriggerButtonThreshold {
			value = 1
		}
		return []AppEvent{{VId: vid, Value: value, Seq: ev.Seq, Timestamp: ev.Timestamp}}, nil
	}
	if vid.Kind != KindAxis {
		return nil, newErr(CodeGeneric, "trigger mapped to a POV target")
	}

	p := axes.Get(vid.Index)
	if profile.IsSharedTriggerAxis() {
		m, ok := profile.SharedDir(TriggerLT)
		if !ok || (m != 1 && m != -1) {
			return nil, newErr(CodeGeneric, "shared trigger direction must be +-1")
		}
		if elem == TriggerLT {
			cache.LT = ev.Value
		} else {
			cache.RT = ev.Value
		}
		signed := m*cache.LT + (-m)*cache.RT
		remapped := Remap(signed, -TrigMax, TrigMax, p.RangeMin, p.RangeMax)
		return []AppEvent{{VId: vid, Value: Apply(remapped, p), Seq: ev.Seq, Timestamp: ev.Timestamp}}, nil
	}

	remapped := Remap(ev.Value, TriggerRangeMin, TriggerRangeMax, p.RangeMin, p.RangeMax)
	return []AppEvent{{VId: vid, Value: Apply(remapped, p), Seq: ev.Seq, Timestamp: ev.Timestamp}}, nil
}
