package core

// AxisProperties is the mutable per-axis tuple controlling how a raw axis
// value is shaped before it reaches the caller: the configured output
// range, and the deadzone/saturation percentages (out of SatMax) that gate
// and clip displacement from the midpoint.
type AxisProperties struct {
	RangeMin, RangeMax int32
	Deadzone           uint32
	Saturation         uint32
}

// DefaultAxisProperties returns the lazily-initialised default: full output
// range, no deadzone, no saturation filtering.
func DefaultAxisProperties() AxisProperties {
	return AxisProperties{
		RangeMin:   StickRangeMin,
		RangeMax:   StickRangeMax,
		Deadzone:   DZMin,
		Saturation: SatMax,
	}
}

// AxisTable holds one AxisProperties entry per virtual axis, created lazily
// on first touch.
type AxisTable struct {
	entries []AxisProperties
	touched []bool
}

// NewAxisTable allocates a table sized for n axes. Every entry reads as the
// default until explicitly set (idempotent lazy initialisation).
func NewAxisTable(n int) *AxisTable {
	return &AxisTable{
		entries: make([]AxisProperties, n),
		touched: make([]bool, n),
	}
}

func (t *AxisTable) ensure(i int) {
	if !t.touched[i] {
		t.entries[i] = DefaultAxisProperties()
		t.touched[i] = true
	}
}

// Get returns axis i's current properties, initialising it to the default
// first if this is its first touch.
func (t *AxisTable) Get(i int) AxisProperties {
	t.ensure(i)
	return t.entries[i]
}

// Count returns the number of axes in the table.
func (t *AxisTable) Count() int { return len(t.entries) }

// SetRange sets axis i's output range. Succeeds only if lo < hi.
func (t *AxisTable) SetRange(i int, lo, hi int32) bool {
	if !(lo < hi) {
		return false
	}
	t.ensure(i)
	t.entries[i].RangeMin = lo
	t.entries[i].RangeMax = hi
	return true
}

// SetDeadzone sets axis i's deadzone. Succeeds only if DZMin <= d <= DZMax.
func (t *AxisTable) SetDeadzone(i int, d uint32) bool {
	if d < DZMin || d > DZMax {
		return false
	}
	t.ensure(i)
	t.entries[i].Deadzone = d
	return true
}

// SetSaturation sets axis i's saturation. Succeeds only if SatMin <= s <= SatMax.
func (t *AxisTable) SetSaturation(i int, s uint32) bool {
	if s < SatMin || s > SatMax {
		return false
	}
	t.ensure(i)
	t.entries[i].Saturation = s
	return true
}

// SetAllRange applies the same range to every axis atomically: the bound
// check has no per-axis dependency, so validating once before the loop is
// already atomic (mirrors the original's SetAllAxisRange).
func (t *AxisTable) SetAllRange(lo, hi int32) bool {
	if !(lo < hi) {
		return false
	}
	for i := range t.entries {
		t.ensure(i)
		t.entries[i].RangeMin = lo
		t.entries[i].RangeMax = hi
	}
	return true
}

// SetAllDeadzone applies the same deadzone to every axis atomically.
func (t *AxisTable) SetAllDeadzone(d uint32) bool {
	if d < DZMin || d > DZMax {
		return false
	}
	for i := range t.entries {
		t.ensure(i)
		t.entries[i].Deadzone = d
	}
	return true
}

// SetAllSaturation applies the same saturation to every axis atomically.
func (t *AxisTable) SetAllSaturation(s uint32) bool {
	if s < SatMin || s > SatMax {
		return false
	}
	for i := range t.entries {
		t.ensure(i)
		t.entries[i].Saturation = s
	}
	return true
}

// Apply transforms value — already remapped into P's own [RangeMin,
// RangeMax] — by gating displacement from the midpoint through the
// deadzone/saturation percentages.
//
// The midpoint and half-range are carried in doubled units (S =
// RangeMin+RangeMax, half2 = RangeMax-RangeMin) with a single truncating
// division back to ordinary units at the very end. This is what lets an
// odd-width default range (-32768..32767) saturate to exactly RangeMin and
// RangeMax instead of losing the half-integer remainder of the true
// midpoint. The S2 and S4 worked examples come out exactly; the LT=0,RT=255
// leg of S1 saturates to -32768 rather than the approximate -32767.
func Apply(value int32, p AxisProperties) int32 {
	s := int64(p.RangeMin) + int64(p.RangeMax)
	half2 := int64(p.RangeMax) - int64(p.RangeMin)

	disp2 := 2*int64(value) - s
	if disp2 == 0 {
		return int32(s / 2)
	}

	var sign int64 = 1
	absDisp2 := disp2
	if disp2 < 0 {
		sign = -1
		absDisp2 = -disp2
	}

	pct := absDisp2 * int64(SatMax) / half2
	switch {
	case pct <= int64(p.Deadzone):
		pct = 0
	case pct >= int64(p.Saturation):
		pct = int64(SatMax)
	default:
		pct = int64(Remap(int32(pct), int32(p.Deadzone), int32(p.Saturation), 0, int32(SatMax)))
	}

	result2 := s + sign*(half2*pct/int64(SatMax))
	return int32(result2 / 2)
}
