// Package core implements the controller translation engine: the Mapper,
// the Axis Properties Table, the Data Format Binder, the State Writer, and
// the Event Encoder. It has no knowledge of any specific operating system or
// transport; callers supply an XInput-shaped snapshot and get back values
// addressed by the caller's own byte layout.
package core

// PhysElem enumerates the eight physical XInput controller elements plus the
// buttons and d-pad that ride along with them.
type PhysElem int

const (
	ButtonA PhysElem = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLB
	ButtonRB
	ButtonBack
	ButtonStart
	ButtonLeftStick
	ButtonRightStick
	Dpad
	StickLeftH
	StickLeftV
	StickRightH
	StickRightV
	TriggerLT
	TriggerRT
)

// VKind is the kind of a virtual object.
type VKind int

const (
	KindAxis VKind = iota
	KindButton
	KindPOV
)

func (k VKind) String() string {
	switch k {
	case KindAxis:
		return "Axis"
	case KindButton:
		return "Button"
	case KindPOV:
		return "POV"
	default:
		return "Unknown"
	}
}

// Size returns the byte size a single object of this kind occupies in an
// application data format: 4 for axes and POVs, 1 for buttons.
func (k VKind) Size() uint32 {
	switch k {
	case KindAxis, KindPOV:
		return 4
	case KindButton:
		return 1
	default:
		return 0
	}
}

// AxisIdentity is the semantic identity carried by an axis, independent of
// its index within a profile.
type AxisIdentity int

const (
	AxisX AxisIdentity = iota
	AxisY
	AxisZ
	AxisRX
	AxisRY
	AxisRZ
	axisIdentityCount
)

// VId identifies a virtual object: its kind plus its dense index within that
// kind. The zero value is NOT the absent sentinel — use AbsentVId.
type VId struct {
	Kind  VKind
	Index int
}

// AbsentVId is the sentinel meaning "no virtual object".
var AbsentVId = VId{Kind: -1, Index: -1}

// IsAbsent reports whether v is the absent sentinel.
func (v VId) IsAbsent() bool {
	return v == AbsentVId
}

// Fixed-point scale for deadzone/saturation percentages.
const (
	DZMin  uint32 = 0
	DZMax  uint32 = 10000
	SatMin uint32 = 0
	SatMax uint32 = 10000
)

// Physical ranges and thresholds, per spec.
const (
	StickRangeMin = -32768
	StickRangeMax = 32767

	TriggerRangeMin = 0
	TriggerRangeMax = 255
	// TrigMax is the symmetric bound used when combining LT/RT onto one
	// signed axis: the combined raw value ranges over [-TrigMax, TrigMax].
	TrigMax = TriggerRangeMax

	TriggerButtonThreshold = 30

	AnalogNeutral = 0
)

// POVCentered is the sentinel POV value meaning "no direction pressed":
// all bits set, i.e. -1 reinterpreted as an unsigned 32-bit quantity.
const POVCentered int32 = -1

// Remap performs a direction-agnostic linear remap that preserves endpoints:
// Remap(a0, ...) == b0 and Remap(a1, ...) == b1. The intermediate product is
// carried in a 64-bit accumulator to avoid overflow, and the single integer
// division truncates toward zero — this is part of the contract tests
// depend on.
func Remap(v, a0, a1, b0, b1 int32) int32 {
	num := int64(v-a0) * int64(b1-b0)
	den := int64(a1 - a0)
	return int32(num/den) + b0
}

// Invert reflects v about the midpoint of [lo, hi]. Invert(Invert(v)) == v
// for every v, lo, hi (lo != hi).
func Invert(v, lo, hi int32) int32 {
	return lo + hi - v
}
