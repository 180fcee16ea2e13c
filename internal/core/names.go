package core

import "fmt"

// axisIdentityNames gives each semantic axis identity its legacy
// DirectInput-style display name.
var axisIdentityNames = [...]string{
	AxisX:  "X Axis",
	AxisY:  "Y Axis",
	AxisZ:  "Z Axis",
	AxisRX: "RotX Axis",
	AxisRY: "RotY Axis",
	AxisRZ: "RotZ Axis",
}

// ObjectName returns the display name a Property API consumer would expect
// for a virtual object, per spec.md §6: semantic axes get their named
// identity, everything else is numbered from 1.
func ObjectName(profile *Profile, v VId) string {
	switch v.Kind {
	case KindAxis:
		id := profile.AxisSemantic(v.Index)
		if int(id) >= 0 && int(id) < len(axisIdentityNames) {
			return axisIdentityNames[id]
		}
		return "Unknown Axis"
	case KindButton:
		return fmt.Sprintf("Button %d", v.Index+1)
	case KindPOV:
		return fmt.Sprintf("POV %d", v.Index+1)
	default:
		return "Unknown Object"
	}
}

// EnumerateObjects lists every virtual object a profile exposes, in
// kind-major, index-ascending order: axes, then buttons, then POVs. Used by
// EnumerateWithOffsets, which backs the legacy-API wrapper's enumeration.
func EnumerateObjects(profile *Profile) []VId {
	out := make([]VId, 0, int(profile.CountOf(KindAxis))+int(profile.CountOf(KindButton))+int(profile.CountOf(KindPOV)))
	for i := 0; i < int(profile.CountOf(KindAxis)); i++ {
		out = append(out, VId{Kind: KindAxis, Index: i})
	}
	for i := 0; i < int(profile.CountOf(KindButton)); i++ {
		out = append(out, VId{Kind: KindButton, Index: i})
	}
	for i := 0; i < int(profile.CountOf(KindPOV)); i++ {
		out = append(out, VId{Kind: KindPOV, Index: i})
	}
	return out
}

// NoOffset is the sentinel EnumeratedObject.Offset carries when the object
// exists in the profile but the currently bound data format (if any) has no
// slot for it.
const NoOffset uint32 = 0xFFFFFFFF

// EnumeratedObject is one entry of an enumerateObjects-style walk: the
// object itself, its display name, and its byte offset if a binding is
// installed and covers it.
type EnumeratedObject struct {
	VId    VId
	Name   string
	Offset uint32
}

// EnumerateWithOffsets is EnumerateObjects enriched with each object's byte
// offset under binding, or NoOffset if binding is nil or has no slot for
// it. This matches the legacy-API wrapper's enumerateObjects contract in
// spec.md §6.
func EnumerateWithOffsets(profile *Profile, binding *Binding) []EnumeratedObject {
	ids := EnumerateObjects(profile)
	out := make([]EnumeratedObject, len(ids))
	for i, v := range ids {
		offset := NoOffset
		if binding != nil {
			if off, ok := binding.OffsetOf(v); ok {
				offset = off
			}
		}
		out[i] = EnumeratedObject{VId: v, Name: ObjectName(profile, v), Offset: offset}
	}
	return out
}
