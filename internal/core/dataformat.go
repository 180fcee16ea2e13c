package core

import "sort"

// MaxPacket is the largest packet size the binder will accept for a data
// format, matching the legacy DirectInput convention of a modestly bounded
// fixed-layout buffer.
const MaxPacket uint32 = 1024

// InstanceAny means "pick the next free instance of this kind" rather than
// a specific index.
const InstanceAny = -1

// ObjectRequest describes one object a caller's data format wants bound to
// a byte offset.
type ObjectRequest struct {
	KindMask     VKind
	HasIdentity  bool
	Identity     AxisIdentity
	InstanceOrAny int // InstanceAny, or a specific 0-based instance index
	ByteOffset   uint32
}

// Binding is the bidirectional mapping a successful SetDataFormat call
// produces.
type Binding struct {
	PacketSize uint32

	vidToOffset map[VId]uint32
	offsetToVid map[uint32]VId

	// UnusedOffsets holds, per kind, the offsets the caller reserved for
	// that kind but for which no real virtual object exists.
	UnusedOffsets map[VKind]map[uint32]struct{}
}

// OffsetOf returns the byte offset bound to v, or (0, false) if unbound.
func (b *Binding) OffsetOf(v VId) (uint32, bool) {
	off, ok := b.vidToOffset[v]
	return off, ok
}

// VIdAt returns the virtual object bound at offset, or (VId{}, false).
func (b *Binding) VIdAt(offset uint32) (VId, bool) {
	v, ok := b.offsetToVid[offset]
	return v, ok
}

type bindState struct {
	nextFree   map[VKind]int
	used       map[VId]bool
	offsetUsed []bool
	vidToOffset map[VId]uint32
	offsetToVid map[uint32]VId
	unused      map[VKind]map[uint32]struct{}
}

// Bind runs the binding algorithm of spec.md §4.4 against profile, given a
// list of object requests and a packet size. On any invalid parameter the
// call fails all-or-nothing: the caller's previously installed Binding (if
// any) is left completely untouched, since this function only ever builds a
// new Binding in a staging structure and never mutates shared state itself.
//
// This deliberately diverges from the original, which resets the existing
// binding before validating the new one (see DESIGN.md) — by construction
// here there is nothing to reset until Bind returns successfully.
func Bind(profile *Profile, requests []ObjectRequest, packetSize uint32) (*Binding, *Error) {
	if packetSize%4 != 0 || packetSize > MaxPacket {
		return nil, newErr(CodeInvalidParam, "packet size %d is not a multiple of 4 or exceeds MaxPacket", packetSize)
	}

	st := &bindState{
		nextFree: map[VKind]int{KindAxis: 0, KindButton: 0, KindPOV: 0},
		used:     map[VId]bool{},
		offsetUsed: make([]bool, packetSize),
		vidToOffset: map[VId]uint32{},
		offsetToVid: map[uint32]VId{},
		unused:      map[VKind]map[uint32]struct{}{KindAxis: {}, KindButton: {}, KindPOV: {}},
	}

	for _, req := range requests {
		if err := bindOne(profile, st, packetSize, req); err != nil {
			return nil, err
		}
	}

	return &Binding{
		PacketSize:    packetSize,
		vidToOffset:   st.vidToOffset,
		offsetToVid:   st.offsetToVid,
		UnusedOffsets: st.unused,
	}, nil
}

func bindOne(profile *Profile, st *bindState, packetSize uint32, req ObjectRequest) *Error {
	kind := req.KindMask
	if kind != KindAxis && kind != KindButton && kind != KindPOV {
		return newErr(CodeInvalidParam, "ambiguous or unknown object kind")
	}

	size := kind.Size()
	if req.ByteOffset+size > packetSize {
		return newErr(CodeInvalidParam, "offset %d with size %d exceeds packet size %d", req.ByteOffset, size, packetSize)
	}
	for b := req.ByteOffset; b < req.ByteOffset+size; b++ {
		if st.offsetUsed[b] {
			return newErr(CodeInvalidParam, "byte %d claimed by more than one object", b)
		}
	}

	switch kind {
	case KindButton:
		if req.HasIdentity {
			return newErr(CodeInvalidParam, "buttons do not carry a semantic identity")
		}
	case KindPOV:
		if req.HasIdentity {
			return newErr(CodeInvalidParam, "POVs do not carry a semantic identity")
		}
	}

	var vid VId
	var found bool

	switch kind {
	case KindAxis:
		if req.HasIdentity {
			vid, found = resolveByIdentity(profile, st, req.Identity, req.InstanceOrAny)
		} else {
			vid, found = resolveByInstance(profile, st, KindAxis, req.InstanceOrAny)
		}
	default:
		vid, found = resolveByInstance(profile, st, kind, req.InstanceOrAny)
	}

	if !found {
		if req.InstanceOrAny == InstanceAny {
			st.unused[kind][req.ByteOffset] = struct{}{}
			markOffsetClaimed(st, req.ByteOffset, size)
			return nil
		}
		return newErr(CodeInvalidParam, "no free %s instance %d", kind, req.InstanceOrAny)
	}

	st.used[vid] = true
	st.vidToOffset[vid] = req.ByteOffset
	st.offsetToVid[req.ByteOffset] = vid
	markOffsetClaimed(st, req.ByteOffset, size)
	advanceNextFree(profile, st, kind)
	return nil
}

func markOffsetClaimed(st *bindState, offset, size uint32) {
	for b := offset; b < offset+size; b++ {
		st.offsetUsed[b] = true
	}
}

// resolveByInstance finds a free virtual object of kind at a specific
// instance (>= 0 is valid, including index 0 — see Open Question #1 in
// spec.md §9) or, for InstanceAny, the next free one in ascending index
// order.
func resolveByInstance(profile *Profile, st *bindState, kind VKind, instance int) (VId, bool) {
	count := int(profile.CountOf(kind))
	if instance != InstanceAny {
		if instance < 0 || instance >= count {
			return VId{}, false
		}
		vid := VId{Kind: kind, Index: instance}
		if st.used[vid] {
			return VId{}, false
		}
		return vid, true
	}
	for i := st.nextFree[kind]; i < count; i++ {
		vid := VId{Kind: kind, Index: i}
		if !st.used[vid] {
			return vid, true
		}
	}
	return VId{}, false
}

func resolveByIdentity(profile *Profile, st *bindState, identity AxisIdentity, instance int) (VId, bool) {
	if instance != InstanceAny {
		idx, ok := profile.AxisIndexByIdentity(identity, instance)
		if !ok {
			return VId{}, false
		}
		vid := VId{Kind: KindAxis, Index: idx}
		if st.used[vid] {
			return VId{}, false
		}
		return vid, true
	}
	for nth := 0; ; nth++ {
		idx, ok := profile.AxisIndexByIdentity(identity, nth)
		if !ok {
			return VId{}, false
		}
		vid := VId{Kind: KindAxis, Index: idx}
		if !st.used[vid] {
			return vid, true
		}
	}
}

func advanceNextFree(profile *Profile, st *bindState, kind VKind) {
	count := int(profile.CountOf(kind))
	for st.nextFree[kind] < count && st.used[VId{Kind: kind, Index: st.nextFree[kind]}] {
		st.nextFree[kind]++
	}
}

// SortedUnusedOffsets returns the unused offsets of a kind in ascending
// order, convenient for deterministic iteration (e.g. filling POV
// sentinels in the State Writer).
func (b *Binding) SortedUnusedOffsets(kind VKind) []uint32 {
	offs := make([]uint32, 0, len(b.UnusedOffsets[kind]))
	for o := range b.UnusedOffsets[kind] {
		offs = append(offs, o)
	}
	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
	return offs
}
