package core

// Profile is the immutable, read-only projection table assigning each
// physical XInput element to at most one virtual object. Profiles differ
// only in the contents of these tables; there is no behavior beyond lookup
// — this replaces the original's per-profile subclass hierarchy with a
// plain record.
type Profile struct {
	name string

	axisCount, buttonCount, povCount int
	axisSemantic                    []AxisIdentity

	physToVirt map[PhysElem]VId

	sharedTrigger bool
	sharedDir     map[PhysElem]int32
}

// Name returns the profile's canonical name, as used by §6 profile
// selection.
func (p *Profile) Name() string { return p.name }

// CountOf returns how many virtual objects of the given kind this profile
// exposes.
func (p *Profile) CountOf(kind VKind) uint16 {
	switch kind {
	case KindAxis:
		return uint16(p.axisCount)
	case KindButton:
		return uint16(p.buttonCount)
	case KindPOV:
		return uint16(p.povCount)
	default:
		return 0
	}
}

// AxisSemantic returns the semantic identity of axis i.
func (p *Profile) AxisSemantic(i int) AxisIdentity {
	return p.axisSemantic[i]
}

// Virt returns the virtual object a physical element maps to, or
// AbsentVId if the profile discards it.
func (p *Profile) Virt(phys PhysElem) VId {
	if v, ok := p.physToVirt[phys]; ok {
		return v
	}
	return AbsentVId
}

// IsSharedTriggerAxis reports whether this profile combines LT and RT onto
// a single axis.
func (p *Profile) IsSharedTriggerAxis() bool { return p.sharedTrigger }

// SharedDir returns the signed direction LT or RT contributes to the shared
// axis. Only meaningful when IsSharedTriggerAxis is true.
func (p *Profile) SharedDir(phys PhysElem) (int32, bool) {
	d, ok := p.sharedDir[phys]
	return d, ok
}

// AxisIndexByIdentity returns the nth (0-based) axis index, among the axes
// this profile exposes, whose semantic identity equals identity. Used by
// the Data Format Binder to resolve identity-qualified object requests.
func (p *Profile) AxisIndexByIdentity(identity AxisIdentity, nth int) (int, bool) {
	seen := 0
	for i, id := range p.axisSemantic {
		if id == identity {
			if seen == nth {
				return i, true
			}
			seen++
		}
	}
	return 0, false
}

// Predefined profile names, per spec.md §3/§6.
const (
	ProfileStandardGamepad      = "StandardGamepad"
	ProfileExtendedGamepad      = "ExtendedGamepad"
	ProfileXInputNative         = "XInputNative"
	ProfileXInputSharedTriggers = "XInputSharedTriggers"
)

// standardGamepad exposes the minimal classic DirectInput gamepad shape:
// one stick as X/Y, the face/shoulder/menu buttons, and the d-pad as a POV.
// Triggers are not exposed at all.
var standardGamepad = &Profile{
	name:          ProfileStandardGamepad,
	axisCount:     2,
	buttonCount:   8,
	povCount:      1,
	axisSemantic:  []AxisIdentity{AxisX, AxisY},
	physToVirt: map[PhysElem]VId{
		StickLeftH:  {KindAxis, 0},
		StickLeftV:  {KindAxis, 1},
		ButtonA:     {KindButton, 0},
		ButtonB:     {KindButton, 1},
		ButtonX:     {KindButton, 2},
		ButtonY:     {KindButton, 3},
		ButtonLB:    {KindButton, 4},
		ButtonRB:    {KindButton, 5},
		ButtonBack:  {KindButton, 6},
		ButtonStart: {KindButton, 7},
		Dpad:        {KindPOV, 0},
	},
}

// extendedGamepad adds the right stick and the two stick-click buttons, and
// represents the triggers as two extra digital buttons rather than axes.
var extendedGamepad = &Profile{
	name:         ProfileExtendedGamepad,
	axisCount:    4,
	buttonCount:  12,
	povCount:     1,
	axisSemantic: []AxisIdentity{AxisX, AxisY, AxisRX, AxisRY},
	physToVirt: map[PhysElem]VId{
		StickLeftH:       {KindAxis, 0},
		StickLeftV:       {KindAxis, 1},
		StickRightH:      {KindAxis, 2},
		StickRightV:      {KindAxis, 3},
		ButtonA:          {KindButton, 0},
		ButtonB:          {KindButton, 1},
		ButtonX:          {KindButton, 2},
		ButtonY:          {KindButton, 3},
		ButtonLB:         {KindButton, 4},
		ButtonRB:         {KindButton, 5},
		ButtonBack:       {KindButton, 6},
		ButtonStart:      {KindButton, 7},
		ButtonLeftStick:  {KindButton, 8},
		ButtonRightStick: {KindButton, 9},
		TriggerLT:        {KindButton, 10},
		TriggerRT:        {KindButton, 11},
		Dpad:             {KindPOV, 0},
	},
}

// xInputNative exposes every physical element at full fidelity: both
// sticks, both triggers as independent axes, all ten buttons, and the POV.
var xInputNative = &Profile{
	name:         ProfileXInputNative,
	axisCount:    6,
	buttonCount:  10,
	povCount:     1,
	axisSemantic: []AxisIdentity{AxisX, AxisY, AxisRX, AxisRY, AxisZ, AxisRZ},
	physToVirt: map[PhysElem]VId{
		StickLeftH:       {KindAxis, 0},
		StickLeftV:       {KindAxis, 1},
		StickRightH:      {KindAxis, 2},
		StickRightV:      {KindAxis, 3},
		TriggerLT:        {KindAxis, 4},
		TriggerRT:        {KindAxis, 5},
		ButtonA:          {KindButton, 0},
		ButtonB:          {KindButton, 1},
		ButtonX:          {KindButton, 2},
		ButtonY:          {KindButton, 3},
		ButtonLB:         {KindButton, 4},
		ButtonRB:         {KindButton, 5},
		ButtonBack:       {KindButton, 6},
		ButtonStart:      {KindButton, 7},
		ButtonLeftStick:  {KindButton, 8},
		ButtonRightStick: {KindButton, 9},
		Dpad:             {KindPOV, 0},
	},
}

// xInputSharedTriggers is identical to xInputNative except LT and RT are
// combined onto a single signed Z axis, matching the legacy DirectInput
// convention of one "Z axis" covering both triggers in opposite directions.
var xInputSharedTriggers = &Profile{
	name:         ProfileXInputSharedTriggers,
	axisCount:    5,
	buttonCount:  10,
	povCount:     1,
	axisSemantic: []AxisIdentity{AxisX, AxisY, AxisRX, AxisRY, AxisZ},
	physToVirt: map[PhysElem]VId{
		StickLeftH:       {KindAxis, 0},
		StickLeftV:       {KindAxis, 1},
		StickRightH:      {KindAxis, 2},
		StickRightV:      {KindAxis, 3},
		TriggerLT:        {KindAxis, 4},
		TriggerRT:        {KindAxis, 4},
		ButtonA:          {KindButton, 0},
		ButtonB:          {KindButton, 1},
		ButtonX:          {KindButton, 2},
		ButtonY:          {KindButton, 3},
		ButtonLB:         {KindButton, 4},
		ButtonRB:         {KindButton, 5},
		ButtonBack:       {KindButton, 6},
		ButtonStart:      {KindButton, 7},
		ButtonLeftStick:  {KindButton, 8},
		ButtonRightStick: {KindButton, 9},
		Dpad:             {KindPOV, 0},
	},
	sharedTrigger: true,
	sharedDir: map[PhysElem]int32{
		TriggerLT: +1,
		TriggerRT: -1,
	},
}

// profilesByName indexes the four predefined profiles by their canonical
// name for §6 profile selection.
var profilesByName = map[string]*Profile{
	ProfileStandardGamepad:      standardGamepad,
	ProfileExtendedGamepad:      extendedGamepad,
	ProfileXInputNative:         xInputNative,
	ProfileXInputSharedTriggers: xInputSharedTriggers,
}

// LookupProfile resolves a configuration key to one of the four predefined
// profiles. An unrecognised key falls back to XInputNative, per §6.
func LookupProfile(name string) *Profile {
	if p, ok := profilesByName[name]; ok {
		return p
	}
	return xInputNative
}
