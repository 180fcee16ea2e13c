package core

// XInput button bitmask layout, as reported in Snapshot.ButtonBits.
const (
	BitDpadUp uint16 = 1 << iota
	BitDpadDown
	BitDpadLeft
	BitDpadRight
	BitStart
	BitBack
	BitLeftThumb
	BitRightThumb
	BitLB
	BitRB
	_reserved1
	_reserved2
	BitA
	BitB
	BitX
	BitY
)

func bitFor(p PhysElem) (uint16, bool) {
	switch p {
	case ButtonA:
		return BitA, true
	case ButtonB:
		return BitB, true
	case ButtonX:
		return BitX, true
	case ButtonY:
		return BitY, true
	case ButtonLB:
		return BitLB, true
	case ButtonRB:
		return BitRB, true
	case ButtonBack:
		return BitBack, true
	case ButtonStart:
		return BitStart, true
	case ButtonLeftStick:
		return BitLeftThumb, true
	case ButtonRightStick:
		return BitRightThumb, true
	default:
		return 0, false
	}
}

// dpadPOV converts the four d-pad bits into a POV angle in hundredths of a
// degree, per spec.md §4.5. Any combination other than a single direction or
// two adjacent directions yields the centred sentinel.
func dpadPOV(buttonBits uint16) int32 {
	up := buttonBits&BitDpadUp != 0
	down := buttonBits&BitDpadDown != 0
	left := buttonBits&BitDpadLeft != 0
	right := buttonBits&BitDpadRight != 0

	switch {
	case up && !down && !left && !right:
		return 0
	case up && right && !down && !left:
		return 4500
	case right && !up && !down && !left:
		return 9000
	case right && down && !up && !left:
		return 13500
	case down && !up && !left && !right:
		return 18000
	case down && left && !up && !right:
		return 22500
	case left && !up && !down && !right:
		return 27000
	case left && up && !down && !right:
		return 31500
	default:
		return POVCentered
	}
}
