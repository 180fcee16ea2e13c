package core

import "testing"

func TestRemapPreservesEndpoints(t *testing.T) {
	cases := []struct {
		a0, a1, b0, b1 int32
	}{
		{-32768, 32767, -1000, 1000},
		{0, 255, -32768, 32767},
		{-255, 255, 0, 10000},
	}
	for _, c := range cases {
		if got := Remap(c.a0, c.a0, c.a1, c.b0, c.b1); got != c.b0 {
			t.Errorf("Remap(%d) = %d, want %d (b0)", c.a0, got, c.b0)
		}
		if got := Remap(c.a1, c.a0, c.a1, c.b0, c.b1); got != c.b1 {
			t.Errorf("Remap(%d) = %d, want %d (b1)", c.a1, got, c.b1)
		}
	}
}

func TestInvertIsInvolution(t *testing.T) {
	lo, hi := int32(StickRangeMin), int32(StickRangeMax)
	for _, v := range []int32{lo, hi, 0, 12345, -12345} {
		if got := Invert(Invert(v, lo, hi), lo, hi); got != v {
			t.Errorf("Invert(Invert(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestVKindSize(t *testing.T) {
	if KindAxis.Size() != 4 {
		t.Errorf("axis size = %d, want 4", KindAxis.Size())
	}
	if KindButton.Size() != 1 {
		t.Errorf("button size = %d, want 1", KindButton.Size())
	}
	if KindPOV.Size() != 4 {
		t.Errorf("pov size = %d, want 4", KindPOV.Size())
	}
}

func TestAbsentVId(t *testing.T) {
	if !AbsentVId.IsAbsent() {
		t.Error("AbsentVId.IsAbsent() = false, want true")
	}
	if (VId{Kind: KindAxis, Index: 0}).IsAbsent() {
		t.Error("a real VId reported as absent")
	}
}
