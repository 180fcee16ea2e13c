package core

import "testing"

func TestObjectNameAxisIdentities(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	cases := []struct {
		index int
		want  string
	}{
		{0, "X Axis"},
		{1, "Y Axis"},
		{2, "RotX Axis"},
		{3, "RotY Axis"},
		{4, "Z Axis"},
		{5, "RotZ Axis"},
	}
	for _, c := range cases {
		got := ObjectName(p, VId{Kind: KindAxis, Index: c.index})
		if got != c.want {
			t.Errorf("ObjectName(axis %d) = %q, want %q", c.index, got, c.want)
		}
	}
}

func TestObjectNameButtonsAndPOVsAreOneIndexed(t *testing.T) {
	p := LookupProfile(ProfileXInputNative)
	if got := ObjectName(p, VId{Kind: KindButton, Index: 0}); got != "Button 1" {
		t.Errorf("ObjectName(button 0) = %q, want %q", got, "Button 1")
	}
	if got := ObjectName(p, VId{Kind: KindPOV, Index: 0}); got != "POV 1" {
		t.Errorf("ObjectName(pov 0) = %q, want %q", got, "POV 1")
	}
}

func TestEnumerateObjectsOrderIsKindMajor(t *testing.T) {
	p := LookupProfile(ProfileStandardGamepad)
	ids := EnumerateObjects(p)
	if len(ids) != 2+8+1 {
		t.Fatalf("got %d objects, want %d", len(ids), 11)
	}
	for i := 0; i < 2; i++ {
		if ids[i].Kind != KindAxis {
			t.Errorf("object %d kind = %v, want KindAxis", i, ids[i].Kind)
		}
	}
	for i := 2; i < 10; i++ {
		if ids[i].Kind != KindButton {
			t.Errorf("object %d kind = %v, want KindButton", i, ids[i].Kind)
		}
	}
	if ids[10].Kind != KindPOV {
		t.Errorf("object 10 kind = %v, want KindPOV", ids[10].Kind)
	}
}

func TestEnumerateWithOffsetsReportsNoOffsetWithoutBinding(t *testing.T) {
	p := LookupProfile(ProfileStandardGamepad)
	objs := EnumerateWithOffsets(p, nil)
	for _, o := range objs {
		if o.Offset != NoOffset {
			t.Errorf("object %+v offset = %d without a binding, want NoOffset", o.VId, o.Offset)
		}
	}
}

func TestEnumerateWithOffsetsReportsBoundOffset(t *testing.T) {
	p := LookupProfile(ProfileStandardGamepad)
	b, err := Bind(p, []ObjectRequest{
		{KindMask: KindAxis, InstanceOrAny: 0, ByteOffset: 0},
	}, 4)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	objs := EnumerateWithOffsets(p, b)
	found := false
	for _, o := range objs {
		if o.VId == (VId{Kind: KindAxis, Index: 0}) {
			found = true
			if o.Offset != 0 {
				t.Errorf("axis 0 offset = %d, want 0", o.Offset)
			}
		} else if o.Offset != NoOffset {
			t.Errorf("object %+v offset = %d, want NoOffset", o.VId, o.Offset)
		}
	}
	if !found {
		t.Fatal("axis 0 not found in enumeration")
	}
}
