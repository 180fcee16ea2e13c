// Package propapi implements the Property API façade of spec.md §4.8: a
// small set of property kinds (AxisMode, Range, Deadzone, Saturation)
// addressed through one of three target specifiers (whole-device,
// by-virtual-id, by-byte-offset).
package propapi

import (
	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/vcontroller"
)

// AxisMode is the only property whose value is not a numeric range; this
// engine only ever reports/accepts Absolute, per §4.8.
type AxisMode int

const (
	AxisModeAbsolute AxisMode = iota
	AxisModeRelative
)

// TargetKind selects how a property operation addresses its object.
type TargetKind int

const (
	TargetWholeDevice TargetKind = iota
	TargetVId
	TargetOffset
)

// Target is the property operation's addressing mode.
type Target struct {
	Kind   TargetKind
	VId    core.VId
	Offset uint32
}

// WholeDevice, ByVId and ByOffset are convenience constructors for Target.
func WholeDevice() Target              { return Target{Kind: TargetWholeDevice} }
func ByVId(v core.VId) Target          { return Target{Kind: TargetVId, VId: v} }
func ByOffset(offset uint32) Target    { return Target{Kind: TargetOffset, Offset: offset} }

// Range is the Range property's value shape.
type Range struct {
	Min, Max int32
}

// Facade is the Property API entry point for one Virtual Controller. A
// Binding set via SetBinding lets by-byte-offset targets resolve; without
// one, by-byte-offset operations fail with CodeObjectNotFound.
type Facade struct {
	ctrl    *vcontroller.Controller
	binding *core.Binding
}

// New constructs a Facade over ctrl. No binding is installed initially.
func New(ctrl *vcontroller.Controller) *Facade {
	return &Facade{ctrl: ctrl}
}

// SetBinding installs (or, with nil, clears) the data format binding used to
// resolve by-byte-offset targets.
func (f *Facade) SetBinding(b *core.Binding) {
	f.binding = b
}

// resolveAxis turns a Target into an axis index, for every property kind
// except AxisMode (which is always whole-device).
func (f *Facade) resolveAxis(target Target) (int, *core.Error) {
	switch target.Kind {
	case TargetVId:
		if target.VId.Kind != core.KindAxis {
			return 0, core.NewError(core.CodeInvalidParam, "target is not an axis")
		}
		if target.VId.Index < 0 || target.VId.Index >= int(f.ctrl.Profile().CountOf(core.KindAxis)) {
			return 0, core.NewError(core.CodeObjectNotFound, "no axis at index %d", target.VId.Index)
		}
		return target.VId.Index, nil
	case TargetOffset:
		if f.binding == nil {
			return 0, core.NewError(core.CodeObjectNotFound, "no data format is currently bound")
		}
		vid, ok := f.binding.VIdAt(target.Offset)
		if !ok || vid.Kind != core.KindAxis {
			return 0, core.NewError(core.CodeObjectNotFound, "no axis bound at offset %d", target.Offset)
		}
		return vid.Index, nil
	default:
		return 0, core.NewError(core.CodeInvalidParam, "Range/Deadzone/Saturation reads require a specific target")
	}
}

// GetAxisMode always returns Absolute; this engine never implements
// relative axis reporting.
func (f *Facade) GetAxisMode(target Target) (AxisMode, *core.Error) {
	if target.Kind != TargetWholeDevice {
		return 0, core.NewError(core.CodeInvalidParam, "AxisMode requires the whole-device target")
	}
	return AxisModeAbsolute, nil
}

// SetAxisMode accepts only Absolute, and even then has no effect (this
// engine never implements anything else), mirroring the original's
// DI_PROPNOEFFECT for DIPROPAXISMODE_ABS — a distinct outcome from plain
// success per spec.md §7. Any other value is unsupported.
func (f *Facade) SetAxisMode(target Target, mode AxisMode) *core.Error {
	if target.Kind != TargetWholeDevice {
		return core.NewError(core.CodeInvalidParam, "AxisMode requires the whole-device target")
	}
	if mode != AxisModeAbsolute {
		return core.NewError(core.CodeUnsupported, "only AxisMode = Absolute is implemented")
	}
	return core.NewError(core.CodeNoEffect, "AxisMode is always Absolute; setting it has no effect")
}

// GetRange reads one axis's configured output range.
func (f *Facade) GetRange(target Target) (Range, *core.Error) {
	idx, err := f.resolveAxis(target)
	if err != nil {
		return Range{}, err
	}
	var p core.AxisProperties
	f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
		p = axes.Get(idx)
	})
	return Range{Min: p.RangeMin, Max: p.RangeMax}, nil
}

// SetRange writes one axis's output range, or every axis's if target is
// whole-device.
func (f *Facade) SetRange(target Target, r Range) *core.Error {
	if target.Kind == TargetWholeDevice {
		var ok bool
		f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
			ok = axes.SetAllRange(r.Min, r.Max)
		})
		if !ok {
			return core.NewError(core.CodeInvalidParam, "range [%d, %d] is invalid", r.Min, r.Max)
		}
		return nil
	}
	idx, err := f.resolveAxis(target)
	if err != nil {
		return err
	}
	var ok bool
	f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
		ok = axes.SetRange(idx, r.Min, r.Max)
	})
	if !ok {
		return core.NewError(core.CodeInvalidParam, "range [%d, %d] is invalid", r.Min, r.Max)
	}
	return nil
}

// GetDeadzone reads one axis's deadzone percentage.
func (f *Facade) GetDeadzone(target Target) (uint32, *core.Error) {
	idx, err := f.resolveAxis(target)
	if err != nil {
		return 0, err
	}
	var d uint32
	f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
		d = axes.Get(idx).Deadzone
	})
	return d, nil
}

// SetDeadzone writes one axis's deadzone, or every axis's if target is
// whole-device.
func (f *Facade) SetDeadzone(target Target, d uint32) *core.Error {
	if target.Kind == TargetWholeDevice {
		var ok bool
		f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
			ok = axes.SetAllDeadzone(d)
		})
		if !ok {
			return core.NewError(core.CodeInvalidParam, "deadzone %d is out of bounds", d)
		}
		return nil
	}
	idx, err := f.resolveAxis(target)
	if err != nil {
		return err
	}
	var ok bool
	f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
		ok = axes.SetDeadzone(idx, d)
	})
	if !ok {
		return core.NewError(core.CodeInvalidParam, "deadzone %d is out of bounds", d)
	}
	return nil
}

// GetSaturation reads one axis's saturation percentage.
func (f *Facade) GetSaturation(target Target) (uint32, *core.Error) {
	idx, err := f.resolveAxis(target)
	if err != nil {
		return 0, err
	}
	var s uint32
	f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
		s = axes.Get(idx).Saturation
	})
	return s, nil
}

// SetSaturation writes one axis's saturation, or every axis's if target is
// whole-device.
func (f *Facade) SetSaturation(target Target, s uint32) *core.Error {
	if target.Kind == TargetWholeDevice {
		var ok bool
		f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
			ok = axes.SetAllSaturation(s)
		})
		if !ok {
			return core.NewError(core.CodeInvalidParam, "saturation %d is out of bounds", s)
		}
		return nil
	}
	idx, err := f.resolveAxis(target)
	if err != nil {
		return err
	}
	var ok bool
	f.ctrl.WithAxesLocked(func(axes *core.AxisTable) {
		ok = axes.SetSaturation(idx, s)
	})
	if !ok {
		return core.NewError(core.CodeInvalidParam, "saturation %d is out of bounds", s)
	}
	return nil
}
