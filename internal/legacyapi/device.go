// Package legacyapi composes the Mapper, Data Format Binder, State Writer,
// Event Encoder, Virtual Controller and Property API façade into the single
// object spec.md §6 calls the legacy-API wrapper: the surface a guest
// application actually calls through (setDataFormat, resetDataFormat,
// getCapabilities, enumerateObjects, getProperty/setProperty, getMappedState,
// getBufferedEvents). Nothing in this package implements new transform
// logic; it only sequences calls into internal/core, internal/vcontroller
// and internal/propapi under one lock, matching spec.md §7's up-front-
// validation policy.
package legacyapi

import (
	"sync"

	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/propapi"
	"github.com/xidi-go/xidi/internal/vcontroller"
)

// AllKinds is the enumerateObjects kindMask meaning "every kind", since
// core.VKind has no zero-cost way to express "no filter" among its three
// real values.
const AllKinds core.VKind = -1

// Device is one guest application's view of one Virtual Controller: the
// data format it has bound (if any) plus the property façade layered over
// the same controller.
type Device struct {
	mu sync.Mutex

	ctrl    *vcontroller.Controller
	props   *propapi.Facade
	binding *core.Binding

	triggerCache core.TriggerCache
}

// NewDevice wraps ctrl for legacy-API-style access. No data format is bound
// initially, matching a freshly acquired device before its first
// SetDataFormat call.
func NewDevice(ctrl *vcontroller.Controller) *Device {
	return &Device{
		ctrl:  ctrl,
		props: propapi.New(ctrl),
	}
}

// SetDataFormat installs a new data format, replacing whatever was bound
// before. On failure the previous binding (if any) is left installed,
// mirroring core.Bind's all-or-nothing contract.
func (d *Device) SetDataFormat(requests []core.ObjectRequest, packetSize uint32) *core.Error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := core.Bind(d.ctrl.Profile(), requests, packetSize)
	if err != nil {
		return err
	}
	d.binding = b
	d.props.SetBinding(b)
	return nil
}

// ResetDataFormat clears the currently bound data format. getMappedState
// fails with CodeObjectNotFound until SetDataFormat is called again;
// getBufferedEvents does not depend on a binding and keeps working.
func (d *Device) ResetDataFormat() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.binding = nil
	d.props.SetBinding(nil)
}

// GetCapabilities reports how many of each object kind the bound profile
// exposes, independent of whether a data format is currently installed.
func (d *Device) GetCapabilities() (axes, buttons, povs uint16) {
	p := d.ctrl.Profile()
	return uint16(p.CountOf(core.KindAxis)), uint16(p.CountOf(core.KindButton)), uint16(p.CountOf(core.KindPOV))
}

// EnumerateObjects visits every virtual object whose kind matches kindMask
// (or every object, for AllKinds), each reported with its display name and
// its byte offset under the currently bound data format (core.NoOffset if
// unbound or uncovered) — spec.md §6's enumerateObjects(kindMask, visitor).
func (d *Device) EnumerateObjects(kindMask core.VKind, visit func(core.EnumeratedObject)) {
	d.mu.Lock()
	objs := core.EnumerateWithOffsets(d.ctrl.Profile(), d.binding)
	d.mu.Unlock()

	for _, o := range objs {
		if kindMask != AllKinds && o.VId.Kind != kindMask {
			continue
		}
		visit(o)
	}
}

// Properties exposes the Property API façade directly, as the idiomatic Go
// rendition of spec.md §6's generic getProperty/setProperty pair: callers
// invoke the specific accessor (GetRange, SetDeadzone, ...) for the property
// they want instead of passing a tagged property identifier through a single
// call, a deliberate generalization documented in DESIGN.md.
func (d *Device) Properties() *propapi.Facade {
	return d.props
}

// GetMappedState writes the controller's current transformed state into out
// under the currently bound data format — spec.md §6's getMappedState. It
// fails with CodeObjectNotFound if no data format is installed, and with
// CodeInvalidParam if out is smaller than the bound packet size.
func (d *Device) GetMappedState(out []byte) *core.Error {
	d.mu.Lock()
	b := d.binding
	d.mu.Unlock()
	if b == nil {
		return core.NewError(core.CodeObjectNotFound, "no data format is currently bound")
	}

	s := d.ctrl.GetState()
	return core.WriteSState(b, s, out)
}

// GetBufferedEvents reads the controller's buffered physical events,
// translated through the same Mapper/Event Encoder pipeline GetMappedState
// uses — spec.md §6's getBufferedEvents(outBuf, &inoutCount, peek). With
// peek=true the source's buffered count is left unchanged across the call;
// with peek=false (drain) the consumed events are removed, matching §8
// Universal Invariant 7.
func (d *Device) GetBufferedEvents(peek bool) ([]core.AppEvent, *core.Error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctrl.EncodeBufferedEvents(peek, &d.triggerCache)
}
