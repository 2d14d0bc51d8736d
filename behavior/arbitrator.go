package behavior

import (
	"github.com/sarchlab/throng/actor"
	"github.com/sarchlab/throng/hooking"
	"github.com/sarchlab/throng/timing"
)

// An Arbitrator runs the per-actor think pass: it consults the registry in
// priority order and installs the first proposal through the timeline's
// preemption policy.
type Arbitrator struct {
	registry *Registry
}

// NewArbitrator creates an Arbitrator over a registry.
func NewArbitrator(registry *Registry) *Arbitrator {
	return &Arbitrator{registry: registry}
}

// Registry returns the registry the arbitrator consults.
func (a *Arbitrator) Registry() *Registry {
	return a.registry
}

// Think runs one arbitration pass on a timeline that has nothing pending.
// The first module to return a proposal wins and the iteration stops; lower
// ranked modules are never queried. The installed event is returned, or nil
// if the actor stays idle this cycle.
//
// With an event already pending the pass is skipped entirely; the committed
// action keeps running until it is serviced or preempted out-of-band.
func (a *Arbitrator) Think(
	timeline *actor.Timeline,
	view WorldView,
) *actor.ScheduledEvent {
	if timeline.Pending() != nil {
		return nil
	}

	now := timeline.Now()

	for _, m := range a.registry.Modules() {
		candidate := a.propose(m, timeline, now, view)
		if candidate == nil {
			continue
		}

		if timeline.SetNextEvent(candidate) {
			return candidate
		}

		return nil
	}

	return nil
}

// propose queries one module, converting a panic into "no proposal this
// tick" so a misbehaving module cannot corrupt the registry order or leave
// the timeline with two pending events.
func (a *Arbitrator) propose(
	m Module,
	timeline *actor.Timeline,
	now timing.VTimePoint,
	view WorldView,
) (candidate *actor.ScheduledEvent) {
	defer func() {
		if r := recover(); r != nil {
			candidate = nil

			timeline.InvokeHook(hooking.HookCtx{
				Domain: timeline,
				Pos:    HookPosModulePanicked,
				Item:   m.Name(),
				Detail: r,
			})
		}
	}()

	return m.Propose(now, view)
}
