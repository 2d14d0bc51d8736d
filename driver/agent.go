package driver

import (
	"github.com/sarchlab/throng/actor"
	"github.com/sarchlab/throng/behavior"
	"github.com/sarchlab/throng/naming"
	"github.com/sarchlab/throng/timing"
)

// A BasicAgent wires a timeline, a behavior registry, and an arbitrator into
// a dispatchable agent. Most simulated entities, mobile units as well as
// static ones, only differ in the modules attached and the world view
// handed to them.
type BasicAgent struct {
	naming.NamedBase

	timeline   *actor.Timeline
	arbitrator *behavior.Arbitrator
	view       behavior.WorldView
}

// NewBasicAgent creates an agent with an empty behavior registry.
func NewBasicAgent(
	name string,
	maxIdleDelay timing.VTimeDuration,
) *BasicAgent {
	return &BasicAgent{
		NamedBase:  naming.MakeNamedBase(name),
		timeline:   actor.NewTimeline(name, maxIdleDelay),
		arbitrator: behavior.NewArbitrator(behavior.NewRegistry()),
	}
}

// Timeline returns the scheduling state of the agent.
func (a *BasicAgent) Timeline() *actor.Timeline {
	return a.timeline
}

// Registry returns the behavior registry for attaching modules.
func (a *BasicAgent) Registry() *behavior.Registry {
	return a.arbitrator.Registry()
}

// SetWorldView sets the world slice handed to modules on every think pass.
func (a *BasicAgent) SetWorldView(view behavior.WorldView) {
	a.view = view
}

// Think runs one arbitration pass. It does nothing while an event is
// pending.
func (a *BasicAgent) Think(_ timing.VTimePoint) {
	a.arbitrator.Think(a.timeline, a.view)
}
