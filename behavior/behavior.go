// Package behavior arbitrates among pluggable behavior modules ranked by
// urgency. Modules propose events; the highest-ranked proposal is committed
// to the actor's timeline. Emergent behavior, such as fleeing always
// overriding attacking, comes purely from the priority ordering.
package behavior

import (
	"github.com/sarchlab/throng/actor"
	"github.com/sarchlab/throng/hooking"
	"github.com/sarchlab/throng/naming"
	"github.com/sarchlab/throng/timing"
)

// A WorldView is whatever slice of the world a module is allowed to observe.
// The arbitration core passes it through untouched.
type WorldView interface{}

// A Module is one behavior an actor can exhibit.
//
// A module must not assume it is consulted on every tick; the arbitrator only
// runs when nothing is pending. Propose must be side-effect free, as it may
// be called repeatedly for the same instant. A module may also install an
// event out-of-band in reaction to an external notification, but such
// installs must go through Timeline.SetNextEvent so the preemption ordering
// holds uniformly.
type Module interface {
	naming.Named

	// Priority is the urgency rank of the module. Higher ranks are consulted
	// first. Observed ranges in practice: survival around 700-1000, combat
	// and coercion 400-700, opportunistic economic behavior 100-300,
	// fallbacks below 100. The scale is open, not a fixed enum.
	Priority() int

	// Propose returns a candidate event anchored at now, or nil when the
	// module has nothing to do.
	Propose(now timing.VTimePoint, view WorldView) *actor.ScheduledEvent
}

// An OrderObserver is a module that maintains cached state keyed to the
// registry ordering and wants to know when the order changed.
type OrderObserver interface {
	NotifyReordered()
}

// HookPosModulePanicked triggers when a module panics during arbitration.
// The panic is swallowed and the module is treated as having proposed
// nothing this tick. The Item is the module name; the Detail is the
// recovered value.
var HookPosModulePanicked = &hooking.HookPos{Name: "ModulePanicked"}
