package actor

import (
	"fmt"
	"log"

	"github.com/sarchlab/throng/hooking"
	"github.com/sarchlab/throng/naming"
	"github.com/sarchlab/throng/timing"
)

// DefaultMaxIdleDelay bounds how far in the future an idle actor's next wake
// time lies.
const DefaultMaxIdleDelay = timing.VTimeDuration(10)

// A Timeline is the scheduling state of one actor. It owns zero or one
// pending event at any instant and enforces the preemption policy that
// decides when a proposal replaces it. The pending-event slot is exclusively
// owned by the timeline; cross-actor effects must go through SetNextEvent.
//
// Timelines are single-threaded by design. The driver advances exactly one
// actor at a time, so no locking happens here.
type Timeline struct {
	hooking.HookableBase
	naming.NamedBase

	now            timing.VTimePoint
	last           timing.VTimePoint
	pending        *ScheduledEvent
	maxIdleDelay   timing.VTimeDuration
	nextGeneration uint64
	everScheduled  bool
}

// NewTimeline creates the scheduling state for one actor. maxIdleDelay
// bounds the synthesized idle event and must be positive.
func NewTimeline(
	name string,
	maxIdleDelay timing.VTimeDuration,
) *Timeline {
	if maxIdleDelay <= 0 {
		log.Panicf("timeline %s created with non-positive max idle delay",
			name)
	}

	t := &Timeline{
		NamedBase:    naming.MakeNamedBase(name),
		maxIdleDelay: maxIdleDelay,
	}

	return t
}

// Now returns the time the timeline is currently at.
func (t *Timeline) Now() timing.VTimePoint {
	return t.now
}

// LastTime returns the last time the timeline was simulated to.
func (t *Timeline) LastTime() timing.VTimePoint {
	return t.last
}

// MaxIdleDelay returns the idle wake bound of the timeline.
func (t *Timeline) MaxIdleDelay() timing.VTimeDuration {
	return t.maxIdleDelay
}

// Pending returns the committed event the actor is currently bound to, or
// nil.
func (t *Timeline) Pending() *ScheduledEvent {
	return t.pending
}

// Propose builds a candidate event starting at the timeline's current time.
// The candidate is not committed; pass it to SetNextEvent.
func (t *Timeline) Propose(
	label string,
	priority int,
	d timing.VTimeDuration,
	preAction, postAction Action,
) *ScheduledEvent {
	return NewCandidate(t.now, label, priority, d, preAction, postAction)
}

// SetNextEvent runs the preemption policy on a candidate and returns true if
// the candidate is, or already was, the pending event.
//
// A candidate that is the committed pending event itself is a no-op. With
// nothing pending the candidate is accepted unconditionally. Otherwise a
// strictly higher priority preempts, a strictly lower priority is rejected,
// and an equal priority is decided by the sooner end time. Rejection is a
// soft failure: the committed action keeps running and the drop is reported
// through hooks only.
func (t *Timeline) SetNextEvent(candidate *ScheduledEvent) bool {
	if candidate == nil {
		return false
	}

	if candidate.Same(t.pending) {
		return true
	}

	if t.everScheduled {
		t.mustContainNow(candidate)
	}

	if t.pending == nil {
		t.commit(candidate)
		return true
	}

	pending := t.pending

	switch {
	case candidate.priority > pending.priority:
		t.preempt(candidate, "dropped lower-priority event")
		return true
	case candidate.priority < pending.priority:
		t.drop(candidate, "dropped lower-priority proposal")
		return false
	case candidate.end.Before(pending.end):
		t.preempt(candidate, "dropped later event")
		return true
	default:
		t.drop(candidate, "dropped later event")
		return false
	}
}

// NextEvent returns the pending event, or synthesizes a trivial idle event
// when nothing is pending. The idle event is not installed; it only
// guarantees that the timeline always yields a deterministic, finite wake
// time.
func (t *Timeline) NextEvent() *ScheduledEvent {
	if t.pending != nil {
		return t.pending
	}

	return NewCandidate(t.now, IdleLabel, IdlePriority, t.maxIdleDelay,
		nil, nil)
}

// NextWakeTime returns the next time the actor must be advanced to: the end
// of the pending event, or now plus the idle bound.
func (t *Timeline) NextWakeTime() timing.VTimePoint {
	if t.pending != nil {
		return t.pending.end
	}

	return t.now.Add(t.maxIdleDelay)
}

// SimulateTo advances the timeline to the given time. Moving backward is a
// fatal TimeTravelError. Entering the pending event's window fires its
// pre-action once; reaching its end fires the post-action and clears the
// pending slot. The actor's own state update between those points belongs to
// external collaborators.
func (t *Timeline) SimulateTo(to timing.VTimePoint) error {
	_, err := to.Sub(t.last)
	if err != nil {
		t.InvokeHook(hooking.HookCtx{
			Domain: t,
			Pos:    HookPosTimeTravel,
			Item:   to,
			Detail: err,
		})

		return err
	}

	// The clock moves even when an action fails, so an aborted run still
	// reports a consistent now/last pair.
	t.now = to
	t.last = to

	return t.servicePending(to)
}

func (t *Timeline) servicePending(to timing.VTimePoint) error {
	pending := t.pending
	if pending == nil {
		return nil
	}

	if !pending.invoked && !to.Before(pending.start) {
		pending.invoked = true

		t.InvokeHook(hooking.HookCtx{
			Domain: t,
			Pos:    HookPosEventStarted,
			Item:   pending,
		})

		if pending.preAction != nil {
			if err := pending.preAction.Run(to); err != nil {
				return fmt.Errorf("pre-action of %s: %w", pending.label, err)
			}
		}
	}

	if pending.invoked && !to.Before(pending.end) {
		// Clear before firing so the post-action can install a follow-up.
		t.pending = nil

		t.InvokeHook(hooking.HookCtx{
			Domain: t,
			Pos:    HookPosEventServiced,
			Item:   pending,
		})

		if pending.postAction != nil {
			if err := pending.postAction.Run(to); err != nil {
				return fmt.Errorf("post-action of %s: %w", pending.label, err)
			}
		}
	}

	return nil
}

// Clear voids the pending event without firing any callback and returns it.
// It models an external action that invalidates the actor's scheduling
// context, such as the actor leaving its current location.
func (t *Timeline) Clear() *ScheduledEvent {
	pending := t.pending
	if pending == nil {
		return nil
	}

	t.pending = nil

	t.InvokeHook(hooking.HookCtx{
		Domain: t,
		Pos:    HookPosEventVoided,
		Item:   pending,
	})

	return pending
}

func (t *Timeline) commit(candidate *ScheduledEvent) {
	if candidate.generation == 0 {
		t.nextGeneration++
		candidate.generation = t.nextGeneration
	}

	t.pending = candidate
	t.everScheduled = true

	t.InvokeHook(hooking.HookCtx{
		Domain: t,
		Pos:    HookPosEventCommitted,
		Item:   candidate,
	})
}

func (t *Timeline) preempt(candidate *ScheduledEvent, reason string) {
	discarded := t.pending
	t.pending = nil

	t.InvokeHook(hooking.HookCtx{
		Domain: t,
		Pos:    HookPosEventPreempted,
		Item:   discarded,
		Detail: reason,
	})

	t.commit(candidate)
}

func (t *Timeline) drop(candidate *ScheduledEvent, reason string) {
	t.InvokeHook(hooking.HookCtx{
		Domain: t,
		Pos:    HookPosProposalDropped,
		Item:   candidate,
		Detail: reason,
	})
}

func (t *Timeline) mustContainNow(candidate *ScheduledEvent) {
	if candidate.start.After(t.now) || candidate.end.Before(t.now) {
		log.Panicf(
			"timeline %s: candidate %s does not contain the current time %s",
			t.Name(), candidate, t.now)
	}
}
