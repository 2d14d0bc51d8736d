// Package actor implements per-actor scheduling state: the single pending
// event an actor commits to, the policy that decides when a new proposal
// preempts it, and the liveness guarantee that an actor always has a finite
// next wake time.
package actor

import (
	"fmt"
	"log"
	"math"

	"github.com/sarchlab/throng/id"
	"github.com/sarchlab/throng/serialization"
	"github.com/sarchlab/throng/timing"
)

// IdleLabel is the label of synthesized idle events.
const IdleLabel = "idle"

// IdlePriority is the priority of synthesized idle events. Any real proposal
// outranks it.
const IdlePriority = math.MinInt

// A ScheduledEvent is a candidate or committed action of one actor. Higher
// priority means more urgent. The window [Start, End] covers the full span of
// the action; the pre-action fires when the window is entered and the
// post-action fires when it is exited.
type ScheduledEvent struct {
	id         string
	generation uint64
	label      string
	priority   int
	start      timing.VTimePoint
	end        timing.VTimePoint
	preAction  Action
	postAction Action
	invoked    bool
}

// NewCandidate builds an uncommitted event starting now and ending after d.
// A negative duration is a caller contract error.
func NewCandidate(
	now timing.VTimePoint,
	label string,
	priority int,
	d timing.VTimeDuration,
	preAction, postAction Action,
) *ScheduledEvent {
	if d < 0 {
		log.Panicf("event %s proposed with negative duration %f", label, d)
	}

	return &ScheduledEvent{
		id:         id.Generate(),
		label:      label,
		priority:   priority,
		start:      now,
		end:        now.Add(d),
		preAction:  preAction,
		postAction: postAction,
	}
}

// ID returns the globally unique trace ID of the event.
func (e *ScheduledEvent) ID() string {
	return e.id
}

// Label returns the human-readable name of the action.
func (e *ScheduledEvent) Label() string {
	return e.label
}

// Priority returns the urgency rank of the event.
func (e *ScheduledEvent) Priority() int {
	return e.priority
}

// Start returns the time the action begins.
func (e *ScheduledEvent) Start() timing.VTimePoint {
	return e.start
}

// End returns the time the action completes.
func (e *ScheduledEvent) End() timing.VTimePoint {
	return e.end
}

// Invoked reports whether the pre-action already fired.
func (e *ScheduledEvent) Invoked() bool {
	return e.invoked
}

// Generation returns the commit generation of the event, or 0 if the event
// was never committed to a timeline.
func (e *ScheduledEvent) Generation() uint64 {
	return e.generation
}

// Same reports whether two events are the same committed event. Identity is
// by generation value, not by pointer, so it survives serialization.
func (e *ScheduledEvent) Same(o *ScheduledEvent) bool {
	if e == nil || o == nil {
		return false
	}

	return e.generation != 0 && e.generation == o.generation
}

func (e *ScheduledEvent) String() string {
	return fmt.Sprintf("%s(priority=%d, window=[%s, %s])",
		e.label, e.priority, e.start, e.end)
}

func (e *ScheduledEvent) encode() (map[string]any, error) {
	pre, err := encodeAction(e.preAction)
	if err != nil {
		return nil, fmt.Errorf("pre-action of %s: %w", e.label, err)
	}

	post, err := encodeAction(e.postAction)
	if err != nil {
		return nil, fmt.Errorf("post-action of %s: %w", e.label, err)
	}

	return map[string]any{
		"id":         e.id,
		"generation": e.generation,
		"label":      e.label,
		"priority":   e.priority,
		"start":      float64(e.start),
		"end":        float64(e.end),
		"invoked":    e.invoked,
		"preAction":  pre,
		"postAction": post,
	}, nil
}

func decodeEvent(data map[string]any) (*ScheduledEvent, error) {
	e := &ScheduledEvent{}

	var err error

	if e.id, err = serialization.AsString(data["id"]); err != nil {
		return nil, err
	}

	if e.generation, err = serialization.AsUint64(data["generation"]); err != nil {
		return nil, err
	}

	if e.label, err = serialization.AsString(data["label"]); err != nil {
		return nil, err
	}

	if e.priority, err = serialization.AsInt(data["priority"]); err != nil {
		return nil, err
	}

	start, err := serialization.AsFloat64(data["start"])
	if err != nil {
		return nil, err
	}

	end, err := serialization.AsFloat64(data["end"])
	if err != nil {
		return nil, err
	}

	e.start = timing.VTimePoint(start)
	e.end = timing.VTimePoint(end)

	if e.invoked, err = serialization.AsBool(data["invoked"]); err != nil {
		return nil, err
	}

	if e.preAction, err = decodeActionField(data["preAction"]); err != nil {
		return nil, fmt.Errorf("pre-action of %s: %w", e.label, err)
	}

	if e.postAction, err = decodeActionField(data["postAction"]); err != nil {
		return nil, fmt.Errorf("post-action of %s: %w", e.label, err)
	}

	return e, nil
}
