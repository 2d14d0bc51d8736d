package actor

import (
	"fmt"

	"github.com/sarchlab/throng/naming"
	"github.com/sarchlab/throng/serialization"
	"github.com/sarchlab/throng/timing"
)

func init() {
	if err := serialization.RegisterType(&Timeline{}); err != nil {
		panic(err)
	}
}

// ID returns the actor name the timeline persists under.
func (t *Timeline) ID() string {
	return t.Name()
}

// Serialize captures the full scheduling state of the actor: its clock, the
// pending event with its invoked flag, and the generation counter. A restore
// from this map resumes mid-action without re-firing the pre-action.
func (t *Timeline) Serialize() (map[string]any, error) {
	data := map[string]any{
		"name":           t.Name(),
		"now":            float64(t.now),
		"last":           float64(t.last),
		"maxIdleDelay":   float64(t.maxIdleDelay),
		"nextGeneration": t.nextGeneration,
		"everScheduled":  t.everScheduled,
	}

	if t.pending != nil {
		pending, err := t.pending.encode()
		if err != nil {
			return nil, fmt.Errorf("timeline %s: %w", t.Name(), err)
		}

		data["pending"] = pending
	}

	return data, nil
}

// Deserialize restores the scheduling state captured by Serialize.
func (t *Timeline) Deserialize(data map[string]any) error {
	name, err := serialization.AsString(data["name"])
	if err != nil {
		return err
	}

	now, err := serialization.AsFloat64(data["now"])
	if err != nil {
		return err
	}

	last, err := serialization.AsFloat64(data["last"])
	if err != nil {
		return err
	}

	maxIdleDelay, err := serialization.AsFloat64(data["maxIdleDelay"])
	if err != nil {
		return err
	}

	nextGeneration, err := serialization.AsUint64(data["nextGeneration"])
	if err != nil {
		return err
	}

	everScheduled, err := serialization.AsBool(data["everScheduled"])
	if err != nil {
		return err
	}

	t.NamedBase = naming.MakeNamedBase(name)
	t.now = timing.VTimePoint(now)
	t.last = timing.VTimePoint(last)
	t.maxIdleDelay = timing.VTimeDuration(maxIdleDelay)
	t.nextGeneration = nextGeneration
	t.everScheduled = everScheduled
	t.pending = nil

	if raw, ok := data["pending"]; ok && raw != nil {
		pendingMap, err := serialization.AsMap(raw)
		if err != nil {
			return err
		}

		pending, err := decodeEvent(pendingMap)
		if err != nil {
			return fmt.Errorf("timeline %s: %w", name, err)
		}

		t.pending = pending
	}

	return nil
}
