package actor

import (
	"fmt"
	"sync"

	"github.com/sarchlab/throng/timing"
)

// An Action is the command an event carries across its start or end boundary.
// The scheduling core runs actions without knowing their semantics; combat,
// trade, and production are all just actions to a timeline.
type Action interface {
	// Kind names the action class. Persisted actions are restored by kind.
	Kind() string

	// Run performs the action at the given time.
	Run(now timing.VTimePoint) error
}

// A PayloadAction is an Action that survives checkpoints. Its payload must
// contain everything a registered decoder needs to rebuild it.
type PayloadAction interface {
	Action

	Payload() map[string]any
}

// An ActionDecoder rebuilds an action of one kind from its payload.
type ActionDecoder func(payload map[string]any) (Action, error)

var actionRegistry = struct {
	sync.RWMutex
	decoders map[string]ActionDecoder
}{
	decoders: map[string]ActionDecoder{},
}

// RegisterActionKind makes an action kind restorable from checkpoints. Only
// registered kinds can be carried by persisted events.
func RegisterActionKind(kind string, decode ActionDecoder) error {
	actionRegistry.Lock()
	defer actionRegistry.Unlock()

	if _, ok := actionRegistry.decoders[kind]; ok {
		return fmt.Errorf("action kind %q already registered", kind)
	}

	actionRegistry.decoders[kind] = decode

	return nil
}

// DecodeAction rebuilds an action from its persisted kind and payload.
func DecodeAction(kind string, payload map[string]any) (Action, error) {
	actionRegistry.RLock()
	decode, ok := actionRegistry.decoders[kind]
	actionRegistry.RUnlock()

	if !ok {
		return nil, fmt.Errorf("action kind %q not registered", kind)
	}

	return decode(payload)
}

// FuncActionKind is the kind of all closure-backed actions.
const FuncActionKind = "func"

// FuncAction wraps a plain function as an Action. Convenient for tests and
// for events that never outlive the process; an event carrying a FuncAction
// refuses to serialize.
type FuncAction func(now timing.VTimePoint) error

// Kind returns FuncActionKind.
func (a FuncAction) Kind() string {
	return FuncActionKind
}

// Run calls the wrapped function.
func (a FuncAction) Run(now timing.VTimePoint) error {
	return a(now)
}

func encodeAction(a Action) (map[string]any, error) {
	if a == nil {
		return nil, nil
	}

	pa, ok := a.(PayloadAction)
	if !ok {
		return nil, fmt.Errorf(
			"action kind %q cannot be serialized; "+
				"only payload actions survive checkpoints", a.Kind())
	}

	return map[string]any{
		"kind":    pa.Kind(),
		"payload": pa.Payload(),
	}, nil
}

func decodeActionField(v any) (Action, error) {
	if v == nil {
		return nil, nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("malformed action field of type %T", v)
	}

	kind, ok := m["kind"].(string)
	if !ok {
		return nil, fmt.Errorf("action field misses the kind entry")
	}

	payload, _ := m["payload"].(map[string]any)

	return DecodeAction(kind, payload)
}
