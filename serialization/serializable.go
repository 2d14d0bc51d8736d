// Package serialization defines how scheduling state is captured into plain
// maps and restored from them, so that a simulation can checkpoint and resume
// without re-firing actions that already started.
package serialization

// Serializable is an interface that can be serialized and deserialized.
type Serializable interface {
	ID() string
	Serialize() (map[string]any, error)
	Deserialize(map[string]any) error
}
