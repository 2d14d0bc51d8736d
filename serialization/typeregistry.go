package serialization

import (
	"fmt"
	"reflect"
	"sync"
)

type typeRegistry struct {
	lock sync.RWMutex

	types map[string]reflect.Type
}

func (r *typeRegistry) RegisterType(example Serializable) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	// Allow the example to be a pointer or a struct.
	t := reflect.TypeOf(example)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	typeName := t.PkgPath() + "." + t.Name()

	if _, ok := r.types[typeName]; ok {
		return fmt.Errorf("type %s already registered", typeName)
	}

	r.types[typeName] = t

	return nil
}

func (r *typeRegistry) CreateInstance(typeName string) (Serializable, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	exampleType, ok := r.types[typeName]
	if !ok {
		return nil, fmt.Errorf("type %s not found", typeName)
	}

	instance := reflect.New(exampleType).Interface()

	serializable, ok := instance.(Serializable)
	if !ok {
		return nil, fmt.Errorf("type %s is not a Serializable", typeName)
	}

	return serializable, nil
}

var registry = typeRegistry{
	types: map[string]reflect.Type{},
}

// RegisterType makes a type restorable by name. The example may be a pointer
// or a struct.
func RegisterType(example Serializable) error {
	return registry.RegisterType(example)
}

// CreateInstance creates a zero-value instance of a registered type.
func CreateInstance(typeName string) (Serializable, error) {
	return registry.CreateInstance(typeName)
}

// TypeNameOf returns the name a value registers and restores under.
func TypeNameOf(example Serializable) string {
	t := reflect.TypeOf(example)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.PkgPath() + "." + t.Name()
}
