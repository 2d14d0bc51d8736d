// Package id generates the globally unique IDs that tag events and actors in
// traces. IDs are for identification in logs and recordings only; scheduling
// decisions never depend on them.
package id

import (
	"github.com/rs/xid"
)

// Generate returns a new globally unique ID.
func Generate() string {
	return xid.New().String()
}
