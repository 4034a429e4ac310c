// Package secrets defines the credential resolution interface consumed by
// the engine and the scoped Binding type that guarantees resolved material is
// released when the stage that declared it completes.
package secrets

import (
	"context"
	"fmt"
	"strings"
)

// Value is resolved secret material. It is kept as a byte slice so Release
// can zero it in place rather than waiting on the garbage collector.
type Value []byte

// Resolver resolves symbolic credential identifiers into secret material.
// Resolvers must return a fresh copy per call: the caller zeroes the returned
// value on release.
type Resolver interface {
	Resolve(ctx context.Context, id string) (Value, error)
	Release(v Value)
}

// Zero overwrites the value in place. All bundled resolvers use it as their
// Release implementation.
func Zero(v Value) {
	for i := range v {
		v[i] = 0
	}
}

// EnvKey maps a credential identifier to the environment variable name the
// engine injects it under: "registry-creds" becomes "REGISTRY_CREDS".
func EnvKey(id string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id)
	return mapped
}

// NotFoundError reports an identifier the resolver has no material for.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no secret material for credential %q", e.ID)
}
