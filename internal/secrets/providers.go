package secrets

import (
	"context"
	"os"
)

// envPrefix namespaces the environment variables the Env resolver reads.
const envPrefix = "STAGEFLOW_SECRET_"

// Static resolves identifiers from an in-memory map, typically populated
// from the application config file.
type Static struct {
	material map[string]string
}

// NewStatic creates a Static resolver over the given identifier-to-value map.
func NewStatic(material map[string]string) *Static {
	return &Static{material: material}
}

// Resolve implements the Resolver interface. It returns a fresh copy so the
// caller can zero it without destroying the source material.
func (s *Static) Resolve(_ context.Context, id string) (Value, error) {
	raw, ok := s.material[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return Value([]byte(raw)), nil
}

// Release implements the Resolver interface.
func (s *Static) Release(v Value) {
	Zero(v)
}

// Env resolves identifiers from the process environment, reading
// STAGEFLOW_SECRET_<ENVKEY> for each identifier.
type Env struct{}

// NewEnv creates an environment-backed resolver.
func NewEnv() *Env {
	return &Env{}
}

// Resolve implements the Resolver interface.
func (e *Env) Resolve(_ context.Context, id string) (Value, error) {
	raw, ok := os.LookupEnv(envPrefix + EnvKey(id))
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return Value([]byte(raw)), nil
}

// Release implements the Resolver interface.
func (e *Env) Release(v Value) {
	Zero(v)
}

// Chain tries each resolver in order and resolves to the first hit. A
// NotFoundError moves on to the next resolver; any other error is final.
type Chain struct {
	resolvers []Resolver
}

// NewChain composes resolvers in lookup order.
func NewChain(resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers}
}

// Resolve implements the Resolver interface.
func (c *Chain) Resolve(ctx context.Context, id string) (Value, error) {
	for _, r := range c.resolvers {
		v, err := r.Resolve(ctx, id)
		if err == nil {
			return v, nil
		}
		if _, notFound := err.(*NotFoundError); !notFound {
			return nil, err
		}
	}
	return nil, &NotFoundError{ID: id}
}

// Release implements the Resolver interface.
func (c *Chain) Release(v Value) {
	Zero(v)
}
