package secrets

import (
	"context"
	"sync"
)

// Binding holds the resolved values for one stage's declared credential
// identifiers. It lives exactly as long as the stage: the engine binds at
// stage entry and releases on every exit path. Release is idempotent and
// returns each value to the resolver exactly once.
type Binding struct {
	resolver Resolver
	values   map[string]Value
	once     sync.Once
}

// Bind resolves every identifier through the resolver. If any resolution
// fails, values resolved so far are released before the error is returned,
// so a failed bind never leaks material.
func Bind(ctx context.Context, r Resolver, ids []string) (*Binding, error) {
	b := &Binding{resolver: r, values: make(map[string]Value, len(ids))}
	for _, id := range ids {
		v, err := r.Resolve(ctx, id)
		if err != nil {
			b.Release()
			return nil, err
		}
		b.values[id] = v
	}
	return b, nil
}

// Has reports whether the binding holds material for the identifier.
func (b *Binding) Has(id string) bool {
	_, ok := b.values[id]
	return ok
}

// Env renders the bound values as environment variables keyed by EnvKey.
func (b *Binding) Env() map[string]string {
	env := make(map[string]string, len(b.values))
	for id, v := range b.values {
		env[EnvKey(id)] = string(v)
	}
	return env
}

// Release returns every bound value to the resolver. Safe to call more than
// once; only the first call has effect.
func (b *Binding) Release() {
	b.once.Do(func() {
		for id, v := range b.values {
			b.resolver.Release(v)
			delete(b.values, id)
		}
	})
}
