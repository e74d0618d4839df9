package identity

import (
	"context"
	"strings"
)

// Resolver resolves a raw identifier to its canonical key: manual overrides
// win unconditionally, then the numbering-plan algorithm runs.
type Resolver struct {
	normalizer *Normalizer
	registry   *Registry
}

// NewResolver creates a Resolver.
func NewResolver(normalizer *Normalizer, registry *Registry) *Resolver {
	return &Resolver{normalizer: normalizer, registry: registry}
}

// Resolve returns the canonical key for raw, or "" when the identifier is
// unresolvable. Unresolvable is a valid terminal classification, not an error.
func (r *Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if r.registry != nil {
		key, err := r.registry.Resolve(ctx, raw)
		if err != nil {
			return "", err
		}
		if key != "" {
			return key, nil
		}
	}
	return r.normalizer.Normalize(raw), nil
}

// Normalizer exposes the underlying pure normalizer.
func (r *Resolver) Normalizer() *Normalizer {
	return r.normalizer
}
