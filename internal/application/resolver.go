package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/google/uuid"
)

// Resolver turns human names into canonical identifiers.
type Resolver struct {
	registry *Registry
}

func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// IsCanonicalID reports whether value already has the 8-4-4-4-12 hex shape.
func IsCanonicalID(value string) bool {
	return len(value) == 36 && uuid.Validate(value) == nil
}

// Resolve returns the canonical identifier for value. Values that already look
// canonical, and parameters without a known listing, are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, param, value string) (string, error) {
	if IsCanonicalID(value) {
		return value, nil
	}

	rule, ok := r.registry.listingFor(param)
	if !ok {
		return value, nil
	}

	result, err := r.registry.call(ctx, rule.Method, nil)
	if err != nil {
		return "", fmt.Errorf("list entities for %s: %w", param, err)
	}

	entities, err := entityList(result)
	if err != nil {
		return "", domain.NewUnderlyingError(fmt.Sprintf("%s returned an unexpected shape", rule.Method), nil, err)
	}

	names := make([]string, 0, len(entities))
	for _, entity := range entities {
		name := stringField(entity, "name")
		if name != "" {
			names = append(names, name)
		}

		canonical := stringField(entity, rule.Field)
		if canonical == "" {
			continue
		}
		if stringField(entity, "id") == value || name == value || canonical == value {
			return canonical, nil
		}
	}

	return "", domain.NewNotFoundError(fmt.Sprintf("no entity from %s matches %s=%q", rule.Method, param, value), names)
}

// ResolveParams resolves every string-valued "...Id" entry of params and
// returns a new bag. Keys are visited in order first, then the remaining keys
// sorted, so failures are reported deterministically.
func (r *Resolver) ResolveParams(ctx context.Context, params map[string]any, order []string) (map[string]any, error) {
	resolved := make(map[string]any, len(params))
	for key, value := range params {
		resolved[key] = value
	}

	for _, key := range visitOrder(params, order) {
		if !domain.IsIdentifierParam(key) {
			continue
		}
		value, ok := params[key].(string)
		if !ok || value == "" {
			continue
		}

		canonical, err := r.Resolve(ctx, key, value)
		if err != nil {
			return nil, err
		}
		resolved[key] = canonical
	}

	return resolved, nil
}

func visitOrder(params map[string]any, order []string) []string {
	keys := make([]string, 0, len(params))
	seen := make(map[string]struct{}, len(params))
	for _, key := range order {
		if _, ok := params[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	rest := make([]string, 0, len(params)-len(keys))
	for key := range params {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}
