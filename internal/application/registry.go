package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Handler runs one remote operation with positional arguments.
type Handler func(ctx context.Context, args []any) (any, error)

type Method struct {
	Descriptor domain.MethodDescriptor
	Handler    Handler
}

// Registry is the immutable name -> handler table built once from the manifest.
type Registry struct {
	methods  []Method
	byName   map[string]Method
	listings map[string]listingRule
}

func NewRegistry(descriptors []domain.MethodDescriptor, client ports.FinanceClient) (*Registry, error) {
	if client == nil {
		return nil, fmt.Errorf("finance client is nil")
	}

	registry := &Registry{
		methods:  make([]Method, 0, len(descriptors)),
		byName:   make(map[string]Method, len(descriptors)),
		listings: map[string]listingRule{},
	}

	for _, descriptor := range descriptors {
		name := strings.TrimSpace(descriptor.Name)
		if name == "" {
			return nil, fmt.Errorf("manifest entry without a name")
		}
		if _, ok := registry.byName[name]; ok {
			return nil, fmt.Errorf("duplicate manifest method %q", name)
		}
		if !descriptor.Category.Valid() {
			return nil, fmt.Errorf("method %q: unknown category %q", name, descriptor.Category)
		}

		method := Method{Descriptor: descriptor, Handler: clientHandler(client, name)}
		registry.methods = append(registry.methods, method)
		registry.byName[name] = method
	}

	registry.buildListings()

	return registry, nil
}

func clientHandler(client ports.FinanceClient, name string) Handler {
	return func(ctx context.Context, args []any) (any, error) {
		return client.Call(ctx, name, args)
	}
}

// buildListings turns the naming convention into an explicit table. Parameters
// whose derived listing operation is not in the manifest are left out and later
// pass through unresolved.
func (r *Registry) buildListings() {
	caser := cases.Title(language.Und, cases.NoLower)

	for _, method := range r.methods {
		for _, param := range method.Descriptor.Params {
			if !domain.IsIdentifierParam(param.Name) {
				continue
			}
			if _, done := r.listings[param.Name]; done {
				continue
			}

			rule, ok := listingOverrides[param.Name]
			if !ok {
				base := strings.TrimSuffix(param.Name, "Id")
				rule = listingRule{Method: "get" + caser.String(base) + "s", Field: defaultIdentifierField}
			}
			if _, exists := r.byName[rule.Method]; !exists {
				continue
			}
			r.listings[param.Name] = rule
		}
	}

	for param, rule := range listingOverrides {
		if _, exists := r.byName[rule.Method]; exists {
			r.listings[param] = rule
		}
	}
}

func (r *Registry) Lookup(name string) (Method, bool) {
	method, ok := r.byName[name]
	return method, ok
}

// Methods returns descriptors in manifest order.
func (r *Registry) Methods() []domain.MethodDescriptor {
	descriptors := make([]domain.MethodDescriptor, 0, len(r.methods))
	for _, method := range r.methods {
		descriptors = append(descriptors, method.Descriptor)
	}
	return descriptors
}

func (r *Registry) listingFor(param string) (listingRule, bool) {
	rule, ok := r.listings[param]
	return rule, ok
}

// ListingParams returns the parameter names that resolve through a listing, sorted.
func (r *Registry) ListingParams() []string {
	names := make([]string, 0, len(r.listings))
	for name := range r.listings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) call(ctx context.Context, name string, args []any) (any, error) {
	method, ok := r.byName[name]
	if !ok {
		return nil, domain.NewUnknownMethodError(name)
	}
	return method.Handler(ctx, args)
}
