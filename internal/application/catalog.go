package application

import (
	"github.com/bnema/actual-mcp/internal/domain"
)

type CategoryCount struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
}

type CatalogSummary struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// MethodCatalog answers discovery questions about the manifest.
type MethodCatalog struct {
	registry *Registry
}

func NewMethodCatalog(registry *Registry) *MethodCatalog {
	return &MethodCatalog{registry: registry}
}

// Summary counts methods per category. Categories with no methods are omitted.
func (c *MethodCatalog) Summary() CatalogSummary {
	counts := make(map[domain.Category]int, len(domain.Categories))
	methods := c.registry.Methods()
	for _, method := range methods {
		counts[method.Category]++
	}

	summary := CatalogSummary{Total: len(methods), Categories: make([]CategoryCount, 0, len(counts))}
	for _, category := range domain.Categories {
		if counts[category] == 0 {
			continue
		}
		summary.Categories = append(summary.Categories, CategoryCount{Category: category, Count: counts[category]})
	}
	return summary
}

// List returns the descriptors of one category in manifest order, or every
// descriptor for CategoryAll and the empty category.
func (c *MethodCatalog) List(category domain.Category) ([]domain.MethodDescriptor, error) {
	if category != "" && category != domain.CategoryAll && !category.Valid() {
		return nil, domain.NewInvalidArgumentError("unknown category %q", category)
	}

	methods := c.registry.Methods()
	if category == "" || category == domain.CategoryAll {
		return methods, nil
	}

	filtered := make([]domain.MethodDescriptor, 0, len(methods))
	for _, method := range methods {
		if method.Category == category {
			filtered = append(filtered, method)
		}
	}
	return filtered, nil
}
