package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bnema/actual-mcp/internal/domain"
)

const listMethodsName = "list_methods"

type listMethodsTool struct {
	catalog MethodCatalog
	errs    errorRenderer
}

func newListMethodsTool(catalog MethodCatalog, errs errorRenderer) *listMethodsTool {
	return &listMethodsTool{catalog: catalog, errs: errs}
}

type methodListing struct {
	Category domain.Category           `json:"category"`
	Count    int                       `json:"count"`
	Methods  []domain.MethodDescriptor `json:"methods"`
}

func (t *listMethodsTool) Definition() mcpgo.Tool {
	categories := make([]string, 0, len(domain.Categories)+1)
	categories = append(categories, string(domain.CategoryAll))
	for _, category := range domain.Categories {
		categories = append(categories, string(category))
	}

	return mcpgo.NewTool(listMethodsName,
		mcpgo.WithDescription("List the finance API methods callable through call_method, with parameters and return types."),
		mcpgo.WithString("category",
			mcpgo.Description("Only list methods of this category"),
			mcpgo.Enum(categories...),
			mcpgo.DefaultString(string(domain.CategoryAll)),
		),
		mcpgo.WithBoolean("summary_only",
			mcpgo.Description("Return method counts per category instead of the methods"),
			mcpgo.DefaultBool(false),
		),
		mcpgo.WithReadOnlyHintAnnotation(true),
	)
}

func (t *listMethodsTool) Handle(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := arguments(req)

	summaryOnly, err := boolArg(args, "summary_only", false)
	if err != nil {
		return t.errs.render(listMethodsName, "", args, err), nil
	}
	if summaryOnly {
		return jsonResult(t.catalog.Summary())
	}

	category, err := stringArg(args, "category")
	if err != nil {
		return t.errs.render(listMethodsName, "", args, err), nil
	}
	if category == "" {
		category = string(domain.CategoryAll)
	}

	methods, err := t.catalog.List(domain.Category(category))
	if err != nil {
		return t.errs.render(listMethodsName, "", args, err), nil
	}

	return jsonResult(methodListing{
		Category: domain.Category(category),
		Count:    len(methods),
		Methods:  methods,
	})
}
