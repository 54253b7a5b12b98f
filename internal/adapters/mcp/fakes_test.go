package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/bnema/actual-mcp/internal/adapters/reference"
	"github.com/bnema/actual-mcp/internal/application"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
)

type fakeCatalog struct {
	summary application.CatalogSummary
	methods []domain.MethodDescriptor
}

func (f fakeCatalog) Summary() application.CatalogSummary {
	return f.summary
}

func (f fakeCatalog) List(category domain.Category) ([]domain.MethodDescriptor, error) {
	if category == domain.CategoryAll {
		return f.methods, nil
	}
	if !category.Valid() {
		return nil, domain.NewInvalidArgumentError("unknown category %q", category)
	}
	var out []domain.MethodDescriptor
	for _, method := range f.methods {
		if method.Category == category {
			out = append(out, method)
		}
	}
	return out, nil
}

type fakeInvoker struct {
	method string
	params map[string]any
	result any
	err    error
}

func (f *fakeInvoker) Invoke(_ context.Context, method string, params map[string]any) (any, error) {
	f.method = method
	f.params = params
	return f.result, f.err
}

type fakeQueries struct {
	req  application.QueryRequest
	data any
	err  error
}

func (f *fakeQueries) Execute(_ context.Context, req application.QueryRequest) (any, error) {
	f.req = req
	return f.data, f.err
}

type fakeRules struct {
	req    application.RulesRequest
	result application.RulesResult
	err    error
}

func (f *fakeRules) Rules(_ context.Context, req application.RulesRequest) (application.RulesResult, error) {
	f.req = req
	return f.result, f.err
}

type fakeSchema struct {
	section reference.Section
	table   string
	doc     domain.SchemaReference
	err     error
}

func (f *fakeSchema) Lookup(section reference.Section, table string) (domain.SchemaReference, error) {
	f.section = section
	f.table = table
	return f.doc, f.err
}

func testRenderer(debug bool) errorRenderer {
	return errorRenderer{debug: debug, logger: log.Nop}
}

func toolRequest(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "unexpected content %T", result.Content[0])
	return text.Text
}

func decodeResult(t *testing.T, result *mcpgo.CallToolResult) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	return payload
}
