// Package mcp exposes the finance API as five generic tools over the Model
// Context Protocol.
package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bnema/actual-mcp/internal/adapters/reference"
	"github.com/bnema/actual-mcp/internal/application"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
)

const serverName = "actual-mcp"

type MethodCatalog interface {
	Summary() application.CatalogSummary
	List(category domain.Category) ([]domain.MethodDescriptor, error)
}

type MethodInvoker interface {
	Invoke(ctx context.Context, method string, params map[string]any) (any, error)
}

type QueryRunner interface {
	Execute(ctx context.Context, req application.QueryRequest) (any, error)
}

type SchemaLookup interface {
	Lookup(section reference.Section, table string) (domain.SchemaReference, error)
}

type RuleSource interface {
	Rules(ctx context.Context, req application.RulesRequest) (application.RulesResult, error)
}

type Dependencies struct {
	Catalog MethodCatalog
	Invoker MethodInvoker
	Queries QueryRunner
	Schema  SchemaLookup
	Rules   RuleSource
}

type Options struct {
	// Debug adds diagnostic details (remote stack, extra fields) to error payloads.
	Debug  bool
	Logger log.Logger
}

type tool interface {
	Definition() mcpgo.Tool
	Handle(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error)
}

// newTools builds the tool handlers in registration order.
func newTools(deps Dependencies, opts Options) []tool {
	if opts.Logger == nil {
		opts.Logger = log.Nop
	}
	errs := errorRenderer{debug: opts.Debug, logger: opts.Logger}

	return []tool{
		newListMethodsTool(deps.Catalog, errs),
		newCallMethodTool(deps.Invoker, errs),
		newExecuteQueryTool(deps.Queries, errs),
		newGetSchemaTool(deps.Schema, errs),
		newGetRulesTool(deps.Rules, errs),
	}
}

func NewServer(version string, deps Dependencies, opts Options) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, t := range newTools(deps, opts) {
		s.AddTool(t.Definition(), t.Handle)
	}

	return s
}

const instructions = `Tools for an Actual Budget server.

Start with list_methods (summary_only=true) to see what exists, then list_methods
with a category for parameter details. call_method runs any listed method by name
with named parameters; identifiers ending in "Id" accept either the UUID or the
entity name. Most methods need an open budget: call loadBudget with a budget
name or id first, or pass budget to execute_query and get_rules.

Use get_schema before execute_query to see tables, fields, operators and functions.`
