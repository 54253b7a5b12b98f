package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bnema/actual-mcp/internal/application"
)

const executeQueryName = "execute_query"

type executeQueryTool struct {
	queries QueryRunner
	errs    errorRenderer
}

func newExecuteQueryTool(queries QueryRunner, errs errorRenderer) *executeQueryTool {
	return &executeQueryTool{queries: queries, errs: errs}
}

type queryResult struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (t *executeQueryTool) Definition() mcpgo.Tool {
	return mcpgo.NewTool(executeQueryName,
		mcpgo.WithDescription("Run a query against the open budget. See get_schema for tables, fields, operators and functions."),
		mcpgo.WithString("table",
			mcpgo.Required(),
			mcpgo.Description("Table to query, for example transactions"),
		),
		mcpgo.WithObject("tableOptions", mcpgo.Description("Table options, for example {\"splits\": \"grouped\"}")),
		withExpression("filter", "Filter expression or list of expressions, for example {\"amount\": {\"$lt\": 0}}"),
		withExpression("select", "Field name or list of field names and expressions; defaults to all fields"),
		withExpression("groupBy", "Group expression or list of expressions"),
		withExpression("orderBy", "Order expression or list of expressions, for example {\"date\": \"desc\"}"),
		mcpgo.WithNumber("limit", mcpgo.Description("Maximum number of rows"), mcpgo.Min(0)),
		mcpgo.WithNumber("offset", mcpgo.Description("Rows to skip"), mcpgo.Min(0)),
		mcpgo.WithBoolean("calculate", mcpgo.Description("Return the single value of an aggregate selection")),
		mcpgo.WithBoolean("rawMode", mcpgo.Description("Return stored values without conversions")),
		mcpgo.WithBoolean("withDead", mcpgo.Description("Include deleted rows")),
		mcpgo.WithString("budget", mcpgo.Description("Budget id or name to open before querying; defaults to the open budget")),
		mcpgo.WithReadOnlyHintAnnotation(true),
	)
}

func (t *executeQueryTool) Handle(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := arguments(req)

	query, err := queryRequest(args)
	if err != nil {
		return t.errs.render(executeQueryName, "", args, err), nil
	}

	data, err := t.queries.Execute(ctx, query)
	if err != nil {
		return t.errs.render(executeQueryName, "", args, err), nil
	}

	return jsonResult(queryResult{Success: true, Data: data})
}

// withExpression declares a property that takes an object, a list or a bare
// field name.
func withExpression(name, description string) mcpgo.ToolOption {
	return func(t *mcpgo.Tool) {
		t.InputSchema.Properties[name] = map[string]any{
			"type":        []string{"object", "array", "string"},
			"description": description,
		}
	}
}

func queryRequest(args map[string]any) (application.QueryRequest, error) {
	var (
		req application.QueryRequest
		err error
	)

	if req.Table, err = stringArg(args, "table"); err != nil {
		return req, err
	}
	if req.BudgetRef, err = stringArg(args, "budget"); err != nil {
		return req, err
	}
	if req.TableOptions, err = objectArg(args, "tableOptions"); err != nil {
		return req, err
	}
	if req.Limit, err = intArg(args, "limit"); err != nil {
		return req, err
	}
	if req.Offset, err = intArg(args, "offset"); err != nil {
		return req, err
	}
	if req.Calculate, err = boolArg(args, "calculate", false); err != nil {
		return req, err
	}
	if req.RawMode, err = boolArg(args, "rawMode", false); err != nil {
		return req, err
	}
	if req.WithDead, err = boolArg(args, "withDead", false); err != nil {
		return req, err
	}

	req.Filter = expressionArg(args, "filter")
	req.Select = expressionArg(args, "select")
	req.GroupBy = expressionArg(args, "groupBy")
	req.OrderBy = expressionArg(args, "orderBy")

	return req, nil
}
