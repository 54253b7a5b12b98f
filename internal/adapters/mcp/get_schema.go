package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bnema/actual-mcp/internal/adapters/reference"
)

const getSchemaName = "get_schema"

type getSchemaTool struct {
	schema SchemaLookup
	errs   errorRenderer
}

func newGetSchemaTool(schema SchemaLookup, errs errorRenderer) *getSchemaTool {
	return &getSchemaTool{schema: schema, errs: errs}
}

func (t *getSchemaTool) Definition() mcpgo.Tool {
	return mcpgo.NewTool(getSchemaName,
		mcpgo.WithDescription("Reference for execute_query: queryable tables and their fields, filter operators and functions."),
		mcpgo.WithString("section",
			mcpgo.Description("Part of the reference to return"),
			mcpgo.Enum(
				string(reference.SectionAll),
				string(reference.SectionTables),
				string(reference.SectionOperators),
				string(reference.SectionFunctions),
			),
			mcpgo.DefaultString(string(reference.SectionAll)),
		),
		mcpgo.WithString("table",
			mcpgo.Description("Only describe this table"),
		),
		mcpgo.WithReadOnlyHintAnnotation(true),
	)
}

func (t *getSchemaTool) Handle(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := arguments(req)

	section, err := stringArg(args, "section")
	if err != nil {
		return t.errs.render(getSchemaName, "", args, err), nil
	}
	table, err := stringArg(args, "table")
	if err != nil {
		return t.errs.render(getSchemaName, "", args, err), nil
	}

	doc, err := t.schema.Lookup(reference.Section(section), table)
	if err != nil {
		return t.errs.render(getSchemaName, "", args, err), nil
	}

	return jsonResult(doc)
}
