package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	rulesfmt "github.com/bnema/actual-mcp/internal/adapters/render/rules"
	"github.com/bnema/actual-mcp/internal/application"
	"github.com/bnema/actual-mcp/internal/domain"
)

const (
	getRulesName = "get_rules"

	formatDSL  = "dsl"
	formatJSON = "json"
)

type getRulesTool struct {
	rules RuleSource
	errs  errorRenderer
}

func newGetRulesTool(rules RuleSource, errs errorRenderer) *getRulesTool {
	return &getRulesTool{rules: rules, errs: errs}
}

type rulesResult struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Rules   []domain.Rule `json:"rules"`
}

func (t *getRulesTool) Definition() mcpgo.Tool {
	return mcpgo.NewTool(getRulesName,
		mcpgo.WithDescription("List transaction rules of the open budget, one rule per line in a compact "+
			"'<id> <STAGE> IF <conditions> THEN <actions>' form, or as JSON."),
		mcpgo.WithString("budget", mcpgo.Description("Budget id or name to open first; defaults to the open budget")),
		mcpgo.WithString("format",
			mcpgo.Description("dsl for one line per rule, json for the raw rule objects"),
			mcpgo.Enum(formatDSL, formatJSON),
			mcpgo.DefaultString(formatDSL),
		),
		mcpgo.WithString("stage",
			mcpgo.Description("Only rules of this stage"),
			mcpgo.Enum(
				string(domain.StageFilterPre),
				string(domain.StageFilterRun),
				string(domain.StageFilterPost),
				string(domain.StageFilterAll),
			),
			mcpgo.DefaultString(string(domain.StageFilterAll)),
		),
		mcpgo.WithBoolean("resolve_names",
			mcpgo.Description("Show payee, category and account names instead of ids in dsl output"),
			mcpgo.DefaultBool(true),
		),
		mcpgo.WithReadOnlyHintAnnotation(true),
	)
}

func (t *getRulesTool) Handle(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := arguments(req)

	rulesReq, format, err := rulesRequest(args)
	if err != nil {
		return t.errs.render(getRulesName, "", args, err), nil
	}

	result, err := t.rules.Rules(ctx, rulesReq)
	if err != nil {
		return t.errs.render(getRulesName, "", args, err), nil
	}

	if format == formatJSON {
		return jsonResult(rulesResult{Success: true, Count: len(result.Rules), Rules: result.Rules})
	}
	return mcpgo.NewToolResultText(rulesfmt.Format(result.Rules, result.Names)), nil
}

func rulesRequest(args map[string]any) (application.RulesRequest, string, error) {
	budget, err := stringArg(args, "budget")
	if err != nil {
		return application.RulesRequest{}, "", err
	}
	stage, err := stringArg(args, "stage")
	if err != nil {
		return application.RulesRequest{}, "", err
	}
	format, err := stringArg(args, "format")
	if err != nil {
		return application.RulesRequest{}, "", err
	}
	resolveNames, err := boolArg(args, "resolve_names", true)
	if err != nil {
		return application.RulesRequest{}, "", err
	}

	switch format {
	case "":
		format = formatDSL
	case formatDSL, formatJSON:
	default:
		return application.RulesRequest{}, "", domain.NewInvalidArgumentError("unknown format %q; use dsl or json", format)
	}

	// JSON output carries ids, so names are only fetched for the DSL.
	return application.RulesRequest{
		BudgetRef:    budget,
		Stage:        domain.StageFilter(stage),
		ResolveNames: resolveNames && format == formatDSL,
	}, format, nil
}
