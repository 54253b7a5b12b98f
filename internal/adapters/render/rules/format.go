package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bnema/actual-mcp/internal/domain"
)

const (
	Header  = "# rules: <id> <STAGE> IF <conditions> THEN <actions>"
	NoRules = "(no rules)"

	always   = "(always)"
	noAction = "(no action)"
)

// Condition option flags, in output order.
var conditionFlags = []string{"inflow", "outflow", "month", "year"}

type namedField struct {
	prefix string
	lookup func(*domain.NameMaps) map[string]string
}

var namedFields = map[string]namedField{
	"payee":    {prefix: "@payee:", lookup: func(n *domain.NameMaps) map[string]string { return n.Payees }},
	"category": {prefix: "@cat:", lookup: func(n *domain.NameMaps) map[string]string { return n.Categories }},
	"account":  {prefix: "@acct:", lookup: func(n *domain.NameMaps) map[string]string { return n.Accounts }},
}

// Format renders rules as one line each under a fixed header. names may be nil.
func Format(rules []domain.Rule, names *domain.NameMaps) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')

	if len(rules) == 0 {
		b.WriteString(NoRules)
		b.WriteByte('\n')
		return b.String()
	}

	for _, rule := range rules {
		b.WriteString(FormatRule(rule, names))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatRule renders a single rule as "<id> <STAGE> IF <conditions> THEN <actions>".
func FormatRule(rule domain.Rule, names *domain.NameMaps) string {
	return fmt.Sprintf("%s %s IF %s THEN %s",
		rule.ID,
		stageLabel(rule.Stage),
		formatConditions(rule.ConditionsOp, rule.Conditions, names),
		formatActions(rule.Actions, names),
	)
}

func stageLabel(stage domain.Stage) string {
	switch stage {
	case domain.StagePre:
		return "PRE"
	case domain.StagePost:
		return "POST"
	case domain.StageDefault:
		return "RUN"
	default:
		return strings.ToUpper(string(stage))
	}
}

func formatConditions(op domain.ConditionsOp, conditions []domain.Condition, names *domain.NameMaps) string {
	if len(conditions) == 0 {
		return always
	}

	joiner := " AND "
	if op == domain.ConditionsOr {
		joiner = " OR "
	}

	parts := make([]string, 0, len(conditions))
	for _, condition := range conditions {
		parts = append(parts, formatCondition(condition, names))
	}
	return strings.Join(parts, joiner)
}

func formatCondition(condition domain.Condition, names *domain.NameMaps) string {
	return fmt.Sprintf("%s%s %s %s",
		condition.Field,
		formatFlags(condition.Options),
		condition.Op,
		formatValue(condition.Field, condition.Value, names),
	)
}

func formatFlags(options map[string]any) string {
	flags := make([]string, 0, len(conditionFlags))
	for _, flag := range conditionFlags {
		if truthy(options[flag]) {
			flags = append(flags, flag)
		}
	}
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, ",") + "]"
}

func formatActions(actions []domain.Action, names *domain.NameMaps) string {
	if len(actions) == 0 {
		return noAction
	}

	parts := make([]string, 0, len(actions))
	for _, action := range actions {
		parts = append(parts, formatAction(action, names))
	}
	return strings.Join(parts, "; ")
}

func formatAction(action domain.Action, names *domain.NameMaps) string {
	switch action.Op {
	case "set":
		return fmt.Sprintf("set(%s=%s)", action.Field, formatValue(action.Field, action.Value, names))
	case "set-split-amount":
		return fmt.Sprintf("split[%s](%s=%s)",
			formatScalar(action.Options["splitIndex"]),
			formatScalar(action.Options["method"]),
			formatValue(action.Field, action.Value, names),
		)
	case "link-schedule", "prepend-notes", "append-notes":
		return fmt.Sprintf("%s(%s)", action.Op, formatValue(action.Field, action.Value, names))
	case "delete-transaction":
		return "delete"
	default:
		return dump(action)
	}
}

// formatValue renders a condition or action value. Strings of name-bearing
// fields are replaced by their display name when one is known.
func formatValue(field string, value any, names *domain.NameMaps) string {
	switch v := value.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatSingle(field, item, names))
		}
		return "(" + strings.Join(parts, ",") + ")"
	case []string:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatSingle(field, item, names))
		}
		return "(" + strings.Join(parts, ",") + ")"
	case map[string]any:
		if low, high, ok := numericRange(v); ok {
			return "(" + formatScalar(low) + "," + formatScalar(high) + ")"
		}
		return dump(v)
	default:
		return formatSingle(field, value, names)
	}
}

func formatSingle(field string, value any, names *domain.NameMaps) string {
	text, ok := value.(string)
	if !ok {
		return formatScalar(value)
	}

	if named, ok := namedFields[field]; ok && names != nil {
		if name, ok := named.lookup(names)[text]; ok {
			if strings.ContainsAny(name, " :,()") {
				name = quote(name)
			}
			return named.prefix + name
		}
	}

	if strings.ContainsAny(text, " \",()") {
		return quote(text)
	}
	return text
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return dump(v)
	}
}

func formatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func numericRange(v map[string]any) (any, any, bool) {
	if len(v) != 2 {
		return nil, nil, false
	}
	low, okLow := v["num1"]
	high, okHigh := v["num2"]
	if !okLow || !okHigh || !isNumber(low) || !isNumber(high) {
		return nil, nil, false
	}
	return low, high, true
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int64, int32, json.Number:
		return true
	default:
		return false
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func dump(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
