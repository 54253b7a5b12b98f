package application

// Methods that take a callback in the finance library; they cannot be expressed
// as a flat parameter bag.
var functionArgMethods = map[string]struct{}{
	"batchBudgetUpdates": {},
	"runImport":          {},
}

// Methods callable before any budget is active.
var sessionIndependentMethods = map[string]struct{}{
	"getBudgets":       {},
	"loadBudget":       {},
	"downloadBudget":   {},
	"sync":             {},
	"getServerVersion": {},
}

const (
	methodGetBudgets     = "getBudgets"
	methodLoadBudget     = "loadBudget"
	methodDownloadBudget = "downloadBudget"
	methodGetRules       = "getRules"
	methodGetPayees      = "getPayees"
	methodGetCategories  = "getCategories"
	methodGetAccounts    = "getAccounts"
	methodQuery          = "aqlQuery"
)

// Record names for tool calls that are not a single manifest method.
const (
	toolGetRules     = "get_rules"
	toolExecuteQuery = "execute_query"
)

// listingRule names the operation that lists the entities a parameter refers to
// and the entity field holding the canonical value.
type listingRule struct {
	Method string
	Field  string
}

const defaultIdentifierField = "id"

// Named overrides on top of the "fooId -> getFoos" convention.
var listingOverrides = map[string]listingRule{
	"budgetId":           {Method: methodGetBudgets, Field: "id"},
	"syncId":             {Method: methodGetBudgets, Field: "groupId"},
	"categoryId":         {Method: methodGetCategories, Field: "id"},
	"groupId":            {Method: "getCategoryGroups", Field: "id"},
	"categoryGroupId":    {Method: "getCategoryGroups", Field: "id"},
	"transferAccountId":  {Method: methodGetAccounts, Field: "id"},
	"transferCategoryId": {Method: methodGetCategories, Field: "id"},
}

func requiresFunctionArg(method string) bool {
	_, ok := functionArgMethods[method]
	return ok
}

func isSessionIndependent(method string) bool {
	_, ok := sessionIndependentMethods[method]
	return ok
}

// Methods that leave a budget loaded on success, keyed to the parameter that
// identifies it.
var activatingMethods = map[string]string{
	methodLoadBudget:     "budgetId",
	methodDownloadBudget: "syncId",
}
