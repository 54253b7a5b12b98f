package domain

import "strings"

type Category string

const (
	CategoryAll          Category = "all"
	CategoryLifecycle    Category = "lifecycle"
	CategoryBudget       Category = "budget"
	CategoryTransactions Category = "transactions"
	CategoryAccounts     Category = "accounts"
	CategoryCategories   Category = "categories"
	CategoryPayees       Category = "payees"
	CategoryRules        Category = "rules"
	CategorySchedules    Category = "schedules"
	CategoryQuery        Category = "query"
	CategoryBankSync     Category = "bank-sync"
)

// Categories lists the manifest categories in display order. CategoryAll is a
// filter value only and never appears on a descriptor.
var Categories = []Category{
	CategoryLifecycle,
	CategoryBudget,
	CategoryTransactions,
	CategoryAccounts,
	CategoryCategories,
	CategoryPayees,
	CategoryRules,
	CategorySchedules,
	CategoryQuery,
	CategoryBankSync,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type MethodParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

type MethodReturns struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// MethodDescriptor describes one remote operation. Params order is the
// positional order used when the operation is invoked.
type MethodDescriptor struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    Category      `json:"category"`
	Params      []MethodParam `json:"parameters"`
	Returns     MethodReturns `json:"returns"`
}

func (m MethodDescriptor) ParamNames() []string {
	names := make([]string, 0, len(m.Params))
	for _, param := range m.Params {
		names = append(names, param.Name)
	}
	return names
}

// IsIdentifierParam reports whether a parameter name follows the "...Id" naming
// convention used for references to other entities.
func IsIdentifierParam(name string) bool {
	return len(name) > len("Id") && strings.HasSuffix(name, "Id")
}
