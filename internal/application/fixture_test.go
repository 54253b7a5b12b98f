package application

import (
	"testing"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
	"github.com/bnema/actual-mcp/internal/ports/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	budgetLocalID  = "0b6f3c9e-1a2d-4e5f-8a9b-0c1d2e3f4a5b"
	budgetSyncID   = "7d4e2f1a-9c8b-4a7d-b6e5-f4a3b2c1d0e9"
	checkingID     = "5a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	groceriesCatID = "9f8e7d6c-5b4a-4392-8170-6e5d4c3b2a19"
)

var testInitOptions = ports.InitOptions{ServerURL: "http://finance.test", Password: "secret", DataDir: "/tmp/actual"}

func testDescriptors() []domain.MethodDescriptor {
	return []domain.MethodDescriptor{
		{Name: "getBudgets", Category: domain.CategoryLifecycle},
		{Name: "loadBudget", Category: domain.CategoryLifecycle, Params: []domain.MethodParam{{Name: "budgetId", Type: "string", Required: true}}},
		{Name: "downloadBudget", Category: domain.CategoryLifecycle, Params: []domain.MethodParam{
			{Name: "syncId", Type: "string", Required: true},
			{Name: "options", Type: "{ password?: string }"},
		}},
		{Name: "sync", Category: domain.CategoryLifecycle},
		{Name: "getAccounts", Category: domain.CategoryAccounts},
		{Name: "getPayees", Category: domain.CategoryPayees},
		{Name: "getCategories", Category: domain.CategoryCategories},
		{Name: "getRules", Category: domain.CategoryRules},
		{Name: "getTransactions", Category: domain.CategoryTransactions, Params: []domain.MethodParam{
			{Name: "accountId", Type: "string", Required: true},
			{Name: "startDate", Type: "string", Required: true},
			{Name: "endDate", Type: "string", Required: true},
		}},
		{Name: "addTransactions", Category: domain.CategoryTransactions, Params: []domain.MethodParam{
			{Name: "accountId", Type: "string", Required: true},
			{Name: "transactions", Type: "Transaction[]", Required: true},
			{Name: "opts", Type: "{ learnCategories?: boolean }"},
		}},
		{Name: "setBudgetAmount", Category: domain.CategoryBudget, Params: []domain.MethodParam{
			{Name: "month", Type: "string", Required: true},
			{Name: "categoryId", Type: "string", Required: true},
			{Name: "value", Type: "number", Required: true},
		}},
		{Name: "getScheduleOccurrences", Category: domain.CategorySchedules, Params: []domain.MethodParam{
			{Name: "scheduleId", Type: "string", Required: true},
		}},
		{Name: "batchBudgetUpdates", Category: domain.CategoryBudget, Params: []domain.MethodParam{
			{Name: "func", Type: "() => Promise<void>", Required: true},
		}},
	}
}

type fixture struct {
	client   *mocks.MockFinanceClient
	registry *Registry
	resolver *Resolver
	loader   *Loader
	session  *Session
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	client := mocks.NewMockFinanceClient(t)
	registry, err := NewRegistry(testDescriptors(), client)
	require.NoError(t, err)

	loader := NewLoader(client, nil)
	return fixture{
		client:   client,
		registry: registry,
		resolver: NewResolver(registry),
		loader:   loader,
		session:  NewSession(client, testInitOptions, loader, nil),
	}
}

func budgetListing(budgets ...map[string]any) []any {
	out := make([]any, 0, len(budgets))
	for _, budget := range budgets {
		out = append(out, budget)
	}
	return out
}

func noArgs() interface{} {
	return []any(nil)
}

func mockAnyContext() interface{} {
	return mock.Anything
}
