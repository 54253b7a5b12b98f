package application

import (
	"testing"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	client := mocks.NewMockFinanceClient(t)
	descriptors := []domain.MethodDescriptor{
		{Name: "getAccounts", Category: domain.CategoryAccounts},
		{Name: "getAccounts", Category: domain.CategoryAccounts},
	}

	_, err := NewRegistry(descriptors, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistryRejectsUnknownCategory(t *testing.T) {
	client := mocks.NewMockFinanceClient(t)

	_, err := NewRegistry([]domain.MethodDescriptor{{Name: "getAccounts", Category: "misc"}}, client)
	require.Error(t, err)
}

func TestNewRegistryRejectsNilClient(t *testing.T) {
	_, err := NewRegistry(testDescriptors(), nil)
	require.Error(t, err)
}

func TestRegistryListingsFollowConventionAndOverrides(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"accountId", "budgetId", "categoryId", "syncId", "transferAccountId", "transferCategoryId"}, f.registry.ListingParams())

	rule, ok := f.registry.listingFor("accountId")
	require.True(t, ok)
	assert.Equal(t, listingRule{Method: "getAccounts", Field: "id"}, rule)

	rule, ok = f.registry.listingFor("syncId")
	require.True(t, ok)
	assert.Equal(t, listingRule{Method: "getBudgets", Field: "groupId"}, rule)

	_, ok = f.registry.listingFor("scheduleId")
	assert.False(t, ok, "getSchedules is not in the manifest")
}

func TestRegistryMethodsKeepManifestOrder(t *testing.T) {
	f := newFixture(t)

	methods := f.registry.Methods()
	require.Len(t, methods, len(testDescriptors()))
	assert.Equal(t, "getBudgets", methods[0].Name)
	assert.Equal(t, "batchBudgetUpdates", methods[len(methods)-1].Name)
}
