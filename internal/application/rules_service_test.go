package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rulesPayload() []any {
	return []any{
		map[string]any{
			"id":           "r1",
			"stage":        nil,
			"conditionsOp": "and",
			"conditions": []any{
				map[string]any{"field": "amount", "op": "gt", "value": 0, "options": map[string]any{"inflow": true}},
			},
			"actions": []any{map[string]any{"op": "set", "field": "category", "value": "c1"}},
		},
		map[string]any{
			"id":           "r2",
			"stage":        "pre",
			"conditionsOp": "or",
			"conditions":   []any{},
			"actions":      []any{},
		},
	}
}

func TestRulesServiceFiltersByStage(t *testing.T) {
	f := newFixture(t)
	f.session.MarkActive(domain.ActiveBudget{ID: budgetLocalID})
	f.client.EXPECT().Call(mockAnyContext(), "getRules", noArgs()).Return(rulesPayload(), nil)

	service := NewRulesService(f.client, f.session, nil, nil)

	result, err := service.Rules(context.Background(), RulesRequest{Stage: domain.StageFilterRun})
	require.NoError(t, err)
	require.Len(t, result.Rules, 1)
	assert.Equal(t, "r1", result.Rules[0].ID)
	assert.Equal(t, domain.StageDefault, result.Rules[0].Stage)
	assert.Nil(t, result.Names)

	result, err = service.Rules(context.Background(), RulesRequest{Stage: domain.StageFilterPre})
	require.NoError(t, err)
	require.Len(t, result.Rules, 1)
	assert.Equal(t, "r2", result.Rules[0].ID)

	result, err = service.Rules(context.Background(), RulesRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Rules, 2)
}

func TestRulesServiceBuildsNameMaps(t *testing.T) {
	f := newFixture(t)
	f.session.MarkActive(domain.ActiveBudget{ID: budgetLocalID})
	f.client.EXPECT().Call(mockAnyContext(), "getRules", noArgs()).Return(rulesPayload(), nil)
	f.client.EXPECT().Call(mockAnyContext(), "getPayees", noArgs()).Return([]any{
		map[string]any{"id": "p1", "name": "Corner Store"},
	}, nil)
	f.client.EXPECT().Call(mockAnyContext(), "getCategories", noArgs()).Return([]any{
		map[string]any{"id": "c1", "name": "Groceries"},
	}, nil)
	f.client.EXPECT().Call(mockAnyContext(), "getAccounts", noArgs()).Return(nil, errors.New("timeout"))

	service := NewRulesService(f.client, f.session, nil, nil)

	result, err := service.Rules(context.Background(), RulesRequest{ResolveNames: true})
	require.NoError(t, err)
	require.NotNil(t, result.Names)
	assert.Equal(t, map[string]string{"p1": "Corner Store"}, result.Names.Payees)
	assert.Equal(t, map[string]string{"c1": "Groceries"}, result.Names.Categories)
	assert.Empty(t, result.Names.Accounts)
}

func TestRulesServiceRequiresActiveBudget(t *testing.T) {
	f := newFixture(t)
	service := NewRulesService(f.client, f.session, nil, nil)

	_, err := service.Rules(context.Background(), RulesRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestRulesServiceRejectsUnknownStage(t *testing.T) {
	f := newFixture(t)
	service := NewRulesService(f.client, f.session, nil, nil)

	_, err := service.Rules(context.Background(), RulesRequest{Stage: "later"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRulesServiceRecordsCall(t *testing.T) {
	f := newFixture(t)
	f.session.MarkActive(domain.ActiveBudget{ID: budgetLocalID})
	f.client.EXPECT().Call(mockAnyContext(), "getRules", noArgs()).Return(rulesPayload(), nil).Once()

	journal := mocks.NewMockCallJournal(t)
	journal.EXPECT().Record(mockAnyContext(), mock.MatchedBy(func(record domain.CallRecord) bool {
		return record.Method == "get_rules" && record.Success && record.BudgetID == budgetLocalID
	})).Return(nil).Once()

	service := NewRulesService(f.client, f.session, NewCallRecorder(f.session, RecorderOptions{Journal: journal}), nil)

	_, err := service.Rules(context.Background(), RulesRequest{})
	require.NoError(t, err)
}

func TestRulesServiceRecordsFailure(t *testing.T) {
	f := newFixture(t)

	journal := mocks.NewMockCallJournal(t)
	journal.EXPECT().Record(mockAnyContext(), mock.MatchedBy(func(record domain.CallRecord) bool {
		return record.Method == "get_rules" && !record.Success && record.ErrorCode == "PRECONDITION_FAILED"
	})).Return(nil).Once()

	service := NewRulesService(f.client, f.session, NewCallRecorder(f.session, RecorderOptions{Journal: journal}), nil)

	_, err := service.Rules(context.Background(), RulesRequest{})
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRECONDITION_FAILED", domainErr.Code())
}
