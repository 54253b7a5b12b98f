package application

import (
	"context"
	"fmt"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
)

// budgetGateway is the typed view of the budget lifecycle operations. It talks
// to the client directly so activation works whatever the manifest lists.
type budgetGateway struct {
	client ports.FinanceClient
}

func (g budgetGateway) list(ctx context.Context) ([]domain.Budget, error) {
	result, err := g.client.Call(ctx, methodGetBudgets, nil)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	var budgets []domain.Budget
	if err := decodeInto(result, &budgets); err != nil {
		return nil, domain.NewUnderlyingError("getBudgets returned an unexpected shape", nil, err)
	}
	return budgets, nil
}

func (g budgetGateway) download(ctx context.Context, syncID string) error {
	if _, err := g.client.Call(ctx, methodDownloadBudget, []any{syncID}); err != nil {
		return fmt.Errorf("download budget %s: %w", syncID, err)
	}
	return nil
}

func (g budgetGateway) load(ctx context.Context, id string) error {
	if _, err := g.client.Call(ctx, methodLoadBudget, []any{id}); err != nil {
		return fmt.Errorf("load budget %s: %w", id, err)
	}
	return nil
}

func findBudget(budgets []domain.Budget, match func(domain.Budget) bool) (domain.Budget, bool) {
	for _, budget := range budgets {
		if match(budget) {
			return budget, true
		}
	}
	return domain.Budget{}, false
}

func budgetAlternatives(budgets []domain.Budget) []string {
	alternatives := make([]string, 0, len(budgets))
	for _, budget := range budgets {
		ref := budget.ID
		if ref == "" {
			ref = "sync:" + budget.GroupID
		}
		alternatives = append(alternatives, fmt.Sprintf("%s (%s)", budget.Name, ref))
	}
	return alternatives
}
