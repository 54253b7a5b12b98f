package application

import (
	"context"
	"fmt"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
	"github.com/bnema/actual-mcp/internal/ports"
)

// Loader finds a budget by id, name or sync id and loads it, downloading it
// first when only a remote copy exists.
type Loader struct {
	budgets budgetGateway
	logger  log.Logger
}

func NewLoader(client ports.FinanceClient, logger log.Logger) *Loader {
	if logger == nil {
		logger = log.Nop
	}
	return &Loader{budgets: budgetGateway{client: client}, logger: logger}
}

func (l *Loader) Activate(ctx context.Context, ref string) (domain.ActiveBudget, error) {
	budgets, err := l.budgets.list(ctx)
	if err != nil {
		return domain.ActiveBudget{}, err
	}

	budget, ok := findBudget(budgets, func(b domain.Budget) bool { return b.Matches(ref) })
	if !ok {
		return domain.ActiveBudget{}, domain.NewNotFoundError(
			fmt.Sprintf("no budget matches %q", ref),
			budgetAlternatives(budgets),
		)
	}

	switch {
	case budget.IsLocal():
	case budget.IsRemoteOnly():
		budget, err = l.fetch(ctx, budget)
		if err != nil {
			return domain.ActiveBudget{}, err
		}
	default:
		return domain.ActiveBudget{}, domain.NewNotFoundError(
			fmt.Sprintf("budget %q has neither a local nor a remote copy", budget.Name),
			budgetAlternatives(budgets),
		)
	}

	if err := l.budgets.load(ctx, budget.ID); err != nil {
		return domain.ActiveBudget{}, err
	}

	l.logger.Infow("budget loaded", "budget_id", budget.ID, "budget_name", budget.Name)

	return domain.ActiveBudget{ID: budget.ID, Name: budget.Name}, nil
}

// fetch downloads a remote-only budget and returns its freshly listed local entry.
// The local id does not exist before the download, so the listing is repeated.
func (l *Loader) fetch(ctx context.Context, remote domain.Budget) (domain.Budget, error) {
	l.logger.Infow("downloading remote budget", "sync_id", remote.GroupID, "budget_name", remote.Name)

	if err := l.budgets.download(ctx, remote.GroupID); err != nil {
		return domain.Budget{}, err
	}

	budgets, err := l.budgets.list(ctx)
	if err != nil {
		return domain.Budget{}, err
	}

	local, ok := findBudget(budgets, func(b domain.Budget) bool {
		return b.GroupID == remote.GroupID && b.IsLocal()
	})
	if !ok {
		return domain.Budget{}, domain.NewDownloadError(
			fmt.Sprintf("budget %q was downloaded but no local copy appeared", remote.Name),
		)
	}

	return local, nil
}

// localIDForSync returns the local id of the budget with the given sync id.
func (l *Loader) localIDForSync(ctx context.Context, syncID string) (domain.ActiveBudget, bool, error) {
	budgets, err := l.budgets.list(ctx)
	if err != nil {
		return domain.ActiveBudget{}, false, err
	}

	local, ok := findBudget(budgets, func(b domain.Budget) bool {
		return b.GroupID == syncID && b.IsLocal()
	})
	if !ok {
		return domain.ActiveBudget{}, false, nil
	}
	return domain.ActiveBudget{ID: local.ID, Name: local.Name}, true, nil
}
