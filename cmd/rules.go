package cmd

import (
	"context"
	"fmt"

	rulesfmt "github.com/bnema/actual-mcp/internal/adapters/render/rules"
	"github.com/bnema/actual-mcp/internal/application"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/spf13/cobra"
)

func newRulesCmd(holder *appHolder) *cobra.Command {
	var (
		stage   string
		asJSON  bool
		noNames bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the transaction rules of a budget, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.run(cmd, func(a *app) error {
				if err := a.requireServer(); err != nil {
					return err
				}

				req := application.RulesRequest{
					BudgetRef:    a.cfg.BudgetID,
					Stage:        domain.StageFilter(stage),
					ResolveNames: !noNames && !asJSON,
				}

				var result application.RulesResult
				err := runRemote(cmd, "Fetching rules...", quiet, func(ctx context.Context) error {
					var rulesErr error
					result, rulesErr = a.rules.Rules(ctx, req)
					return rulesErr
				})
				if err != nil {
					return describeError(err, a.cfg.Debug)
				}

				if asJSON {
					return writeJSON(cmd, result.Rules)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), rulesfmt.Format(result.Rules, result.Names))
				return err
			})
		},
	}

	cmd.Flags().String("budget", "", "Budget id or name (env ACTUAL_BUDGET_ID)")
	cmd.Flags().StringVar(&stage, "stage", string(domain.StageFilterAll), "Only rules of this stage: pre, run, post or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw rule objects as JSON")
	cmd.Flags().BoolVar(&noNames, "no-names", false, "Show ids instead of payee, category and account names")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Do not show progress on stderr")

	return cmd
}
