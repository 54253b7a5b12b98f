package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/spf13/cobra"
)

func newCallCmd(holder *appHolder) *cobra.Command {
	var (
		params string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "call <method>",
		Short: "Call a finance API method with named parameters",
		Example: `  actual-mcp call getAccounts --budget "My Finances"
  actual-mcp call getTransactions --params '{"accountId":"Checking","startDate":"2026-01-01","endDate":"2026-01-31"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.TrimSpace(args[0])

			named, err := decodeParams(params)
			if err != nil {
				return err
			}

			return holder.run(cmd, func(a *app) error {
				if err := a.requireServer(); err != nil {
					return err
				}

				var result any
				err := runRemote(cmd, "Calling "+method+"...", quiet, func(ctx context.Context) error {
					if a.cfg.BudgetID != "" {
						if err := a.session.EnsureActive(ctx, a.cfg.BudgetID); err != nil {
							return err
						}
					}
					var callErr error
					result, callErr = a.invoker.Invoke(ctx, method, named)
					return callErr
				})
				if err != nil {
					return describeError(err, a.cfg.Debug)
				}

				return writeJSON(cmd, result)
			})
		},
	}

	cmd.Flags().StringVar(&params, "params", "", "Named parameters as a JSON object")
	cmd.Flags().String("budget", "", "Budget id or name to open first (env ACTUAL_BUDGET_ID)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Do not show progress on stderr")

	return cmd
}

func decodeParams(raw string) (map[string]any, error) {
	named := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return named, nil
	}
	if err := json.Unmarshal([]byte(raw), &named); err != nil {
		return nil, fmt.Errorf("decode --params: %w", err)
	}
	if named == nil {
		named = map[string]any{}
	}
	return named, nil
}

// describeError appends the hint and alternatives of a domain error so the
// terminal shows the same guidance a tool caller gets.
func describeError(err error, debug bool) error {
	domainErr := domain.AsError(err)

	var b strings.Builder
	b.WriteString(domainErr.Error())
	fmt.Fprintf(&b, " [%s]", domainErr.Code())
	if domainErr.Hint != "" {
		fmt.Fprintf(&b, "\nhint: %s", domainErr.Hint)
	}
	if len(domainErr.Alternatives) > 0 {
		fmt.Fprintf(&b, "\nalternatives: %s", strings.Join(domainErr.Alternatives, ", "))
	}
	if debug && len(domainErr.Details) > 0 {
		if details, encodeErr := json.Marshal(domainErr.Details); encodeErr == nil {
			fmt.Fprintf(&b, "\ndetails: %s", details)
		}
	}

	return &cliError{message: b.String(), cause: err}
}

type cliError struct {
	message string
	cause   error
}

func (e *cliError) Error() string {
	return e.message
}

func (e *cliError) Unwrap() error {
	return e.cause
}
