package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/actual-mcp/internal/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newServeCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio",
		Long:  "serve speaks the Model Context Protocol on stdin/stdout. Logs go to stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.run(cmd, func(a *app) error {
				return runServe(cmd, a)
			})
		},
	}

	cmd.Flags().String("budget", "", "Budget id or name to open at startup (env ACTUAL_BUDGET_ID)")

	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	if err := a.requireServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.BudgetID != "" {
		activateAtStartup(ctx, a)
	}

	stdio := server.NewStdioServer(a.mcpServer())
	stdio.SetErrorLogger(log.StdLogger())

	a.logger.Infow("serving MCP over stdio", "server_url", a.cfg.ServerURL, "config", a.cfg.File)
	err := stdio.Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Infow("shutting down")
	return nil
}

// activateAtStartup opens the configured budget. Failure is logged and the
// server keeps serving; tool calls can still pick a budget.
func activateAtStartup(ctx context.Context, a *app) {
	if err := a.session.EnsureActive(ctx, a.cfg.BudgetID); err != nil {
		a.logger.Warnw("could not open configured budget", "budget", a.cfg.BudgetID, "error", err)
		return
	}
	if active, ok := a.session.Active(); ok {
		a.logger.Infow("budget open", "budget_id", active.ID, "budget_name", active.Name)
	}
}
