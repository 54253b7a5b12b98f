package cmd

import (
	"errors"

	"github.com/bnema/actual-mcp/internal/config"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

// appHolder wires the app on first use so flags are parsed before the config
// is read.
type appHolder struct {
	app *app
}

func (h *appHolder) get(cmd *cobra.Command) (*app, error) {
	if h.app != nil {
		return h.app, nil
	}

	configFile, _ := cmd.Flags().GetString("config")
	v := config.NewViper(configFile)
	for flag, key := range map[string]string{
		"server-url": config.KeyServerURL,
		"budget":     config.KeyBudgetID,
		"data-dir":   config.KeyDataDir,
		"log-level":  config.KeyLogLevel,
		"debug":      config.KeyDebug,
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	a, err := wireApp(cmd.Context(), v)
	if err != nil {
		return nil, err
	}
	h.app = a
	return a, nil
}

// run hands the wired app to fn and releases it afterwards.
func (h *appHolder) run(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := h.get(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, h.close())
	}()
	return fn(a)
}

func (h *appHolder) close() error {
	if h.app == nil {
		return nil
	}
	err := h.app.close()
	h.app = nil
	return err
}

func newRootCmd() *cobra.Command {
	holder := &appHolder{}

	rootCmd := &cobra.Command{
		Use:           "actual-mcp",
		Short:         "Model Context Protocol server for Actual Budget",
		Long:          "actual-mcp exposes the Actual Budget API to agents as a handful of generic MCP tools over stdio, and mirrors those tools as CLI commands for operators.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default $XDG_CONFIG_HOME/actual-mcp/config.toml)")
	flags.String("server-url", "", "Actual server URL (env ACTUAL_SERVER_URL)")
	flags.String("data-dir", "", "Local budget cache directory (env ACTUAL_DATA_DIR)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("debug", false, "Include diagnostic details in error output")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(holder),
		newMethodsCmd(holder),
		newCallCmd(holder),
		newRulesCmd(holder),
		newPasswordCmd(holder),
		newJournalCmd(holder),
	)

	return rootCmd
}
