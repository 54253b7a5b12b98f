package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/spf13/cobra"
)

var errEmptyPassword = errors.New("password is empty")

func newPasswordCmd(holder *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage the stored server password",
		Long:  "The password is stored under password_ref (default actual-mcp/<host>/password) in pass, or in a file under the data directory when pass is unavailable.",
	}

	cmd.AddCommand(newPasswordSetCmd(holder), newPasswordClearCmd(holder))
	return cmd
}

func newPasswordSetCmd(holder *appHolder) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the server password (reads stdin when --value is omitted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.run(cmd, func(a *app) error {
				ref, err := passwordRef(a)
				if err != nil {
					return err
				}

				if value == "" {
					value, err = readLine(cmd)
					if err != nil {
						return err
					}
				}
				if strings.TrimSpace(value) == "" {
					return errEmptyPassword
				}

				if err := a.secretStore.Put(cmd.Context(), ref, value); err != nil {
					return fmt.Errorf("store password: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "password stored as %s\n", ref)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Password value")
	return cmd
}

func newPasswordClearCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored server password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.run(cmd, func(a *app) error {
				ref, err := passwordRef(a)
				if err != nil {
					return err
				}
				if err := a.secretStore.Delete(cmd.Context(), ref); err != nil {
					return fmt.Errorf("remove password: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "password %s removed\n", ref)
				return err
			})
		},
	}
}

func passwordRef(a *app) (string, error) {
	if a.cfg.PasswordRef == "" {
		return "", domain.NewConfigurationError("set server_url or password_ref to choose where the password is stored")
	}
	return a.cfg.PasswordRef, nil
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
