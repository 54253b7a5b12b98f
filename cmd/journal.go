package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sqlitejournal "github.com/bnema/actual-mcp/internal/adapters/journal/sqlite"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const defaultJournalLimit = 20

var journalHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)

func newJournalCmd(holder *appHolder) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the most recent call_method invocations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.run(cmd, func(a *app) (err error) {
				store := a.journal
				if store == nil {
					store, err = sqlitejournal.Open(a.cfg.Journal.Path)
					if err != nil {
						return err
					}
					defer func() {
						err = errors.Join(err, store.Close())
					}()
				}

				records, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, journalEntries(records))
				}
				if len(records) == 0 {
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "no calls recorded in %s\n", a.cfg.Journal.Path)
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), renderJournal(records))
				return err
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultJournalLimit, "Number of calls to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

type journalEntry struct {
	ID         string         `json:"id"`
	Method     string         `json:"method"`
	BudgetID   string         `json:"budget_id,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Success    bool           `json:"success"`
	ErrorCode  string         `json:"error_code,omitempty"`
	Message    string         `json:"message,omitempty"`
	Diagnostic map[string]any `json:"diagnostic,omitempty"`
}

func journalEntries(records []domain.CallRecord) []journalEntry {
	out := make([]journalEntry, 0, len(records))
	for _, r := range records {
		out = append(out, journalEntry{
			ID:         r.ID,
			Method:     r.Method,
			BudgetID:   r.BudgetID,
			StartedAt:  r.StartedAt,
			DurationMS: r.Duration.Milliseconds(),
			Success:    r.Success,
			ErrorCode:  r.ErrorCode,
			Message:    r.Message,
			Diagnostic: r.Diagnostic,
		})
	}
	return out
}

func renderJournal(records []domain.CallRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		status := "ok"
		if !r.Success {
			status = r.ErrorCode
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			r.Method,
			r.BudgetID,
			strconv.FormatInt(r.Duration.Milliseconds(), 10) + "ms",
			status,
			r.Message,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STARTED", "METHOD", "BUDGET", "DURATION", "STATUS", "MESSAGE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return journalHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
