package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pders01/fsearch/internal/storage"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = a.cfg.History.Limit
			}

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.GetRuns(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			fmt.Fprintln(out, renderRuns(out, runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of runs to show (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d recorded runs\n", n)
			return nil
		},
	})

	return cmd
}

func renderRuns(w io.Writer, runs []*storage.Run) string {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4")).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	failed := cell.Foreground(lipgloss.Color("#EF4444"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("#94A3B8"))).
		Headers("STARTED", "MODE", "GLOB", "EXPRESSION", "OUTPUT", "HITS", "ERRORS", "TOOK").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 6 && runs[row].Errors > 0:
				return failed
			default:
				return cell
			}
		})

	for _, run := range runs {
		t.Row(
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Glob,
			run.Expression,
			run.Output,
			strconv.Itoa(run.Hits),
			strconv.Itoa(run.Errors),
			run.Duration.Round(time.Millisecond).String(),
		)
	}

	return t.Render()
}
