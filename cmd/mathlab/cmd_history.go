package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mathlab/cmd/mathlab/ui"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent evaluations and analyses",
	Long: `Lists the newest history entries first. History is kept only when
history.database_path is set in the config (or MATHLAB_DB).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Number of entries (default from config)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	out := cmd.OutOrStdout()
	if !h.Enabled() {
		fmt.Fprintln(out, styles.Warn.Render("History is disabled. Set history.database_path in the config or MATHLAB_DB."))
		return nil
	}

	ctx := commandContext(cmd)
	if historyClear {
		n, err := h.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, styles.Result.Render(fmt.Sprintf("Deleted %d entries.", n)))
		return nil
	}

	limit := cfg.History.DefaultLimit
	if cmd.Flags().Changed("limit") {
		limit = historyLimit
	}
	entries, err := h.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, styles.Muted.Render("No history yet."))
		return nil
	}

	table := ui.NewSimpleTable(fmt.Sprintf("History (%d)", len(entries)), "TIME", "KIND", "INPUT", "OUTPUT")
	for _, e := range entries {
		output := e.Output
		if e.IsError {
			output = "error: " + output
		}
		table.AddRow(e.CreatedAt.Local().Format("2006-01-02 15:04:05"), string(e.Kind), e.Input, output)
	}
	fmt.Fprint(out, table.View(styles))
	return nil
}
