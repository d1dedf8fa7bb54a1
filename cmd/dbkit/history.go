package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbkit/dbkit/history"
	"github.com/dbkit/dbkit/tui/theme"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "history [pattern]",
		Short: "Show recent queries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadConfig()

			hist, err := history.New()
			if err != nil {
				return err
			}
			defer hist.Close()

			if clear {
				if err := hist.Clear(); err != nil {
					return err
				}
				fmt.Println("History cleared.")
				return nil
			}

			var entries []history.Entry
			if len(args) == 1 {
				entries, err = hist.Search("%"+args[0]+"%", limit)
			} else {
				entries, err = hist.Recent(limit)
			}
			if err != nil {
				return err
			}

			th := theme.Current
			if len(entries) == 0 {
				fmt.Println(th.MutedText.Render("(no history)"))
				return nil
			}
			for _, e := range entries {
				status := th.SuccessText.Render(" ok")
				if e.IsError {
					status = th.ErrorText.Render("err")
				}
				fmt.Printf("%s  %s  %s\n",
					th.MutedText.Render(e.ExecutedAt.Format("2006-01-02 15:04:05")),
					status,
					firstLine(e.Query))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all history entries")
	return cmd
}

// firstLine collapses a multi-line query for single-line display.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
