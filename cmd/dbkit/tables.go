package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dbkit/dbkit/adapter"
	"github.com/dbkit/dbkit/tui/theme"
)

func newTablesCmd() *cobra.Command {
	var flags connFlags

	cmd := &cobra.Command{
		Use:   "tables [table]",
		Short: "List tables, or describe one table's columns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			driver, dsn, err := flags.resolve(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			conn, err := openConn(ctx, driver, dsn)
			if err != nil {
				return err
			}
			defer conn.Close()

			if len(args) == 1 {
				return describeTable(ctx, conn, args[0])
			}
			return listTables(ctx, conn)
		},
	}

	flags.register(cmd)
	return cmd
}

func listTables(ctx context.Context, conn adapter.Conn) error {
	tables, err := conn.Tables(ctx)
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		fmt.Println(theme.Current.MutedText.Render("(no tables)"))
		return nil
	}
	for _, t := range tables {
		fmt.Println(t.Name)
	}
	return nil
}

func describeTable(ctx context.Context, conn adapter.Conn, table string) error {
	cols, err := conn.Columns(ctx, table)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("no such table: %s", table)
	}

	res := &adapter.Result{
		Columns: []adapter.ColumnMeta{
			{Name: "column"},
			{Name: "type"},
			{Name: "nullable"},
			{Name: "default"},
			{Name: "key"},
		},
		Rows:     make([][]string, 0, len(cols)),
		RowCount: int64(len(cols)),
		IsSelect: true,
	}
	for _, c := range cols {
		nullable := "NO"
		if c.Nullable {
			nullable = "YES"
		}
		def := c.Default
		if def == "" {
			def = "NULL"
		}
		key := ""
		if c.IsPK {
			key = "PRI"
		}
		res.Rows = append(res.Rows, []string{c.Name, c.Type, nullable, def, key})
	}

	printResult(os.Stdout, res)
	return nil
}
