package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbkit/dbkit/adapter"
	"github.com/dbkit/dbkit/config"
	"github.com/dbkit/dbkit/secrets"
	"github.com/dbkit/dbkit/tui/theme"

	// Register database drivers
	_ "github.com/dbkit/dbkit/adapter/mysql"
	_ "github.com/dbkit/dbkit/adapter/postgres"
	_ "github.com/dbkit/dbkit/adapter/sqlite"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	auditMaxSizeMB = 10
	streamPageSize = 1000
)

var configFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "dbkit",
		Short: "Database toolkit for the terminal",
		Long: `dbkit runs SQL against PostgreSQL, MySQL and SQLite, exports results
to CSV, JSON and XLSX, and manages saved connections.

Examples:
  dbkit run "SELECT * FROM users" --dsn postgres://localhost/app
  dbkit run --conn staging --out users.xlsx
  echo "SELECT 1" | dbkit run - --dsn ./data.db
  dbkit conn add staging
  dbkit tables --conn staging`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path")

	rootCmd.AddCommand(
		newRunCmd(),
		newTablesCmd(),
		newConnCmd(),
		newSealCmd(),
		newOpenCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dbkit %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Println("\nSupported drivers:")
			for _, name := range driverNames() {
				fmt.Printf("  - %s\n", name)
			}
		},
	}
}

// loadConfig loads the config from --config or the default path, falling
// back to defaults with a warning, and activates the configured theme.
func loadConfig() *config.Config {
	var cfg *config.Config
	var err error
	if configFlag != "" {
		cfg, err = config.Load(configFlag)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	theme.Current = theme.Get(cfg.Theme)
	return cfg
}

func saveConfig(cfg *config.Config) error {
	if configFlag != "" {
		return cfg.Save(configFlag)
	}
	return cfg.SaveDefault()
}

// connFlags selects the target database for run and tables.
type connFlags struct {
	dsn    string
	conn   string
	driver string
}

func (f *connFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "Connection string (postgres://…, user@tcp(…)/db, file.db)")
	cmd.Flags().StringVar(&f.conn, "conn", "", "Saved connection name")
	cmd.Flags().StringVarP(&f.driver, "driver", "d", "", "Driver name (postgres, mysql, sqlite)")
}

// resolve picks driver and DSN from the flags. A sealed stored password
// is unsealed with a prompted passphrase before the DSN is built.
func (f *connFlags) resolve(cfg *config.Config) (driver, dsn string, err error) {
	if f.conn != "" {
		sc, ok := cfg.Connection(f.conn)
		if !ok {
			return "", "", fmt.Errorf("no saved connection named %q", f.conn)
		}
		c := *sc
		if secrets.IsSealed(c.Password) {
			pass, err := readPassphrase("Passphrase")
			if err != nil {
				return "", "", err
			}
			plain, err := secrets.OpenString(pass, c.Password)
			if err != nil {
				return "", "", err
			}
			c.Password = plain
		}
		return c.Driver, c.BuildDSN(), nil
	}

	if f.dsn == "" {
		return "", "", fmt.Errorf("no connection given (use --dsn or --conn)")
	}

	driver = f.driver
	if driver == "" {
		driver = detectDriver(f.dsn)
	}
	if driver == "" {
		return "", "", fmt.Errorf("cannot detect driver from DSN, use --driver")
	}
	return driver, f.dsn, nil
}

func openConn(ctx context.Context, driver, dsn string) (adapter.Conn, error) {
	if _, ok := adapter.Registry[driver]; !ok {
		return nil, fmt.Errorf("unknown driver: %s (available: %s)", driver, strings.Join(driverNames(), ", "))
	}
	return adapter.Open(ctx, driver, dsn)
}

func driverNames() []string {
	names := make([]string, 0, len(adapter.Registry))
	for name := range adapter.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// detectDriver guesses the driver from the DSN shape.
func detectDriver(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql"
	case strings.HasPrefix(lower, "sqlite://") || strings.HasPrefix(lower, "file:"):
		return "sqlite"
	case lower == ":memory:":
		return "sqlite"
	case strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	case strings.Contains(lower, "@tcp("):
		return "mysql"
	}
	// Last resort: anything with credentials is probably PostgreSQL.
	if strings.Contains(dsn, "@") {
		return "postgres"
	}
	return ""
}
