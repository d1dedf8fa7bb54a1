package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dbkit/dbkit/config"
	"github.com/dbkit/dbkit/secrets"
	"github.com/dbkit/dbkit/tui/form"
	"github.com/dbkit/dbkit/tui/picker"
	"github.com/dbkit/dbkit/tui/theme"
)

func newConnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conn",
		Short: "Manage saved connections",
	}
	cmd.AddCommand(
		newConnListCmd(),
		newConnAddCmd(),
		newConnEditCmd(),
		newConnRemoveCmd(),
	)
	return cmd
}

func newConnListCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			if len(cfg.Connections) == 0 {
				fmt.Println(theme.Current.MutedText.Render("(no saved connections)"))
				return nil
			}

			if plain || !stdinIsTerminal() {
				for i := range cfg.Connections {
					sc := &cfg.Connections[i]
					fmt.Printf("%-20s %s\n", sc.Name, sc.DisplayString())
				}
				return nil
			}

			items := make([]picker.Item, len(cfg.Connections))
			for i := range cfg.Connections {
				sc := &cfg.Connections[i]
				items[i] = picker.Item{Label: sc.Name, Detail: sc.DisplayString()}
			}

			final, err := tea.NewProgram(picker.New("Saved connections", items)).Run()
			if err != nil {
				return fmt.Errorf("run picker: %w", err)
			}
			if m, ok := final.(picker.Model); ok {
				if item, chosen := m.Choice(); chosen {
					fmt.Printf("%s\t%s\n", item.Label, item.Detail)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print one connection per line without the picker")
	return cmd
}

func newConnAddCmd() *cobra.Command {
	var (
		fields connFieldFlags
		seal   bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a saved connection",
		Long: `Add a saved connection. Without field flags an interactive form opens;
with them the connection is saved directly.

Examples:
  dbkit conn add staging
  dbkit conn add local -d sqlite -f ./app.db
  dbkit conn add prod -d postgres -H db.internal -p 5432 -u app --database app --seal`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			var sc config.SavedConnection
			if len(args) == 1 {
				sc.Name = args[0]
			}

			if fields.any() {
				if sc.Name == "" {
					return fmt.Errorf("connection name required when using field flags")
				}
				fields.apply(&sc)
				if sc.Driver == "" && sc.DSN != "" {
					sc.Driver = detectDriver(sc.DSN)
				}
				if sc.Driver == "" {
					return fmt.Errorf("driver required (use --driver or a recognizable --dsn)")
				}
			} else {
				g := connectionForm(&sc)
				ok, err := runForm("New connection", g)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(os.Stderr, "Cancelled.")
					return nil
				}
				sc, err = connectionFromForm(g)
				if err != nil {
					return err
				}
			}

			if _, exists := cfg.Connection(sc.Name); exists {
				return fmt.Errorf("connection %q already exists (use conn edit)", sc.Name)
			}

			if seal {
				if err := sealConnection(&sc); err != nil {
					return err
				}
			}

			cfg.Upsert(sc)
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("Saved connection %q.\n", sc.Name)
			return nil
		},
	}

	fields.register(cmd)
	cmd.Flags().BoolVar(&seal, "seal", false, "Seal the password with a passphrase")
	return cmd
}

func newConnEditCmd() *cobra.Command {
	var (
		fields connFieldFlags
		seal   bool
	)

	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Edit a saved connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			existing, ok := cfg.Connection(args[0])
			if !ok {
				return fmt.Errorf("no saved connection named %q", args[0])
			}
			sc := *existing

			if fields.any() {
				fields.apply(&sc)
			} else {
				g := connectionForm(&sc)
				submitted, err := runForm("Edit connection", g)
				if err != nil {
					return err
				}
				if !submitted {
					fmt.Fprintln(os.Stderr, "Cancelled.")
					return nil
				}
				sc, err = connectionFromForm(g)
				if err != nil {
					return err
				}
			}

			if seal {
				if err := sealConnection(&sc); err != nil {
					return err
				}
			}

			// Renaming replaces the old entry instead of leaving both.
			if sc.Name != args[0] {
				cfg.Remove(args[0])
			}
			cfg.Upsert(sc)
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("Updated connection %q.\n", sc.Name)
			return nil
		},
	}

	fields.register(cmd)
	cmd.Flags().BoolVar(&seal, "seal", false, "Seal the password with a passphrase")
	return cmd
}

func newConnRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a saved connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			if !cfg.Remove(args[0]) {
				return fmt.Errorf("no saved connection named %q", args[0])
			}
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("Removed connection %q.\n", args[0])
			return nil
		},
	}
}

// connFieldFlags mirrors the SavedConnection fields for scripted use.
type connFieldFlags struct {
	driver   string
	dsn      string
	host     string
	port     int
	user     string
	password string
	database string
	file     string
}

func (f *connFieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.driver, "driver", "d", "", "Driver name (postgres, mysql, sqlite)")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "Full connection string (overrides the other fields)")
	cmd.Flags().StringVarP(&f.host, "host", "H", "", "Database host")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Database port")
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "Database user")
	cmd.Flags().StringVarP(&f.password, "password", "P", "", "Database password")
	cmd.Flags().StringVar(&f.database, "database", "", "Database name")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Database file (sqlite)")
}

func (f *connFieldFlags) any() bool {
	return f.driver != "" || f.dsn != "" || f.host != "" || f.port != 0 ||
		f.user != "" || f.password != "" || f.database != "" || f.file != ""
}

func (f *connFieldFlags) apply(sc *config.SavedConnection) {
	if f.driver != "" {
		sc.Driver = strings.ToLower(f.driver)
	}
	if f.dsn != "" {
		sc.DSN = f.dsn
	}
	if f.host != "" {
		sc.Host = f.host
	}
	if f.port != 0 {
		sc.Port = f.port
	}
	if f.user != "" {
		sc.User = f.user
	}
	if f.password != "" {
		sc.Password = f.password
	}
	if f.database != "" {
		sc.Database = f.database
	}
	if f.file != "" {
		sc.File = f.file
	}
}

// connectionForm builds the interactive field group, prefilled from sc.
func connectionForm(sc *config.SavedConnection) *form.Group {
	g := form.NewGroup(
		form.NewField("name", "Name", form.Required()),
		form.NewField("driver", "Driver", form.Required(), form.WithPlaceholder("postgres, mysql or sqlite")),
		form.NewField("host", "Host", form.WithPlaceholder("localhost")),
		form.NewField("port", "Port", form.WithWidth(6)),
		form.NewField("user", "User"),
		form.NewField("password", "Password", form.WithEchoPassword()),
		form.NewField("database", "Database"),
		form.NewField("file", "File", form.WithPlaceholder("path for sqlite")),
	)

	values := map[string]string{
		"name":     sc.Name,
		"driver":   sc.Driver,
		"host":     sc.Host,
		"user":     sc.User,
		"password": sc.Password,
		"database": sc.Database,
		"file":     sc.File,
	}
	if sc.Port > 0 {
		values["port"] = strconv.Itoa(sc.Port)
	}
	g.SetValues(values)
	return g
}

func connectionFromForm(g *form.Group) (config.SavedConnection, error) {
	values := g.Values()
	sc := config.SavedConnection{
		Name:     strings.TrimSpace(values["name"]),
		Driver:   strings.ToLower(strings.TrimSpace(values["driver"])),
		Host:     strings.TrimSpace(values["host"]),
		User:     strings.TrimSpace(values["user"]),
		Password: values["password"],
		Database: strings.TrimSpace(values["database"]),
		File:     strings.TrimSpace(values["file"]),
	}
	if p := strings.TrimSpace(values["port"]); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return sc, fmt.Errorf("invalid port %q", p)
		}
		sc.Port = port
	}
	return sc, nil
}

// sealConnection seals the password in place. Already-sealed values and
// empty passwords are left alone.
func sealConnection(sc *config.SavedConnection) error {
	if sc.Password == "" || secrets.IsSealed(sc.Password) {
		return nil
	}
	pass, err := confirmPassphrase()
	if err != nil {
		return err
	}
	sealed, err := secrets.SealString(pass, sc.Password)
	if err != nil {
		return err
	}
	sc.Password = sealed
	return nil
}
