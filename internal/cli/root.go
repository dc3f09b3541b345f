package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/config"
	"github.com/aidanlsb/sift/internal/logging"
	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/schema"
	"github.com/aidanlsb/sift/internal/store"
	"github.com/aidanlsb/sift/internal/ui"
)

var (
	// Global flags
	configPath   string
	schemaPath   string
	databasePath string
	logLevel     string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "sift - compile record filters and expansions against an entity catalog",
	Long: `sift compiles the filter, expansion and sort mini-languages used to list
records into validated query plans, checked against a YAML entity catalog.

It can also walk belongs_to relations to find a record's ancestor, using a
local SQLite record store loaded with 'sift import'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version", "completion":
			return nil
		}
		// Load early so logging is configured before the command runs. A
		// broken config is reported by the commands that depend on it.
		_, _ = loadConfig()
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "Path to the entity catalog (overrides config)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "database", "", "Path to the record store (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level written to stderr: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
}

// loadConfig loads the config once and applies its logging and theme
// settings.
func loadConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	var loaded *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loaded, err = config.LoadFrom(configPath)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	level := loaded.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if err := logging.Configure(os.Stderr, level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	ui.ConfigureTheme(loaded.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(loaded.UI.CodeTheme)

	cfg = loaded
	return cfg, nil
}

// resolvedConfigPath returns --config or the default location.
func resolvedConfigPath() string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	return config.DefaultPath()
}

func resolvedSchemaPath(c *config.Config) string {
	if schemaPath != "" {
		return schemaPath
	}
	return c.SchemaPath()
}

func resolvedDatabasePath(c *config.Config) string {
	if databasePath != "" {
		return databasePath
	}
	return c.DatabasePath()
}

// stateDir holds per-database state such as the last compiled request.
func stateDir() string {
	path := databasePath
	if path == "" && cfg != nil {
		path = cfg.DatabasePath()
	}
	if path == "" {
		path = config.DefaultDatabase
	}
	return filepath.Join(filepath.Dir(path), ".sift")
}

// loadCatalog loads the entity catalog, reporting failures in the output
// format. A nil catalog with a nil error means the error was already written.
func loadCatalog() (*schema.Catalog, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "Fix the file or pass --config with another path")
	}

	path := resolvedSchemaPath(c)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return nil, handleErrorMsg(ErrSchemaNotFound, fmt.Sprintf("schema file not found: %s", path),
			"Pass --schema or set 'schema' in the config file")
	}

	cat, err := schema.Load(path)
	if err != nil {
		return nil, handleError(ErrSchemaInvalid, err, "Run 'sift schema check' for details")
	}
	logging.Debug().Str("path", path).Int("entities", len(cat.Names())).Msg("loaded catalog")
	return cat, nil
}

// newCompiler builds a compiler with the configured page limits.
func newCompiler(cat *schema.Catalog) *query.Compiler {
	limits := query.DefaultLimits
	if cfg != nil {
		limits = cfg.QueryLimits()
	}
	return query.NewCompiler(cat, limits)
}

// openStore opens the record store and attaches the catalog.
func openStore(cat *schema.Catalog) (*store.Database, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "")
	}
	db, err := store.Open(resolvedDatabasePath(c))
	if err != nil {
		return nil, handleError(ErrDatabaseError, err, "Pass --database or set 'database' in the config file")
	}
	db.SetCatalog(cat)
	return db, nil
}

// requireEntity checks that entity is declared, reporting it otherwise.
func requireEntity(cat *schema.Catalog, entity string) (*schema.EntityType, error) {
	e, ok := cat.Entity(entity)
	if !ok {
		return nil, handleErrorMsg(ErrEntityNotFound, fmt.Sprintf("unknown entity '%s'", entity),
			fmt.Sprintf("Available entities: %s", strings.Join(cat.Names(), ", ")))
	}
	return e, nil
}
