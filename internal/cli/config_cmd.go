package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/config"
	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the sift config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write a commented default config to --config or the default location.
An existing file is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()
		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "created": created}, nil)
			return nil
		}
		if created {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Successf("Created %s", path))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Infof("%s already exists", path))
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		limits := query.NewCompiler(nil, c.QueryLimits()).Limits()
		effective := map[string]interface{}{
			"config_path":   resolvedConfigPath(),
			"schema":        resolvedSchemaPath(c),
			"database":      resolvedDatabasePath(c),
			"log_level":     c.LogLevel,
			"limit_default": limits.Default,
			"limit_max":     limits.Max,
			"ui_accent":     c.UI.Accent,
			"ui_code_theme": c.UI.CodeTheme,
		}

		if isJSONOutput() {
			outputSuccess(effective, nil)
			return nil
		}
		rows := [][]string{
			{"config", resolvedConfigPath()},
			{"schema", resolvedSchemaPath(c)},
			{"database", resolvedDatabasePath(c)},
			{"log_level", c.LogLevel},
			{"limits", fmt.Sprintf("default %d, max %d", limits.Default, limits.Max)},
			{"ui.accent", c.UI.Accent},
			{"ui.code_theme", c.UI.CodeTheme},
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTable(ui.NewDisplayContext(cmd.OutOrStdout()), []string{"SETTING", "VALUE"}, rows))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
