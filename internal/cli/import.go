package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load fixture records into the record store",
	Long: `Load a YAML or JSON file mapping entity names to record lists into the
record store. Defaults from the catalog are applied and existing records with
the same id are replaced.

Example fixture:
  user:
    - id: u1
      name: Greg
  post:
    - id: p1
      userId: u1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		if _, err := os.Stat(args[0]); err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		cat, err := loadCatalog()
		if cat == nil {
			return err
		}
		db, err := openStore(cat)
		if db == nil {
			return err
		}
		defer db.Close()

		var spinner *ui.Spinner
		if !isJSONOutput() {
			spinner = ui.NewSpinner(os.Stderr, "Importing "+args[0])
			spinner.Start()
		}
		result, err := db.Import(context.Background(), args[0])
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		stats, err := db.Stats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"imported": result,
				"stored":   stats.Total,
			}, &Meta{Count: result.Total, QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		tables := make([]string, 0, len(result.Tables))
		for t := range result.Tables {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		rows := make([][]string, len(tables))
		for i, t := range tables {
			rows[i] = []string{t, strconv.Itoa(result.Tables[t])}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Successf("Imported %d records %s", result.Total, ui.Count(len(tables), "table", "tables")))
		if len(rows) > 0 {
			fmt.Fprintln(out, ui.RenderTable(ui.NewDisplayContext(out), []string{"TABLE", "RECORDS"}, rows))
		}
		fmt.Fprintln(out, ui.Hint(fmt.Sprintf("%d records in %s", stats.Total, resolvedDatabasePath(cfg))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
