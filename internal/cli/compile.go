package cli

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/lastrequest"
	"github.com/aidanlsb/sift/internal/logging"
	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/ui"
)

var (
	compileFilter     string
	compileExpand     string
	compileSort       string
	compileCursor     string
	compileLimit      int
	compileNoLimitCap bool
	compileLast       bool
	compileWhere      []string
)

var filterCmd = &cobra.Command{
	Use:   "filter <entity> <expression>",
	Short: "Compile a filter expression",
	Long: `Compile a filter expression against an entity and print the clause tree.

Examples:
  sift filter user "age > 25"
  sift filter user "city = 'NYC' AND (name = 'Greg' OR age < 40)"
  sift filter post "user.name LIKE 'G%'" --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}

		clauses, err := query.ParseFilter(cat, args[0], args[1])
		if err != nil {
			return handleQueryError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"entity":  args[0],
				"clauses": clauses,
			}, &Meta{Count: len(clauses), QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		if len(clauses) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Hint("(empty filter)"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTree(args[0], clauseNodes(clauses)))
		return nil
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand <entity> <expression>",
	Short: "Compile a relation expansion",
	Long: `Compile an expansion expression against an entity and print the join tree.

Examples:
  sift expand post "user,comments"
  sift expand comment "post[user,tags]" --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}

		exp, err := query.ParseExpand(cat, args[0], args[1])
		if err != nil {
			return handleQueryError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"entity": args[0],
				"expand": exp,
			}, &Meta{Count: len(exp), QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		if len(exp) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Hint("(no expansions)"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTree(args[0], expansionNodes(exp)))
		return nil
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort <entity> [expression]",
	Short: "Compile a sort specification",
	Long: `Compile a sort specification. With no expression the entity's id field
is used, ascending.

Examples:
  sift sort user "age DESC, name"
  sift sort post`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}

		expr := ""
		if len(args) == 2 {
			expr = args[1]
		}
		specs, err := query.ParseSort(cat, args[0], expr)
		if err != nil {
			return handleQueryError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"entity": args[0],
				"order":  specs,
			}, &Meta{Count: len(specs)})
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTable(ui.NewDisplayContext(cmd.OutOrStdout()), []string{"FIELD", "DIRECTION"}, sortRows(specs)))
		return nil
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile [entity]",
	Short: "Compile a full listing request into a query plan",
	Long: `Compile filter, expansion, sort, cursor and limit together. Either every
part compiles or nothing is printed but the first error.

Each --where field=value adds an equality clause joined with AND to the
filter. Numbers stay bare, other values are quoted, and "null" becomes
IS NULL.

Each successful compile is saved; --last compiles the saved request again,
with any flags given now replacing the saved values and --where adding to
the saved filter.

Examples:
  sift compile post --filter "title LIKE 'H%'" --expand user --sort "title DESC" --limit 20
  sift compile user --where city=NYC --where age=31
  sift compile user --cursor u10 --json
  sift compile --last --cursor p20`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}

		entity, req, err := compileRequest(cmd, args)
		if entity == "" {
			return err
		}

		plan, err := newCompiler(cat).Compile(entity, req)
		if err != nil {
			return handleQueryError(err)
		}
		saveLastRequest(entity, req)

		if isJSONOutput() {
			outputSuccess(plan, &Meta{QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", ui.Header("entity"), ui.Name(plan.Entity)+ui.Hint(" ("+plan.Table+")"))
		fmt.Fprintf(out, "%s %s\n", ui.Header("returning"), strings.Join(plan.Returning, ", "))
		fmt.Fprintf(out, "%s %d\n", ui.Header("limit"), plan.Limit)
		if plan.Page != nil {
			fmt.Fprintf(out, "%s %s > %s\n", ui.Header("after"), plan.Page.Field, plan.Page.Cursor)
		}
		if len(plan.Where) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.RenderTree("where", clauseNodes(plan.Where)))
		}
		if len(plan.Expand) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.RenderTree("expand", expansionNodes(plan.Expand)))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.RenderTable(ui.NewDisplayContext(out), []string{"ORDER BY", "DIRECTION"}, sortRows(plan.Order)))
		return nil
	},
}

// compileRequest builds the request from flags, starting from the saved
// request when --last is set. An empty entity means the error was reported.
func compileRequest(cmd *cobra.Command, args []string) (string, query.Request, error) {
	req := query.Request{
		Filter:     compileFilter,
		Expand:     compileExpand,
		Sort:       compileSort,
		Cursor:     compileCursor,
		Limit:      compileLimit,
		NoLimitCap: compileNoLimitCap,
	}

	if !compileLast {
		if len(args) == 0 {
			return "", req, handleErrorMsg(ErrMissingArgument, "requires an entity", "Pass an entity, or --last to reuse the previous request")
		}
		filter, err := withWhere(req.Filter, compileWhere)
		if err != nil {
			return "", req, handleErrorMsg(ErrInvalidInput, err.Error(), "Use --where field=value")
		}
		req.Filter = filter
		return args[0], req, nil
	}

	last, err := lastrequest.Read(stateDir())
	if err != nil {
		if errors.Is(err, lastrequest.ErrNoLastRequest) {
			return "", req, handleErrorMsg(ErrMissingArgument, err.Error(), "Run 'sift compile <entity>' first")
		}
		return "", req, handleError(ErrFileReadError, err, "")
	}

	entity := last.Entity
	if len(args) == 1 {
		entity = args[0]
	}
	merged := last.Request
	flags := cmd.Flags()
	if flags.Changed("filter") {
		merged.Filter = req.Filter
	}
	if merged.Filter, err = withWhere(merged.Filter, compileWhere); err != nil {
		return "", req, handleErrorMsg(ErrInvalidInput, err.Error(), "Use --where field=value")
	}
	if flags.Changed("expand") {
		merged.Expand = req.Expand
	}
	if flags.Changed("sort") {
		merged.Sort = req.Sort
	}
	if flags.Changed("cursor") {
		merged.Cursor = req.Cursor
	}
	if flags.Changed("limit") {
		merged.Limit = req.Limit
	}
	if flags.Changed("no-limit-cap") {
		merged.NoLimitCap = req.NoLimitCap
	}
	return entity, merged, nil
}

// withWhere ANDs one equality clause per field=value pair onto filter. A
// filter with connectors of its own is grouped first so the pairs apply to
// all of it.
func withWhere(filter string, pairs []string) (string, error) {
	if len(pairs) == 0 {
		return filter, nil
	}
	parts := make([]string, 0, len(pairs)+1)
	if f := strings.TrimSpace(filter); f != "" {
		parts = append(parts, "("+f+")")
	}
	for _, pair := range pairs {
		field, raw, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return "", fmt.Errorf("invalid --where %q: expected field=value", pair)
		}
		parts = append(parts, whereClause(field, strings.TrimSpace(raw)))
	}
	return query.JoinFilters(query.And, parts...), nil
}

func whereClause(field, raw string) string {
	if strings.EqualFold(raw, "null") {
		return query.BuildFilter(field, query.OpIsNull, nil)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return query.BuildFilter(field, query.OpEq, n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return query.BuildFilter(field, query.OpEq, f)
	}
	return query.BuildFilter(field, query.OpEq, raw)
}

// saveLastRequest records a compiled request. Failures only get logged.
func saveLastRequest(entity string, req query.Request) {
	err := lastrequest.Write(stateDir(), &lastrequest.LastRequest{
		Entity:    entity,
		Request:   req,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logging.Warn().Err(err).Msg("could not save last request")
	}
}

func clauseNodes(clauses []query.FilterClause) []ui.TreeNode {
	nodes := make([]ui.TreeNode, len(clauses))
	for i, c := range clauses {
		nodes[i] = ui.TreeNode{Label: clauseLabel(c), Children: clauseNodes(c.Clauses)}
	}
	return nodes
}

func clauseLabel(c query.FilterClause) string {
	var b strings.Builder
	if c.Connector != query.ConnectorNone {
		b.WriteString(ui.Hint(string(c.Connector)))
		b.WriteString(" ")
	}
	b.WriteString(ui.Name(clausePath(c)))
	b.WriteString(" ")
	b.WriteString(string(c.Operator))
	if c.Value != nil {
		b.WriteString(" ")
		b.WriteString(*c.Value)
	}
	return b.String()
}

func clausePath(c query.FilterClause) string {
	if c.Relation != "" {
		return c.Relation + "." + c.Field
	}
	return strings.Join(append([]string{c.Field}, c.JSONPath...), ".")
}

func expansionNodes(exp query.Expansions) []ui.TreeNode {
	names := make([]string, 0, len(exp))
	for name := range exp {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]ui.TreeNode, len(names))
	for i, name := range names {
		d := exp[name]
		detail := fmt.Sprintf(" %s %s.%s = %s.%s", d.Cardinality, d.FromTable, d.FromField, d.ToTable, d.ToField)
		if d.ThroughTable != "" {
			detail = fmt.Sprintf(" %s via %s(%s, %s)", d.Cardinality, d.ThroughTable, d.ThroughFromField, d.ThroughToField)
		}
		nodes[i] = ui.TreeNode{
			Label:    ui.Name(name) + ui.Hint(detail),
			Children: expansionNodes(d.Expand),
		}
	}
	return nodes
}

func sortRows(specs []query.SortSpec) [][]string {
	rows := make([][]string, len(specs))
	for i, s := range specs {
		rows[i] = []string{strings.Join(append([]string{s.Field}, s.JSONPath...), "."), string(s.Direction)}
	}
	return rows
}

func init() {
	compileCmd.Flags().StringVar(&compileFilter, "filter", "", "Filter expression")
	compileCmd.Flags().StringVar(&compileExpand, "expand", "", "Expansion expression")
	compileCmd.Flags().StringVar(&compileSort, "sort", "", "Sort specification")
	compileCmd.Flags().StringVar(&compileCursor, "cursor", "", "Continue after this id")
	compileCmd.Flags().IntVar(&compileLimit, "limit", 0, "Page size (default from config, "+strconv.Itoa(query.DefaultLimits.Default)+" if unset)")
	compileCmd.Flags().BoolVar(&compileNoLimitCap, "no-limit-cap", false, "Allow limits above the configured maximum")
	compileCmd.Flags().BoolVar(&compileLast, "last", false, "Start from the previously compiled request")
	compileCmd.Flags().StringArrayVar(&compileWhere, "where", nil, "Add an equality clause as field=value (repeatable)")

	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(compileCmd)
}
