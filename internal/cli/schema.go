package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/sift/internal/schema"
	"github.com/aidanlsb/sift/internal/ui"
)

type entitySummary struct {
	Name        string   `json:"name"`
	Collection  string   `json:"collection"`
	IDField     string   `json:"id_field"`
	KeyField    string   `json:"key_field,omitempty"`
	OwnerField  string   `json:"owner_field,omitempty"`
	Timestamped bool     `json:"timestamped,omitempty"`
	Fields      []string `json:"fields"`
	Relations   []string `json:"relations"`
}

type fieldDetail struct {
	Name     string                     `json:"name"`
	Relation *schema.RelationDescriptor `json:"relation,omitempty"`
	Default  bool                       `json:"has_default,omitempty"`
	Private  bool                       `json:"private,omitempty"`
	System   bool                       `json:"system,omitempty"`
	Required bool                       `json:"required,omitempty"`
	Unique   bool                       `json:"unique,omitempty"`
}

type indexDetail struct {
	Fields []string `json:"fields"`
	Unique bool     `json:"unique,omitempty"`
}

type entityDetail struct {
	entitySummary
	FieldDetails []fieldDetail `json:"field_details"`
	Indexes      []indexDetail `json:"indexes,omitempty"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema [entity]",
	Short: "Introspect the entity catalog",
	Long: `List the entity types in the catalog, or show one entity's fields,
relations and indexes.

Examples:
  sift schema
  sift schema post --json
  sift schema check`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}
		out := cmd.OutOrStdout()
		display := ui.NewDisplayContext(out)

		if len(args) == 0 {
			summaries := make([]entitySummary, 0, len(cat.Names()))
			for _, name := range cat.Names() {
				e, _ := cat.Entity(name)
				summaries = append(summaries, summarize(e))
			}
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"entities": summaries}, &Meta{Count: len(summaries)})
				return nil
			}

			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				rows[i] = []string{s.Name, s.Collection, strconv.Itoa(len(s.Fields)), strings.Join(s.Relations, ", ")}
			}
			fmt.Fprintln(out, ui.RenderTable(display, []string{"ENTITY", "COLLECTION", "FIELDS", "RELATIONS"}, rows))
			return nil
		}

		e, err := requireEntity(cat, args[0])
		if e == nil {
			return err
		}
		detail := describe(e)
		if isJSONOutput() {
			outputSuccess(detail, nil)
			return nil
		}

		fmt.Fprintf(out, "%s %s\n\n", ui.Header(e.Name), ui.Hint("("+e.Collection+")"))
		rows := make([][]string, len(detail.FieldDetails))
		for i, f := range detail.FieldDetails {
			kind, target := "field", ""
			if f.Relation != nil {
				kind = f.Relation.Kind.String()
				target = f.Relation.Target
			}
			rows[i] = []string{f.Name, kind, target, fieldFlags(f)}
		}
		fmt.Fprintln(out, ui.RenderTable(display, []string{"FIELD", "KIND", "TARGET", "FLAGS"}, rows))

		for _, idx := range detail.Indexes {
			label := "index"
			if idx.Unique {
				label = "unique index"
			}
			fmt.Fprintf(out, "%s %s\n", ui.Hint(label), strings.Join(idx.Fields, ", "))
		}
		return nil
	},
}

var schemaCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the catalog file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		path := resolvedSchemaPath(c)

		cat, err := schema.Load(path)
		if err != nil {
			return handleError(ErrSchemaInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":     path,
				"valid":    true,
				"entities": cat.Names(),
			}, &Meta{Count: len(cat.Names())})
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Successf("%s is valid %s", path, ui.Count(len(cat.Names()), "entity", "entities")))
		return nil
	},
}

var schemaConflictCmd = &cobra.Command{
	Use:   "conflict <entity> <field[,field...]>",
	Short: "Find the unique index matching a conflict target",
	Long: `Find the declared index whose fields are exactly the given set, in any
order. Upserts use it as their conflict target.

Examples:
  sift schema conflict post userId,title
  sift schema conflict user email --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}
		e, err := requireEntity(cat, args[0])
		if e == nil {
			return err
		}

		var fields []string
		for _, f := range strings.Split(args[1], ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		idx, ok := e.ConflictIndex(fields)
		if !ok {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("no index on '%s' covers exactly %s", e.Name, strings.Join(fields, ", ")),
				"Run 'sift schema "+e.Name+"' to list its indexes")
		}

		detail := indexDetail{Fields: idx.FieldNames(), Unique: idx.Unique}
		if isJSONOutput() {
			outputSuccess(detail, nil)
			return nil
		}
		label := "index"
		if idx.Unique {
			label = "unique index"
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Successf("%s %s (%s)", label, strings.Join(detail.Fields, ", "), e.Collection))
		return nil
	},
}

func summarize(e *schema.EntityType) entitySummary {
	return entitySummary{
		Name:        e.Name,
		Collection:  e.Collection,
		IDField:     e.IDField,
		KeyField:    e.KeyField,
		OwnerField:  e.OwnerField,
		Timestamped: e.Timestamped,
		Fields:      e.Returning(),
		Relations:   e.RelationNames(),
	}
}

func describe(e *schema.EntityType) entityDetail {
	d := entityDetail{entitySummary: summarize(e)}
	for _, f := range e.Fields.All() {
		d.FieldDetails = append(d.FieldDetails, fieldDetail{
			Name:     f.Name,
			Relation: f.Relation,
			Default:  f.Default.IsSet(),
			Private:  f.Privacy.IsComputed() || f.Privacy.Hidden(nil, nil),
			System:   f.System,
			Required: f.Required,
			Unique:   f.Unique,
		})
	}
	for _, idx := range e.Indexes {
		d.Indexes = append(d.Indexes, indexDetail{Fields: idx.FieldNames(), Unique: idx.Unique})
	}
	return d
}

func fieldFlags(f fieldDetail) string {
	var flags []string
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{f.Required, "required"},
		{f.Unique, "unique"},
		{f.Default, "default"},
		{f.Private, "private"},
		{f.System, "system"},
	} {
		if flag.on {
			flags = append(flags, flag.name)
		}
	}
	return strings.Join(flags, " ")
}

func init() {
	schemaCmd.AddCommand(schemaCheckCmd)
	schemaCmd.AddCommand(schemaConflictCmd)
	rootCmd.AddCommand(schemaCmd)
}
