package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/resolver"
	"github.com/aidanlsb/sift/internal/schema"
	"github.com/aidanlsb/sift/internal/ui"
)

var (
	ancestorTo    string
	ancestorOwner bool
)

var ancestorCmd = &cobra.Command{
	Use:   "ancestor",
	Short: "Walk belongs_to relations up to an ancestor",
	Long: `Find the relation path from an entity to its nearest ancestor of a given
type, or fetch that ancestor for one record.

Pick the ancestor with --to <entity>, or --owner for the first entity type
that declares an owner_field.`,
}

var ancestorPathCmd = &cobra.Command{
	Use:   "path <entity>",
	Short: "Show the relation path to an ancestor type",
	Long: `Show the relation path to an ancestor type.

Examples:
  sift ancestor path comment --to user
  sift ancestor path comment --owner --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}
		if e, err := requireEntity(cat, args[0]); e == nil {
			return err
		}
		pred, target, err := ancestorPredicate(cat)
		if pred == nil {
			return err
		}

		path, ok := resolver.FindAncestorPath(cat, args[0], pred)
		if !ok {
			return handleErrorMsg(ErrAncestorNotFound,
				fmt.Sprintf("no %s reachable from '%s' through belongs_to relations", target, args[0]),
				"Run 'sift schema "+args[0]+"' to see its relations")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"entity": args[0],
				"path":   path,
				"expand": query.ExpansionString(path),
			}, &Meta{Count: len(path)})
			return nil
		}

		out := cmd.OutOrStdout()
		if len(path) == 0 {
			fmt.Fprintln(out, ui.Infof("%s is already a %s", ui.Name(args[0]), target))
			return nil
		}
		steps := append([]string{ui.Name(args[0])}, path...)
		fmt.Fprintln(out, strings.Join(steps, ui.Hint(" → ")))
		fmt.Fprintln(out, ui.Hint("expand: "+query.ExpansionString(path)))
		return nil
	},
}

var ancestorFindCmd = &cobra.Command{
	Use:   "find <entity> <id>",
	Short: "Fetch the ancestor of one record",
	Long: `Fetch one record from the store with its ancestor chain expanded and print
the ancestor.

Examples:
  sift ancestor find comment c1 --to user
  sift ancestor find comment c1 --owner --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cat, err := loadCatalog()
		if cat == nil {
			return err
		}
		if e, err := requireEntity(cat, args[0]); e == nil {
			return err
		}
		pred, target, err := ancestorPredicate(cat)
		if pred == nil {
			return err
		}

		db, err := openStore(cat)
		if db == nil {
			return err
		}
		defer db.Close()

		ancestor, ok, err := resolver.New(cat, db).FindAncestor(context.Background(), args[0], args[1], pred)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if !ok {
			return handleErrorMsg(ErrAncestorNotFound,
				fmt.Sprintf("no %s found for %s '%s'", target, args[0], args[1]),
				"The record may be missing, or a link in its belongs_to chain may be empty")
		}

		if isJSONOutput() {
			outputSuccess(ancestor, &Meta{QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		out, err := yaml.Marshal(ancestor)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// ancestorPredicate builds the predicate selected by --to or --owner and a
// description of it for messages.
func ancestorPredicate(cat *schema.Catalog) (resolver.Predicate, string, error) {
	switch {
	case ancestorTo != "" && ancestorOwner:
		return nil, "", handleErrorMsg(ErrInvalidInput, "--to and --owner cannot be combined", "")
	case ancestorOwner:
		return resolver.HasOwnerField(), "owner", nil
	case ancestorTo != "":
		if e, err := requireEntity(cat, ancestorTo); e == nil {
			return nil, "", err
		}
		return resolver.IsEntity(ancestorTo), ancestorTo, nil
	}
	return nil, "", handleErrorMsg(ErrMissingArgument, "specify an ancestor", "Use --to <entity> or --owner")
}

func init() {
	for _, c := range []*cobra.Command{ancestorPathCmd, ancestorFindCmd} {
		c.Flags().StringVar(&ancestorTo, "to", "", "Ancestor entity type")
		c.Flags().BoolVar(&ancestorOwner, "owner", false, "Stop at the first entity with an owner_field")
		ancestorCmd.AddCommand(c)
	}
	rootCmd.AddCommand(ancestorCmd)
}
