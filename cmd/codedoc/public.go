package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dgallion1/codedoc/internal/describe"
	"github.com/spf13/cobra"
)

var (
	publicKind   string
	publicName   string
	publicFormat string
)

var publicCmd = &cobra.Command{
	Use:   "public <tree.xml>",
	Short: "List public declarations with their summaries",
	Long: `List the documented, non-private top-level declarations of a tree.

Examples:
  codedoc public docs.xml
  codedoc public docs.xml --kind function
  codedoc public docs.xml --kind class --name Shape --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublic(cmd.OutOrStdout(), args[0], publicKind, publicName, publicFormat)
	},
}

func init() {
	publicCmd.Flags().StringVar(&publicKind, "kind", "", "Declaration kind (function, class, variable, ...)")
	publicCmd.Flags().StringVar(&publicName, "name", "", "Only declarations with this name")
	publicCmd.Flags().StringVar(&publicFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(publicCmd)
}

func runPublic(w io.Writer, treePath, kind, name, format string) error {
	kinds, err := describe.ParseKind(kind)
	if err != nil {
		return err
	}
	if _, err := os.Stat(treePath); err != nil {
		return fmt.Errorf("open tree: %w", err)
	}
	tree, err := loadTree(treePath)
	if err != nil {
		return err
	}
	decls := describe.Public(tree, kinds, name)

	switch format {
	case "json":
		if decls == nil {
			decls = []describe.Declaration{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(decls)
	case "human":
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		for _, d := range decls {
			summary := d.Summary
			if d.Deprecated {
				summary = "(deprecated) " + summary
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Kind, d.Name, summary)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
