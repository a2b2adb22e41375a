package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/codedoc/internal/doctree"
	"github.com/dgallion1/codedoc/internal/parser"
	"github.com/dgallion1/codedoc/internal/scanner"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <tree.xml> <source>...",
	Short: "Scan sources into an XML documentation tree",
	Long: `Load the XML tree if it exists, scan every source into it in the order
given, and write the tree back. Nothing is written when any source fails.

Examples:
  codedoc update docs.xml mxml.h mxml-node.c
  codedoc update docs.xml other.xml`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := scanner.New(newLogger())
		sc.MaxDepth = maxDepth
		return runUpdate(args[0], args[1:], sc, sc.Log)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(treePath string, sources []string, sc *scanner.Scanner, log *slog.Logger) error {
	tree, err := loadTree(treePath)
	if err != nil {
		return err
	}

	for _, src := range sources {
		if err := scanInto(tree, src, sc); err != nil {
			return err
		}
		log.Debug("merged source", "file", src)
	}

	var buf bytes.Buffer
	if err := doctree.Encode(&buf, tree); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return writeFileAtomic(treePath, buf.Bytes())
}

// loadTree decodes the tree at path, or returns an empty tree when the
// file does not exist yet.
func loadTree(path string) (*doctree.Tree, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doctree.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open tree: %w", err)
	}
	defer f.Close()

	tree, err := doctree.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tree, nil
}

func scanInto(tree *doctree.Tree, path string, sc *scanner.Scanner) error {
	p, err := parser.ForFile(path, sc)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return p.Parse(f, filepath.Base(path), tree)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".codedoc-*.xml")
	if err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tree: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return nil
}
