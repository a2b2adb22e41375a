package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/codedoc/internal/doctree"
	"github.com/dgallion1/codedoc/internal/scanner"
)

// SourceParser handles C and C++ source and header files.
type SourceParser struct {
	Scanner *scanner.Scanner
}

// Parse scans r into a copy of tree so that qualified method definitions
// resolve against classes read from earlier files. The copy replaces tree
// only when the whole file was read.
func (p *SourceParser) Parse(r io.Reader, filename string, tree *doctree.Tree) error {
	sc := p.Scanner
	if sc == nil {
		sc = scanner.New(nil)
	}

	work := tree.Clone()
	if err := sc.Scan(r, filename, work); err != nil {
		return fmt.Errorf("scan source: %w", err)
	}
	*tree = *work
	return nil
}
