package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/codedoc/internal/doctree"
)

// XMLParser loads a previously saved tree and merges it into the target,
// the way an incremental update starts from an existing document.
type XMLParser struct{}

func (p *XMLParser) Parse(r io.Reader, filename string, tree *doctree.Tree) error {
	saved, err := doctree.Decode(r)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	doctree.Merge(tree, saved)
	return nil
}
