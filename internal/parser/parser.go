package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/codedoc/internal/doctree"
	"github.com/dgallion1/codedoc/internal/scanner"
)

// Parser reads one input file into a documentation tree. A failed Parse
// leaves the tree unchanged.
type Parser interface {
	Parse(r io.Reader, filename string, tree *doctree.Tree) error
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".c":   true,
	".h":   true,
	".cc":  true,
	".cpp": true,
	".cxx": true,
	".hh":  true,
	".hpp": true,
	".hxx": true,
	".xml": true,
}

// ForFile returns the appropriate parser for a filename. Source files are
// read with sc.
func ForFile(filename string, sc *scanner.Scanner) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return &XMLParser{}, nil
	default:
		if SupportedExtensions[ext] {
			return &SourceParser{Scanner: sc}, nil
		}
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
