// Package scanner reads C and C++ source and records its documented
// declarations in a doctree.Tree.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/codedoc/internal/doctree"
)

// DefaultMaxDepth bounds aggregate and extern block nesting.
const DefaultMaxDepth = 256

var (
	// ErrUnexpectedEOF is reported when input ends inside an aggregate or
	// extern block.
	ErrUnexpectedEOF = errors.New("unexpected end of file in declaration body")

	// ErrTooDeep is reported when bodies nest deeper than MaxDepth.
	ErrTooDeep = errors.New("declaration bodies nested too deeply")
)

// Error locates a fatal scan failure.
type Error struct {
	File string
	Line int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Scanner holds the settings for scanning source files.
type Scanner struct {
	Log      *slog.Logger
	MaxDepth int
}

// New returns a Scanner with the default nesting bound.
func New(log *slog.Logger) *Scanner {
	return &Scanner{Log: log, MaxDepth: DefaultMaxDepth}
}

// Scan reads one translation unit from r and inserts its declarations into
// tree. On error the tree may hold part of the file; callers that need the
// all-or-nothing behavior scan into a fresh tree and merge on success.
func (s *Scanner) Scan(r io.Reader, filename string, tree *doctree.Tree) error {
	log := s.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	max := s.MaxDepth
	if max <= 0 {
		max = DefaultMaxDepth
	}
	log = log.With("file", filename)

	a := newAssembler(newLexer(r), tree, tree.Root(), log, filename, 0, max)
	if err := a.run(); err != nil {
		return err
	}
	log.Debug("file scanned", "declarations", len(tree.Children(tree.Root())))
	return nil
}

// ScanFile scans r into a new tree and returns it only when the whole
// file was read successfully.
func (s *Scanner) ScanFile(r io.Reader, filename string) (*doctree.Tree, error) {
	tree := doctree.New()
	if err := s.Scan(r, filename, tree); err != nil {
		return nil, err
	}
	return tree, nil
}
