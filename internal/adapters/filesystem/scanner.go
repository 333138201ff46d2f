package filesystem

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"driftmap/internal/config"
	"driftmap/internal/domain"
	"driftmap/internal/logging"
	"driftmap/internal/ports"
)

// AlwaysIgnored directories are skipped regardless of the ignore file
var AlwaysIgnored = []string{".git", "node_modules", ".driftmap"}

// Scanner implements ports.TreeScanner by walking a workspace directory
type Scanner struct {
	root       string
	ignoreFile string
	patterns   []string
	logger     *slog.Logger
}

// Ensure Scanner implements TreeScanner
var _ ports.TreeScanner = (*Scanner)(nil)

// ScannerOption configures the Scanner
type ScannerOption func(*Scanner)

// WithIgnoreFile sets the gitignore-style file read on every scan
func WithIgnoreFile(path string) ScannerOption {
	return func(s *Scanner) {
		s.ignoreFile = path
	}
}

// WithIgnorePatterns adds gitignore-style patterns on top of the ignore file
func WithIgnorePatterns(patterns ...string) ScannerOption {
	return func(s *Scanner) {
		s.patterns = append(s.patterns, patterns...)
	}
}

// WithLogger sets the scanner logger
func WithLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = l
	}
}

// NewScanner creates a scanner rooted at root
func NewScanner(root string, opts ...ScannerOption) *Scanner {
	s := &Scanner{root: config.ExpandHome(root)}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	return s
}

// Root returns the scanned directory
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the workspace and returns its tree as nodes and parent->child
// edges. The root node has id "root" and path "/"; every other path is
// "/" followed by the slash-separated path relative to the workspace.
func (s *Scanner) Scan(ctx context.Context) (domain.Structure, error) {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return domain.Structure{}, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return domain.Structure{}, fmt.Errorf("failed to read workspace: %w", err)
	}
	if !info.IsDir() {
		return domain.Structure{}, fmt.Errorf("workspace %s is not a directory", abs)
	}

	matcher, err := s.compileIgnore()
	if err != nil {
		return domain.Structure{}, err
	}

	w := &walker{
		ctx:     ctx,
		base:    abs,
		matcher: matcher,
		ids:     newIDAllocator(),
		logger:  s.logger,
	}

	rootNode := domain.Node{
		ID:    w.ids.allocate(domain.RootID),
		Label: filepath.Base(abs),
		Kind:  domain.KindFolder,
		Path:  "/",
	}
	w.structure.Nodes = append(w.structure.Nodes, rootNode)

	if err := w.walk(abs, rootNode.ID, ""); err != nil {
		return domain.Structure{}, err
	}

	s.logger.Debug("workspace scanned",
		"root", abs,
		"nodes", len(w.structure.Nodes),
		"skipped", w.skipped,
	)
	return w.structure, nil
}

// compileIgnore merges the ignore file and extra patterns
func (s *Scanner) compileIgnore() (*ignore.GitIgnore, error) {
	var lines []string
	if s.ignoreFile != "" {
		fileLines, err := readLines(s.ignoreFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read ignore file: %w", err)
		}
		lines = append(lines, fileLines...)
	}
	lines = append(lines, s.patterns...)
	return ignore.CompileIgnoreLines(lines...), nil
}

// IgnoreMatcher compiles the current ignore rules into a predicate over
// slash-separated paths relative to the workspace, matching what Scan skips
func (s *Scanner) IgnoreMatcher() (func(rel string, isDir bool) bool, error) {
	matcher, err := s.compileIgnore()
	if err != nil {
		return nil, err
	}
	return func(rel string, isDir bool) bool {
		return ignoredBy(matcher, path.Base(rel), rel, isDir)
	}, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

type walker struct {
	ctx       context.Context
	base      string
	matcher   *ignore.GitIgnore
	ids       *idAllocator
	structure domain.Structure
	skipped   int
	logger    *slog.Logger
}

func (w *walker) walk(dir, parentID, rel string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	// Folders first, then by name
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		name := entry.Name()
		childRel := path.Join(rel, name)
		isDir := entry.IsDir()

		if w.ignored(name, childRel, isDir) {
			w.skipped++
			continue
		}

		kind := domain.KindFile
		if isDir {
			kind = domain.KindFolder
		}
		node := domain.Node{
			ID:       w.ids.allocate(childRel),
			Label:    name,
			Kind:     kind,
			Path:     "/" + childRel,
			ParentID: parentID,
		}
		w.structure.Nodes = append(w.structure.Nodes, node)
		w.structure.Edges = append(w.structure.Edges, domain.Edge{Source: parentID, Target: node.ID})

		if isDir {
			if err := w.walk(filepath.Join(dir, name), node.ID, childRel); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) ignored(name, rel string, isDir bool) bool {
	return ignoredBy(w.matcher, name, rel, isDir)
}

func ignoredBy(matcher *ignore.GitIgnore, name, rel string, isDir bool) bool {
	if isDir {
		for _, skip := range AlwaysIgnored {
			if name == skip {
				return true
			}
		}
	}
	if matcher.MatchesPath(rel) {
		return true
	}
	// Directory-only patterns ("dist/") match the trailing-slash form
	return isDir && matcher.MatchesPath(rel+"/")
}

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// reservedIDs would be parsed as Mermaid keywords
var reservedIDs = map[string]bool{"end": true, "graph": true, "subgraph": true, "class": true, "classdef": true, "style": true}

// idAllocator derives Mermaid-safe, unique node ids from relative paths
type idAllocator struct {
	used map[string]bool
}

func newIDAllocator() *idAllocator {
	return &idAllocator{used: make(map[string]bool)}
}

func (a *idAllocator) allocate(rel string) string {
	id := strings.Trim(unsafeIDChars.ReplaceAllString(rel, "_"), "_")
	if id == "" {
		id = "node"
	}
	if reservedIDs[strings.ToLower(id)] {
		id += "_"
	}
	candidate := id
	for n := 2; a.used[candidate]; n++ {
		candidate = id + "_" + strconv.Itoa(n)
	}
	a.used[candidate] = true
	return candidate
}

