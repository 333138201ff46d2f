package domain

import (
	"fmt"
	"strings"
)

// RootID is the id of the single root node of a generated plan
const RootID = "root"

// TreeError lists every way a structure breaks the plan tree contract
type TreeError struct {
	Problems []string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("invalid plan tree: %s", strings.Join(e.Problems, "; "))
}

// ValidateTree checks the contract generated plans must satisfy: one root
// with id "root" and no parent, unique separator-free ids, every other node
// reached by exactly one edge from its parent, and len(edges) == len(nodes)-1.
// Returns nil or a *TreeError.
func ValidateTree(s Structure) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(s.Nodes) == 0 {
		return &TreeError{Problems: []string{"no nodes"}}
	}

	byID := make(map[string]Node, len(s.Nodes))
	roots := 0
	for _, n := range s.Nodes {
		if n.ID == "" {
			addf("node %q has an empty id", n.Path)
			continue
		}
		if strings.ContainsAny(n.ID, `/\`) {
			addf("node id %q contains a path separator", n.ID)
		}
		if _, dup := byID[n.ID]; dup {
			addf("duplicate node id %q", n.ID)
		}
		byID[n.ID] = n
		if n.IsRoot() {
			roots++
			if n.ID != RootID {
				addf("node %q has no parent but is not %q", n.ID, RootID)
			}
		}
	}
	if roots != 1 {
		addf("expected exactly one root, found %d", roots)
	}

	if want := len(s.Nodes) - 1; len(s.Edges) != want {
		addf("expected %d edges, found %d", want, len(s.Edges))
	}

	incoming := make(map[string]int, len(s.Nodes))
	for _, e := range s.Edges {
		src, okSrc := byID[e.Source]
		dst, okDst := byID[e.Target]
		if !okSrc {
			addf("edge %s -> %s: unknown source", e.Source, e.Target)
		}
		if !okDst {
			addf("edge %s -> %s: unknown target", e.Source, e.Target)
			continue
		}
		incoming[e.Target]++
		if dst.ParentID != e.Source {
			addf("edge %s -> %s: target parent is %q", e.Source, e.Target, dst.ParentID)
		}
		if okSrc && src.Kind == KindFile {
			addf("edge %s -> %s: source is a file", e.Source, e.Target)
		}
	}

	for _, n := range s.Nodes {
		if n.ID == "" || n.IsRoot() {
			continue
		}
		if c := incoming[n.ID]; c != 1 {
			addf("node %q has %d incoming edges", n.ID, c)
		}
	}

	if len(problems) > 0 {
		return &TreeError{Problems: problems}
	}
	return nil
}

// FormatTree renders s as an indented outline following ParentID links.
// Nodes whose parent is not in s are listed at the top level.
func FormatTree(s Structure) string {
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		ids[n.ID] = true
	}
	children := make(map[string][]Node)
	var tops []Node
	for _, n := range s.Nodes {
		if n.IsRoot() || !ids[n.ParentID] {
			tops = append(tops, n)
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}

	var b strings.Builder
	visited := make(map[string]bool, len(s.Nodes))
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		suffix := ""
		if n.Kind == KindFolder {
			suffix = "/"
		}
		fmt.Fprintf(&b, "%s%s%s\n", strings.Repeat("  ", depth), n.Label, suffix)
		for _, c := range children[n.ID] {
			walk(c, depth+1)
		}
	}
	for _, n := range tops {
		walk(n, 0)
	}
	return b.String()
}
