package domain

import (
	"fmt"
	"strings"
)

// Mermaid class names assigned to nodes
const (
	ClassFolder    = "folder"
	ClassFile      = "file"
	ClassMissing   = "missing"
	ClassUntracked = "untracked"
)

// ClassDef is a Mermaid class definition
type ClassDef struct {
	Name  string
	Style string
}

// ClassAssignment binds a node to a class
type ClassAssignment struct {
	NodeID string
	Class  string
}

// Stylesheet lists the class definitions in render order
var Stylesheet = []ClassDef{
	{Name: ClassFolder, Style: "fill:#ede9fe,stroke:#7c3aed,color:#1f2937"},
	{Name: ClassFile, Style: "fill:#e0f2fe,stroke:#0284c7,color:#1f2937"},
	{Name: ClassMissing, Style: "fill:#fee2e2,stroke:#ef4444,color:#991b1b"},
	{Name: ClassUntracked, Style: "fill:#fef3c7,stroke:#f59e0b,stroke-width:3px,stroke-dasharray:5 5,color:#92400e"},
}

// StyledGraph is synthesized graph text plus the styling layered on it
type StyledGraph struct {
	Body        string
	ClassDefs   []ClassDef
	Assignments []ClassAssignment
}

// String renders the body followed by class definitions and assignments.
// An empty body renders as "".
func (g StyledGraph) String() string {
	if g.Body == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(g.Body)
	for _, def := range g.ClassDefs {
		fmt.Fprintf(&b, "    classDef %s %s;\n", def.Name, def.Style)
	}
	for _, a := range g.Assignments {
		fmt.Fprintf(&b, "    class %s %s;\n", a.NodeID, a.Class)
	}
	return b.String()
}

// KindClass returns the class for an unclassified node
func KindClass(kind NodeKind) string {
	if kind == KindFolder {
		return ClassFolder
	}
	return ClassFile
}

// NodeClass returns the class for a classified node; status beats kind
func NodeClass(n ClassifiedNode) string {
	switch n.Status {
	case StatusMissing:
		return ClassMissing
	case StatusUntracked:
		return ClassUntracked
	default:
		return KindClass(n.Kind)
	}
}

// statusClass reports whether class comes from a drift status rather than a kind
func statusClass(class string) bool {
	return class == ClassMissing || class == ClassUntracked
}

// styleGraph assigns one class per distinct id in first-seen order. When an
// id repeats, a status class replaces a kind class.
func styleGraph(body string, ids []string, classes []string) StyledGraph {
	g := StyledGraph{Body: body}
	if body == "" {
		return g
	}

	at := make(map[string]int, len(ids))
	for i, id := range ids {
		if j, ok := at[id]; ok {
			if statusClass(classes[i]) && !statusClass(g.Assignments[j].Class) {
				g.Assignments[j].Class = classes[i]
			}
			continue
		}
		at[id] = len(g.Assignments)
		g.Assignments = append(g.Assignments, ClassAssignment{NodeID: id, Class: classes[i]})
	}

	used := make(map[string]bool, len(Stylesheet))
	for _, a := range g.Assignments {
		used[a.Class] = true
	}
	for _, def := range Stylesheet {
		if used[def.Name] {
			g.ClassDefs = append(g.ClassDefs, def)
		}
	}
	return g
}

// StylePlan styles an unclassified structure by node kind
func StylePlan(s Structure) StyledGraph {
	ids := make([]string, len(s.Nodes))
	classes := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[i] = n.ID
		classes[i] = KindClass(n.Kind)
	}
	return styleGraph(GenerateGraph(s), ids, classes)
}

// StyleClassified styles a classified structure by status, then kind
func StyleClassified(s ClassifiedStructure) StyledGraph {
	ids := make([]string, len(s.Nodes))
	classes := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[i] = n.ID
		classes[i] = NodeClass(n)
	}
	return styleGraph(GenerateGraph(s.Plain()), ids, classes)
}

// RenderPlan returns the styled Mermaid text for a plan structure
func RenderPlan(s Structure) string {
	return StylePlan(s).String()
}

// RenderClassified returns the styled Mermaid text for a drift view
func RenderClassified(s ClassifiedStructure) string {
	return StyleClassified(s).String()
}
