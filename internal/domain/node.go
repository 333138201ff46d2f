package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeKind distinguishes files from folders
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindFile
	KindFolder
)

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// ParseNodeKind parses "file" or "folder", ignoring case
func ParseNodeKind(s string) NodeKind {
	switch strings.ToLower(s) {
	case "file":
		return KindFile
	case "folder":
		return KindFolder
	default:
		return KindUnknown
	}
}

// MarshalJSON writes the kind as "file" or "folder", or "" when unknown
func (k NodeKind) MarshalJSON() ([]byte, error) {
	if k == KindUnknown {
		return json.Marshal("")
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON reads a kind string; unrecognized values become KindUnknown
func (k *NodeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("node type: %w", err)
	}
	*k = ParseNodeKind(s)
	return nil
}

// Node is a file or folder in a plan or in the scanned workspace.
// Path is the identity used for comparison across sets, not ID.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Kind     NodeKind `json:"type"`
	Path     string   `json:"path"`
	ParentID string   `json:"parentId,omitempty"` // empty only for the root
}

// IsRoot reports whether the node has no parent
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// overlay returns n with every field that top defines replacing n's
func (n Node) overlay(top Node) Node {
	if top.ID != "" {
		n.ID = top.ID
	}
	if top.Label != "" {
		n.Label = top.Label
	}
	if top.Kind != KindUnknown {
		n.Kind = top.Kind
	}
	if top.Path != "" {
		n.Path = top.Path
	}
	if top.ParentID != "" {
		n.ParentID = top.ParentID
	}
	return n
}

// Status is the drift classification of a node
type Status int

const (
	StatusMatched Status = iota + 1
	StatusMissing
	StatusUntracked
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusMissing:
		return "missing"
	case StatusUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// MarshalJSON writes the status name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON reads a status name and rejects unknown ones
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("node status: %w", err)
	}
	switch str {
	case "matched":
		*s = StatusMatched
	case "missing":
		*s = StatusMissing
	case "untracked":
		*s = StatusUntracked
	default:
		return fmt.Errorf("unknown node status %q", str)
	}
	return nil
}

// ClassifiedNode is a node that has been through the drift classifier.
// Only CalculateDrift produces these.
type ClassifiedNode struct {
	Node
	Status Status `json:"status"`
}

// Edge is a directed parent -> child relation between node IDs
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Structure is a flat node and edge set
type Structure struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ClassifiedStructure is a flat set of classified nodes and their edges
type ClassifiedStructure struct {
	Nodes []ClassifiedNode `json:"nodes"`
	Edges []Edge           `json:"edges"`
}

// Plain drops the classification, keeping node order
func (s ClassifiedStructure) Plain() Structure {
	nodes := make([]Node, len(s.Nodes))
	for i, n := range s.Nodes {
		nodes[i] = n.Node
	}
	return Structure{Nodes: nodes, Edges: s.Edges}
}

// Plan is the persisted, user-approved project structure.
// MermaidSyntax is always derivable from JSONStructure via RenderPlan.
type Plan struct {
	MermaidSyntax string    `json:"mermaidSyntax"`
	JSONStructure Structure `json:"jsonStructure"`
}

// NewPlan builds a plan whose Mermaid text is rendered from s
func NewPlan(s Structure) *Plan {
	return &Plan{
		MermaidSyntax: RenderPlan(s),
		JSONStructure: s,
	}
}

// DiagramPayload is one renderable drift view
type DiagramPayload struct {
	MermaidSyntax string              `json:"mermaidSyntax"`
	JSONStructure ClassifiedStructure `json:"jsonStructure"`
}
