package domain

import (
	"fmt"
	"strings"
)

// GraphHeader is the first line of every non-empty graph
const GraphHeader = "graph TD"

var labelReplacer = strings.NewReplacer(`"`, "", "(", "", ")", "")

// SanitizeLabel strips characters that delimit a Mermaid label slot
func SanitizeLabel(label string) string {
	return labelReplacer.Replace(label)
}

// GenerateGraph renders s as Mermaid graph text. Each edge becomes one
// connection line in input order; nodes touched by no edge are emitted
// afterwards as orphan lines in node order. An empty node list yields "".
func GenerateGraph(s Structure) string {
	if len(s.Nodes) == 0 {
		return ""
	}

	labels := make(map[string]string, len(s.Nodes))
	for _, n := range s.Nodes {
		labels[n.ID] = SanitizeLabel(n.Label)
	}
	labelOf := func(id string) string {
		if l, ok := labels[id]; ok {
			return l
		}
		return SanitizeLabel(id)
	}

	var b strings.Builder
	b.WriteString(GraphHeader)
	b.WriteByte('\n')

	rendered := make(map[string]bool, len(s.Nodes))
	for _, e := range s.Edges {
		fmt.Fprintf(&b, "    %s(%s) --> %s(%s);\n", e.Source, labelOf(e.Source), e.Target, labelOf(e.Target))
		rendered[e.Source] = true
		rendered[e.Target] = true
	}

	for _, n := range s.Nodes {
		if rendered[n.ID] {
			continue
		}
		// Guards against duplicate ids in the node list
		rendered[n.ID] = true
		fmt.Fprintf(&b, "    %s(%s);\n", n.ID, labelOf(n.ID))
	}

	return b.String()
}
