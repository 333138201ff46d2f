package domain

import "strings"

// NormalizePath canonicalizes a node path for comparison: backslashes become
// forward slashes and the whole string is lower-cased. Nothing is trimmed.
func NormalizePath(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
}

// DriftResult partitions plan and actual nodes by drift status
type DriftResult struct {
	Matched   []ClassifiedNode `json:"matched"`
	Missing   []ClassifiedNode `json:"missing"`
	Untracked []ClassifiedNode `json:"untracked"`
}

// HasDrift reports whether anything is missing or untracked
func (r DriftResult) HasDrift() bool {
	return len(r.Missing) > 0 || len(r.Untracked) > 0
}

// pathIndex maps normalized paths to nodes. Keys keep first-seen order,
// values are last-write-wins.
type pathIndex struct {
	keys  []string
	nodes map[string]Node
}

func indexByPath(nodes []Node) pathIndex {
	idx := pathIndex{nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		key := NormalizePath(n.Path)
		if _, ok := idx.nodes[key]; !ok {
			idx.keys = append(idx.keys, key)
		}
		idx.nodes[key] = n
	}
	return idx
}

// CalculateDrift classifies plan and actual nodes as matched, missing or
// untracked. Matched nodes carry the actual node's attributes overlaid on the
// plan node's. Matched and missing follow plan order, untracked follows actual
// order.
func CalculateDrift(plan, actual []Node) DriftResult {
	result := DriftResult{
		Matched:   []ClassifiedNode{},
		Missing:   []ClassifiedNode{},
		Untracked: []ClassifiedNode{},
	}

	planIdx := indexByPath(plan)
	actualIdx := indexByPath(actual)

	for _, key := range planIdx.keys {
		planned := planIdx.nodes[key]
		if found, ok := actualIdx.nodes[key]; ok {
			result.Matched = append(result.Matched, ClassifiedNode{
				Node:   planned.overlay(found),
				Status: StatusMatched,
			})
			continue
		}
		result.Missing = append(result.Missing, ClassifiedNode{Node: planned, Status: StatusMissing})
	}

	for _, key := range actualIdx.keys {
		if _, ok := planIdx.nodes[key]; ok {
			continue
		}
		result.Untracked = append(result.Untracked, ClassifiedNode{
			Node:   actualIdx.nodes[key],
			Status: StatusUntracked,
		})
	}

	return result
}

// DuplicatePaths returns the normalized paths that occur more than once in
// nodes, in first-seen order. CalculateDrift keeps only the last of each.
func DuplicatePaths(nodes []Node) []string {
	counts := make(map[string]int, len(nodes))
	var order []string
	for _, n := range nodes {
		key := NormalizePath(n.Path)
		counts[key]++
		if counts[key] == 2 {
			order = append(order, key)
		}
	}
	return order
}
