package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DriftState summarizes which drift subsets are non-empty
type DriftState int

const (
	StateAllMatched DriftState = iota
	StateMissing
	StateUntracked
	StateMixed
)

// String returns the string representation of the drift state
func (s DriftState) String() string {
	switch s {
	case StateAllMatched:
		return "all_matched"
	case StateMissing:
		return "missing"
	case StateUntracked:
		return "untracked"
	case StateMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// MarshalText lets the state appear as a string in JSON output
func (s DriftState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name as written by MarshalText
func (s *DriftState) UnmarshalText(text []byte) error {
	for _, st := range []DriftState{StateAllMatched, StateMissing, StateUntracked, StateMixed} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown drift state %q", text)
}

// StateOf derives the drift state of a result
func StateOf(r DriftResult) DriftState {
	switch {
	case len(r.Missing) > 0 && len(r.Untracked) > 0:
		return StateMixed
	case len(r.Missing) > 0:
		return StateMissing
	case len(r.Untracked) > 0:
		return StateUntracked
	default:
		return StateAllMatched
	}
}

// CheckSession is the per-check state of one drift check. Create a new one
// for every check; never share one across workspaces.
type CheckSession struct {
	ID                 string
	MissingNoticeShown bool
}

// NewCheckSession returns a fresh session with a random ID
func NewCheckSession() *CheckSession {
	return &CheckSession{ID: uuid.NewString()}
}

// DriftView is one diagram of a drift report with the status it highlights
type DriftView struct {
	Focus   Status         `json:"focus"`
	Title   string         `json:"title"`
	Payload DiagramPayload `json:"payload"`
}

// DriftReport is what a drift check hands to the presentation layer
type DriftReport struct {
	State   DriftState  `json:"state"`
	Message string      `json:"message"`
	Views   []DriftView `json:"views"`
}

// AssembleDrift turns a drift result into zero, one or two diagram views
// plus a summary message. Missing and untracked nodes never share a view.
// Edges come only from planEdges, filtered to each view's node set.
func AssembleDrift(result DriftResult, planEdges []Edge, session *CheckSession) DriftReport {
	if session == nil {
		session = &CheckSession{}
	}

	state := StateOf(result)
	report := DriftReport{State: state, Views: []DriftView{}}

	var parts []string
	switch state {
	case StateAllMatched:
		report.Message = fmt.Sprintf("No drift: all %d planned items exist on disk.", len(result.Matched))
		return report

	case StateMissing:
		report.Views = append(report.Views, buildView(StatusMissing, result.Matched, result.Missing, planEdges))
		parts = append(parts, missingNotice(result.Missing, session))

	case StateUntracked:
		report.Views = append(report.Views, buildView(StatusUntracked, result.Matched, result.Untracked, planEdges))
		parts = append(parts, untrackedNotice(result.Untracked))

	case StateMixed:
		report.Views = append(report.Views,
			buildView(StatusMissing, result.Matched, result.Missing, planEdges),
			buildView(StatusUntracked, result.Matched, result.Untracked, planEdges),
		)
		parts = append(parts, missingNotice(result.Missing, session), untrackedNotice(result.Untracked))
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	report.Message = strings.Join(nonEmpty, " ")
	return report
}

func buildView(focus Status, matched, highlighted []ClassifiedNode, planEdges []Edge) DriftView {
	nodes := make([]ClassifiedNode, 0, len(matched)+len(highlighted))
	nodes = append(nodes, matched...)
	nodes = append(nodes, highlighted...)
	distinctIDs(nodes)

	structure := ClassifiedStructure{
		Nodes: nodes,
		Edges: FilterEdges(planEdges, nodeIDs(nodes)),
	}

	title := "Missing from disk"
	if focus == StatusUntracked {
		title = "Untracked on disk"
	}

	return DriftView{
		Focus: focus,
		Title: title,
		Payload: DiagramPayload{
			MermaidSyntax: RenderClassified(structure),
			JSONStructure: structure,
		},
	}
}

// distinctIDs renames, in place, every node whose id was already used by an
// earlier node, appending _2, _3 and so on. Matched nodes carry actual ids
// while missing nodes keep plan ids, so one view can hold the same id twice.
// Renamed nodes lose their plan edges.
func distinctIDs(nodes []ClassifiedNode) {
	taken := nodeIDs(nodes)
	owned := make(map[string]bool, len(nodes))
	for i := range nodes {
		id := nodes[i].ID
		if !owned[id] {
			owned[id] = true
			continue
		}
		candidate := id
		for n := 2; taken[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", id, n)
		}
		taken[candidate] = true
		owned[candidate] = true
		nodes[i].ID = candidate
	}
}

func nodeIDs(nodes []ClassifiedNode) map[string]bool {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	return ids
}

// FilterEdges keeps the edges whose endpoints are both in ids, in order,
// dropping exact duplicates. It never creates edges.
func FilterEdges(edges []Edge, ids map[string]bool) []Edge {
	kept := []Edge{}
	seen := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		if !ids[e.Source] || !ids[e.Target] || seen[e] {
			continue
		}
		seen[e] = true
		kept = append(kept, e)
	}
	return kept
}

// missingNotice explains what is gone, once per session
func missingNotice(missing []ClassifiedNode, session *CheckSession) string {
	if session.MissingNoticeShown {
		return ""
	}
	session.MissingNoticeShown = true
	return fmt.Sprintf("%d planned %s missing from disk: %s.",
		len(missing), plural(len(missing), "item is", "items are"), joinPaths(missing))
}

func untrackedNotice(untracked []ClassifiedNode) string {
	return fmt.Sprintf("%d %s on disk but not in the plan: %s.",
		len(untracked), plural(len(untracked), "item is", "items are"), joinPaths(untracked))
}

const maxListedPaths = 10

func joinPaths(nodes []ClassifiedNode) string {
	var names []string
	for i, n := range nodes {
		if i == maxListedPaths {
			names = append(names, fmt.Sprintf("and %d more", len(nodes)-maxListedPaths))
			break
		}
		names = append(names, n.Path)
	}
	return strings.Join(names, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
