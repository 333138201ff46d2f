package domain

import (
	"strings"
	"testing"
)

func TestRenderPlan_KindClasses(t *testing.T) {
	s := Structure{
		Nodes: []Node{
			{ID: "root", Label: "app", Kind: KindFolder},
			{ID: "main", Label: "main.go", Kind: KindFile, ParentID: "root"},
		},
		Edges: []Edge{{Source: "root", Target: "main"}},
	}

	got := RenderPlan(s)

	if !strings.HasPrefix(got, GenerateGraph(s)) {
		t.Fatalf("styled text should start with the bare graph, got %q", got)
	}
	for _, want := range []string{
		"class root folder;",
		"class main file;",
		"classDef folder ",
		"classDef file ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "classDef missing") || strings.Contains(got, "classDef untracked") {
		t.Errorf("unused classes should not be defined: %q", got)
	}
}

func TestRenderPlan_Empty(t *testing.T) {
	if got := RenderPlan(Structure{}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestNodeClass_StatusBeatsKind(t *testing.T) {
	tests := []struct {
		name string
		node ClassifiedNode
		want string
	}{
		{name: "matched folder", node: ClassifiedNode{Node: Node{Kind: KindFolder}, Status: StatusMatched}, want: ClassFolder},
		{name: "matched file", node: ClassifiedNode{Node: Node{Kind: KindFile}, Status: StatusMatched}, want: ClassFile},
		{name: "missing folder", node: ClassifiedNode{Node: Node{Kind: KindFolder}, Status: StatusMissing}, want: ClassMissing},
		{name: "missing file", node: ClassifiedNode{Node: Node{Kind: KindFile}, Status: StatusMissing}, want: ClassMissing},
		{name: "untracked folder", node: ClassifiedNode{Node: Node{Kind: KindFolder}, Status: StatusUntracked}, want: ClassUntracked},
		{name: "untracked file", node: ClassifiedNode{Node: Node{Kind: KindFile}, Status: StatusUntracked}, want: ClassUntracked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NodeClass(tt.node); got != tt.want {
				t.Errorf("NodeClass() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleClassified_Structure(t *testing.T) {
	s := ClassifiedStructure{
		Nodes: []ClassifiedNode{
			{Node: Node{ID: "root", Label: "app", Kind: KindFolder}, Status: StatusMatched},
			{Node: Node{ID: "gone", Label: "gone.ts", Kind: KindFile, ParentID: "root"}, Status: StatusMissing},
			{Node: Node{ID: "new", Label: "new.ts", Kind: KindFile}, Status: StatusUntracked},
		},
		Edges: []Edge{{Source: "root", Target: "gone"}},
	}

	g := StyleClassified(s)

	wantDefs := []string{ClassFolder, ClassMissing, ClassUntracked}
	if len(g.ClassDefs) != len(wantDefs) {
		t.Fatalf("expected %d class defs, got %+v", len(wantDefs), g.ClassDefs)
	}
	for i, name := range wantDefs {
		if g.ClassDefs[i].Name != name {
			t.Errorf("class def %d = %q, want %q", i, g.ClassDefs[i].Name, name)
		}
	}

	wantAssign := []ClassAssignment{
		{NodeID: "root", Class: ClassFolder},
		{NodeID: "gone", Class: ClassMissing},
		{NodeID: "new", Class: ClassUntracked},
	}
	if len(g.Assignments) != len(wantAssign) {
		t.Fatalf("expected %d assignments, got %+v", len(wantAssign), g.Assignments)
	}
	for i, a := range wantAssign {
		if g.Assignments[i] != a {
			t.Errorf("assignment %d = %+v, want %+v", i, g.Assignments[i], a)
		}
	}

	text := g.String()
	if !strings.Contains(text, "stroke-dasharray") {
		t.Errorf("untracked class should carry a distinct border, got %q", text)
	}
	if RenderClassified(s) != text {
		t.Error("RenderClassified should equal StyleClassified().String()")
	}
}

func TestRenderClassified_Reproducible(t *testing.T) {
	s := ClassifiedStructure{
		Nodes: []ClassifiedNode{
			{Node: Node{ID: "a", Label: "a", Kind: KindFolder}, Status: StatusMatched},
			{Node: Node{ID: "b", Label: "b(1)", Kind: KindFile}, Status: StatusMissing},
		},
		Edges: []Edge{{Source: "a", Target: "b"}},
	}
	if RenderClassified(s) != RenderClassified(s) {
		t.Error("expected identical output for identical input")
	}
}

func TestStyleClassified_RepeatedIDKeepsStatus(t *testing.T) {
	s := ClassifiedStructure{
		Nodes: []ClassifiedNode{
			{Node: Node{ID: "b", Label: "x", Kind: KindFile}, Status: StatusMatched},
			{Node: Node{ID: "b", Label: "y", Kind: KindFile}, Status: StatusMissing},
		},
	}

	g := StyleClassified(s)
	if len(g.Assignments) != 1 || g.Assignments[0].Class != ClassMissing {
		t.Fatalf("expected b to be styled missing, got %+v", g.Assignments)
	}
	if len(g.ClassDefs) != 1 || g.ClassDefs[0].Name != ClassMissing {
		t.Errorf("expected only the missing class def, got %+v", g.ClassDefs)
	}
}
