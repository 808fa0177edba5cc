package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/msaflow/pkg/assign"
)

func summary() *assign.Summary {
	return &assign.Summary{
		Network:    "diamond",
		Iterations: 10,
		Nodes:      []string{"A", "B", "C", "D"},
		Edges: []assign.EdgeReport{
			{Name: "A-B", From: "A", To: "B", Cost: 2.5, Flow: 10},
			{Name: "B-D", From: "B", To: "D", Cost: 1, Flow: 5},
			{Name: "A-C", From: "A", To: "C", Cost: 4, Flow: 0},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(summary(), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`label="diamond (10 iterations)"`,
		`"A";`,
		`"D";`,
		`"A" -> "B" [label="10.0", penwidth=8.00]`,
		`"B" -> "D" [label="5.0", penwidth=4.50]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_ZeroFlowDashed(t *testing.T) {
	dot := ToDOT(summary(), Options{})
	if !strings.Contains(dot, `"A" -> "C" [label="0.0", style=dashed, color=grey, fontcolor=grey]`) {
		t.Errorf("ToDOT() zero-flow edge not dashed:\n%s", dot)
	}
}

func TestToDOT_Options(t *testing.T) {
	dot := ToDOT(summary(), Options{Detailed: true, RankDir: "TB", MaxPenWidth: 3})

	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("ToDOT() ignored RankDir")
	}
	if !strings.Contains(dot, `label="10.0\nt=2.50", penwidth=3.00`) {
		t.Errorf("ToDOT() detailed label or pen width wrong:\n%s", dot)
	}
}

func TestToDOT_NoFlow(t *testing.T) {
	s := summary()
	for i := range s.Edges {
		s.Edges[i].Flow = 0
	}
	dot := ToDOT(s, Options{})
	if strings.Contains(dot, "penwidth") {
		t.Errorf("ToDOT() should not scale edges when nothing flows:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	e := assign.EdgeReport{Flow: 12.345, Cost: 7.891}
	if got := fmtLabel(e, false); got != "12.3" {
		t.Errorf("fmtLabel() simple = %q, want 12.3", got)
	}
	if got := fmtLabel(e, true); got != "12.3\nt=7.89" {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %q, want %q", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() modified svg without viewBox: %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(summary(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
