package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/msaflow/pkg/assign"
)

// Default pen widths for edges with no flow and with the largest flow.
const (
	DefaultMinPenWidth = 1.0
	DefaultMaxPenWidth = 8.0
)

// Options configures flow map rendering.
type Options struct {
	// Detailed adds the edge travel time to edge labels.
	// When false, only the flow is shown.
	Detailed bool

	// RankDir is the Graphviz layout direction. Defaults to "LR".
	RankDir string

	// MaxPenWidth is the width of the edge with the largest flow.
	MaxPenWidth float64
}

// ToDOT converts an evaluated assignment to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(s *assign.Summary, opts Options) string {
	if opts.RankDir == "" {
		opts.RankDir = "LR"
	}
	if opts.MaxPenWidth < DefaultMinPenWidth {
		opts.MaxPenWidth = DefaultMaxPenWidth
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("%s (%d iterations)", s.Network, s.Iterations))
	buf.WriteString("  labelloc=t;\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=16];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q;\n", n)
	}

	buf.WriteString("\n")
	maxFlow := 0.0
	for _, e := range s.Edges {
		maxFlow = max(maxFlow, e.Flow)
	}
	for _, e := range s.Edges {
		attrs := fmtAttrs(e, maxFlow, opts)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e assign.EdgeReport, detailed bool) string {
	flow := strconv.FormatFloat(e.Flow, 'f', 1, 64)
	if !detailed {
		return flow
	}
	return fmt.Sprintf("%s\nt=%.2f", flow, e.Cost)
}

func fmtAttrs(e assign.EdgeReport, maxFlow float64, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, opts.Detailed))}
	if e.Flow <= 0 || maxFlow <= 0 {
		return append(attrs, "style=dashed", "color=grey", "fontcolor=grey")
	}
	width := DefaultMinPenWidth + (opts.MaxPenWidth-DefaultMinPenWidth)*e.Flow/maxFlow
	return append(attrs, fmt.Sprintf("penwidth=%.2f", width))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based <svg> tag with one whose
// viewBox starts at the origin, so the image scales cleanly in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
