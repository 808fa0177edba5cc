package io

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/msaflow/pkg/assign"
)

// WriteReport writes the text report of an evaluated assignment to w.
func WriteReport(w io.Writer, s *assign.Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "#net_name: %s iterations: %d\n", s.Network, s.Iterations)
	bw.WriteString("#od\troute\tflow\ttravel time\tdeviations\n")
	for _, p := range s.Pairs {
		for _, r := range p.Routes {
			fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%.2f\n",
				p.OD,
				center(r.Route, 60),
				center(strconv.FormatFloat(r.Flow, 'f', 2, 64), 6),
				center(strconv.FormatFloat(r.Cost, 'f', 2, 64), 5),
				r.Deviation)
		}
	}
	fmt.Fprintf(bw, "Average travel time: %s min\n", formatFloat(s.UE))
	fmt.Fprintf(bw, "Deviations: %d\n", int64(s.DeviatingFlow))
	fmt.Fprintf(bw, "AEC: %.10f\n", s.AEC)

	bw.WriteString("Name\tTime\tFlow\n")
	for _, e := range s.Edges {
		fmt.Fprintf(bw, "%s\t%.4f\t%.1f\n", center(e.Name, 5), e.Cost, e.Flow)
	}
	return bw.Flush()
}

// WriteEdgeTable writes the compact edge table printed after a run.
func WriteEdgeTable(w io.Writer, edges []assign.EdgeReport) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("Name\tTime\t Flow\n")
	for _, e := range edges {
		fmt.Fprintf(bw, "%s\t%.4f\t%.1f\n", e.Name, e.Cost, e.Flow)
	}
	return bw.Flush()
}

// ReportFilename returns "<basename>_<H>h<M>m<S>s" for the local time t,
// without zero padding.
func ReportFilename(basename string, t time.Time) string {
	return fmt.Sprintf("%s_%dh%dm%ds", basename, t.Hour(), t.Minute(), t.Second())
}

// ExportReport writes the text report into dir, creating it if needed, and
// returns the file path.
func ExportReport(dir string, s *assign.Summary, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, ReportFilename(s.Network, t))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteReport(f, s); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// center pads s with spaces to width, the extra space going right.
func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// formatFloat renders v as the shortest string that round-trips, always
// with a decimal point or exponent ("25.0", "0.1", "1e-05", "1.5e+16").
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
