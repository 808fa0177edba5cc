package io

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/msaflow/pkg/assign"
)

func tinySummary() *assign.Summary {
	return &assign.Summary{
		Network:       "tiny",
		Iterations:    2,
		UE:            25,
		DeviatingFlow: 10,
		AEC:           5,
		TotalDemand:   20,
		Pairs: []assign.PairReport{{
			OD:      "A|B",
			Demand:  20,
			MinCost: 20,
			Routes: []assign.RouteReport{
				{Route: "A-B", Key: "0", Flow: 10, Cost: 20},
				{Route: "A-B", Key: "1", Flow: 10, Cost: 30, Deviating: true, Deviation: 10},
			},
		}},
		Edges: []assign.EdgeReport{
			{Name: "A-B", From: "A", To: "B", Cost: 20, Flow: 10},
			{Name: "A-B", From: "A", To: "B", Cost: 30, Flow: 10},
		},
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, tinySummary()); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	route := strings.Repeat(" ", 28) + "A-B" + strings.Repeat(" ", 29)
	want := strings.Join([]string{
		"#net_name: tiny iterations: 2",
		"#od\troute\tflow\ttravel time\tdeviations",
		"A|B\t" + route + "\t10.00 \t20.00\t0.00",
		"A|B\t" + route + "\t10.00 \t30.00\t10.00",
		"Average travel time: 25.0 min",
		"Deviations: 10",
		"AEC: 5.0000000000",
		"Name\tTime\tFlow",
		" A-B \t20.0000\t10.0",
		" A-B \t30.0000\t10.0",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("report mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteReportTruncatesDeviations(t *testing.T) {
	s := tinySummary()
	s.DeviatingFlow = 10.97
	var buf bytes.Buffer
	if err := WriteReport(&buf, s); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\nDeviations: 10\n") {
		t.Errorf("deviating flow should be truncated to an integer:\n%s", buf.String())
	}
}

func TestWriteReportFromAssignment(t *testing.T) {
	net, err := ImportNetwork(filepath.Join("testdata", "braess.net"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := assign.Run(context.Background(), net, assign.Options{Iterations: 200})
	if err != nil {
		t.Fatal(err)
	}
	sum, err := assign.Evaluate(res)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, sum); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != "#net_name: braess iterations: 200" {
		t.Errorf("header = %q", lines[0])
	}
	wantLines := 2 + res.Routes.Len() + 3 + 1 + net.EdgeCount()
	if len(lines) != wantLines {
		t.Errorf("got %d lines, want %d:\n%s", len(lines), wantLines, buf.String())
	}
	for _, l := range lines[2 : 2+res.Routes.Len()] {
		if !strings.HasPrefix(l, "s|t\t") {
			t.Errorf("route line %q does not start with the OD key", l)
		}
	}
}

func TestWriteEdgeTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEdgeTable(&buf, tinySummary().Edges); err != nil {
		t.Fatal(err)
	}
	want := "Name\tTime\t Flow\nA-B\t20.0000\t10.0\nA-B\t30.0000\t10.0\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestReportFilename(t *testing.T) {
	tm := time.Date(2024, 3, 9, 7, 5, 42, 0, time.Local)
	if got := ReportFilename("sf", tm); got != "sf_7h5m42s" {
		t.Errorf("ReportFilename = %q, want sf_7h5m42s", got)
	}
}

func TestExportReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	tm := time.Date(2024, 3, 9, 16, 30, 0, 0, time.Local)

	path, err := ExportReport(dir, tinySummary(), tm)
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
	if filepath.Base(path) != "tiny_16h30m0s" {
		t.Errorf("file = %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("#net_name: tiny iterations: 2\n")) {
		t.Errorf("unexpected content:\n%s", data)
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"ab", 6, "  ab  "},
		{"abc", 6, " abc  "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := center(tt.s, tt.width); got != tt.want {
			t.Errorf("center(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	a, b := 0.1, 0.2
	tests := []struct {
		in   float64
		want string
	}{
		{25, "25.0"},
		{2.5, "2.5"},
		{a + b, "0.30000000000000004"},
		{123456.789, "123456.789"},
		{0, "0.0"},
		{-3, "-3.0"},
		{1e-05, "1e-05"},
		{1e16, "1e+16"},
		{0.0001, "0.0001"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	want := tinySummary()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, want); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"aec": 5`) {
		t.Errorf("expected snake_case keys:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Network != want.Network || got.UE != want.UE || got.AEC != want.AEC {
		t.Errorf("scalars = %+v", got)
	}
	if len(got.Pairs) != 1 || len(got.Pairs[0].Routes) != 2 || !got.Pairs[0].Routes[1].Deviating {
		t.Errorf("pairs = %+v", got.Pairs)
	}
	if got.Pairs[0].Routes[1].Key != "1" {
		t.Errorf("route key = %q", got.Pairs[0].Routes[1].Key)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error")
	}
}
