package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/msaflow/pkg/assign"
	msaio "github.com/matzehuels/msaflow/pkg/io"
	"github.com/matzehuels/msaflow/pkg/observability"
	"github.com/matzehuels/msaflow/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s *assign.Summary, opts Options) (artifacts map[string][]byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, s, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, s *assign.Summary, format string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatText:
		if err := msaio.WriteReport(&buf, s); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := msaio.WriteJSON(&buf, s); err != nil {
			return nil, err
		}
	case FormatDOT:
		buf.WriteString(render.ToDOT(s, render.Options{Detailed: opts.Detailed}))
	case FormatSVG:
		return render.RenderSVG(ctx, render.ToDOT(s, render.Options{Detailed: opts.Detailed}))
	default:
		return nil, ValidateFormat(format)
	}
	return buf.Bytes(), nil
}

// WriteFiles writes each artifact to dir as <base><ext>, creating dir if
// needed, and returns the written paths in format order. Formats without an
// artifact are skipped.
func WriteFiles(dir, base string, artifacts map[string][]byte, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, base+FormatExt[format])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
