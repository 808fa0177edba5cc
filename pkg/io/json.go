package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/msaflow/pkg/assign"
)

// WriteJSON encodes an assignment summary as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(w io.Writer, s *assign.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a summary written by [WriteJSON]. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*assign.Summary, error) {
	var s assign.Summary
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &s, nil
}

// ExportJSON writes a summary to a JSON file at path.
func ExportJSON(path string, s *assign.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, s)
}
