package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/msaflow/pkg/errors"
	"github.com/matzehuels/msaflow/pkg/network"
)

const maxLineSize = 1 << 20

// ReadNetwork parses a network file from r. name becomes the network's
// display name. ReadNetwork does not close r.
func ReadNetwork(r io.Reader, name string) (*network.Network, error) {
	net := network.New(name)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := parseLine(net, fields); err != nil {
			return nil, atLine(lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidNetwork, err, "read network %s", name)
	}
	return net, nil
}

// ImportNetwork reads the network file at path. The network is named after
// the file's base name up to the first dot.
func ImportNetwork(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "network file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadNetwork(f, NetworkName(path))
}

// NetworkName derives a network name from a file path: "nets/sf.net.txt"
// becomes "sf".
func NetworkName(path string) string {
	base := filepath.Base(path)
	name, _, _ := strings.Cut(base, ".")
	return name
}

func parseLine(net *network.Network, f []string) error {
	switch f[0] {
	case "function":
		if len(f) < 4 {
			return invalid("function needs a name, a parameter list and an expression")
		}
		params, err := parseParams(f[2])
		if err != nil {
			return err
		}
		_, err = net.DefineFunction(f[1], params, strings.Join(f[3:], " "))
		return err

	case "node":
		if len(f) != 2 {
			return invalid("node needs exactly one name")
		}
		_, err := net.AddNode(f[1])
		return err

	case "edge", "dedge":
		if len(f) < 5 {
			return invalid("%s needs an id, two nodes and a function", f[0])
		}
		consts, err := parseFloats(f[5:])
		if err != nil {
			return err
		}
		if f[0] == "edge" {
			_, _, err = net.AddBidirectionalEdge(f[2], f[3], f[4], consts)
		} else {
			_, err = net.AddEdge(f[2], f[3], f[4], consts)
		}
		return err

	case "od":
		if len(f) != 5 {
			return invalid("od needs an id, an origin, a destination and a demand")
		}
		if f[2] == f[3] {
			return nil
		}
		demand, err := strconv.ParseFloat(f[4], 64)
		if err != nil {
			return invalid("bad demand %q", f[4])
		}
		return net.AddODPair(f[2], f[3], demand)

	default:
		return invalid("unknown keyword %q", f[0])
	}
}

// parseParams splits "(f)" or "(a,b)" into parameter names.
func parseParams(s string) ([]string, error) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, invalid("parameter list must be parenthesized, got %q", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseFloats(ss []string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalid("bad constant %q", s)
		}
		out[i] = v
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidNetwork, format, args...)
}

// atLine prefixes err's message with the line number, keeping its code.
func atLine(n int, err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return &apperr.Error{
			Code:    e.Code,
			Message: fmt.Sprintf("line %d: %s", n, e.Message),
			Cause:   e.Cause,
		}
	}
	return apperr.Wrap(apperr.ErrCodeInvalidNetwork, err, "line %d", n)
}
