// Package loader scans a data directory and builds registry snapshots from
// the .json files it finds.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/agentic-research/fixtured/internal/registry"
	"github.com/ohler55/ojg/oj"
)

// Extension identifies candidate files. The match is case-sensitive:
// data.JSON is not served.
const Extension = ".json"

// Problem records a file skipped during a scan. Problems are recoverable;
// they never abort the scan.
type Problem struct {
	File   string
	Reason string
	Err    error
}

func (p Problem) String() string {
	if p.Err != nil {
		return fmt.Sprintf("%s: %s: %v", p.File, p.Reason, p.Err)
	}
	return fmt.Sprintf("%s: %s", p.File, p.Reason)
}

// Load scans dir and returns a snapshot mapping each eligible file to its
// route name (file name minus the .json suffix). Subdirectories and files
// with other extensions are ignored. Unreadable or malformed files, and
// files whose derived route name is unusable, are skipped and reported as
// Problems.
//
// An error is returned only when dir itself cannot be listed; a directory
// with no valid files yields an empty snapshot. os.ReadDir returns entries
// sorted by name, so if two files ever derive the same route the
// lexicographically greatest file wins.
func Load(dir string) (*registry.Snapshot, []Problem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read data directory: %w", err)
	}

	docs := make(map[string]registry.Document)
	var problems []Problem
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != Extension {
			continue
		}
		route := strings.TrimSuffix(name, Extension)
		if reason := checkRoute(route); reason != "" {
			problems = append(problems, Problem{File: name, Reason: reason})
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			problems = append(problems, Problem{File: name, Reason: "unreadable", Err: err})
			continue
		}
		root, err := oj.Parse(raw)
		if err != nil {
			problems = append(problems, Problem{File: name, Reason: "invalid JSON", Err: err})
			continue
		}
		if prev, ok := docs[route]; ok {
			problems = append(problems, Problem{
				File:   prev.File,
				Reason: fmt.Sprintf("route %q redefined by %s", route, name),
			})
		}
		docs[route] = registry.Document{Route: route, File: name, Body: Coerce(root)}
	}
	return registry.NewSnapshot(docs), problems, nil
}

// checkRoute returns a non-empty reason if route cannot be served.
func checkRoute(route string) string {
	switch {
	case route == "":
		return "empty route name"
	case !utf8.ValidString(route):
		return "route name is not valid UTF-8"
	case strings.ContainsAny(route, `/\`):
		return "route name contains a path separator"
	}
	return ""
}

// Coerce normalizes a parsed JSON root to array form: an array root is kept
// verbatim, any other root becomes a one-element array.
func Coerce(root any) []any {
	if arr, ok := root.([]any); ok {
		return arr
	}
	return []any{root}
}
