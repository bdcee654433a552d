// Package local loads datasets from JSON or YAML files.
//
// Families and events are each given as a path or a doublestar glob
// ("data/**/*.yaml"). Matching files are read in lexical path order; a
// family id seen again in a later file replaces the earlier record in
// place. A file holds either a bare list or a document with a top-level
// "families" or "events" key.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/source"
)

// Provider reads families and events from local files.
type Provider struct {
	FamiliesPattern string
	EventsPattern   string
}

// New returns a provider for the given patterns. Either may be empty.
func New(familiesPattern, eventsPattern string) *Provider {
	return &Provider{FamiliesPattern: familiesPattern, EventsPattern: eventsPattern}
}

func (p *Provider) Name() string { return p.FamiliesPattern }

// Patterns returns the non-empty patterns, for the watcher.
func (p *Provider) Patterns() []string {
	var out []string
	for _, pat := range []string{p.FamiliesPattern, p.EventsPattern} {
		if pat != "" {
			out = append(out, pat)
		}
	}
	return out
}

// Families reads every file matched by FamiliesPattern.
func (p *Provider) Families(ctx context.Context) ([]family.Family, error) {
	if p.FamiliesPattern == "" {
		return nil, source.ErrNoData
	}
	paths, err := Expand(p.FamiliesPattern)
	if err != nil {
		return nil, err
	}

	var out []family.Family
	pos := map[string]int{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var doc struct {
			Families []family.Family `json:"families" yaml:"families"`
		}
		if err := decode(path, &doc.Families, &doc); err != nil {
			return nil, err
		}
		for _, f := range doc.Families {
			if err := errors.ValidateFamily(f); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if i, ok := pos[f.ID]; ok {
				out[i] = f
				continue
			}
			pos[f.ID] = len(out)
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, source.ErrNoData
	}
	return out, nil
}

// Events reads every file matched by EventsPattern.
func (p *Provider) Events(ctx context.Context) ([]family.HistoricalEvent, error) {
	if p.EventsPattern == "" {
		return nil, source.ErrNoData
	}
	paths, err := Expand(p.EventsPattern)
	if err != nil {
		return nil, err
	}

	var out []family.HistoricalEvent
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var doc struct {
			Events []family.HistoricalEvent `json:"events" yaml:"events"`
		}
		if err := decode(path, &doc.Events, &doc); err != nil {
			return nil, err
		}
		out = append(out, doc.Events...)
	}
	if len(out) == 0 {
		return nil, source.ErrNoData
	}
	return out, nil
}

// Expand resolves pattern to a sorted list of files. A pattern without
// glob metacharacters must name an existing file.
func Expand(pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		if _, err := os.Stat(pattern); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", pattern)
			}
			return nil, err
		}
		return []string{pattern}, nil
	}
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad pattern %s", pattern)
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no files match %s", pattern)
	}
	sort.Strings(paths)
	return paths, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// decode reads path into list, or into wrapped when the file is a mapping.
func decode(path string, list, wrapped any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		trimmed := strings.TrimSpace(string(data))
		target := wrapped
		if strings.HasPrefix(trimmed, "[") {
			target = list
		}
		if err := json.Unmarshal(data, target); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
	case ".yaml", ".yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
		if len(node.Content) == 0 {
			return nil
		}
		target := wrapped
		if node.Content[0].Kind == yaml.SequenceNode {
			target = list
		}
		if err := node.Decode(target); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported file type %q: %s", ext, path)
	}
	return nil
}

var _ source.Provider = (*Provider)(nil)
