package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/timeline"
	"github.com/matzehuels/factionmap/pkg/errors"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type document struct {
	Families []family.Family          `json:"families" yaml:"families"`
	Events   []family.HistoricalEvent `json:"events,omitempty" yaml:"events,omitempty"`
}

// Write encodes families and events to w in format. Every family is
// validated first; an invalid record aborts the export.
func Write(w io.Writer, format string, families []family.Family, events []family.HistoricalEvent) error {
	doc := document{
		Families: make([]family.Family, len(families)),
		Events:   timeline.Sorted(events),
	}
	copy(doc.Families, families)
	sort.SliceStable(doc.Families, func(i, j int) bool { return doc.Families[i].ID < doc.Families[j].ID })

	for i, f := range doc.Families {
		if err := errors.ValidateFamily(f); err != nil {
			return err
		}
		if i > 0 && doc.Families[i-1].ID == f.ID {
			return errors.New(errors.ErrCodeInvalidFamily, "duplicate family id %s", f.ID)
		}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (want json or yaml)", format)
	}
	return nil
}

// FormatFor returns the export format for a file name: json for .json,
// yaml for .yaml and .yml.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot tell export format from %q (use .json, .yaml or .yml)", path)
}

// ExportFile writes the dataset to path in the format named by its
// extension. This is a convenience wrapper around [Write] for file-based
// output.
func ExportFile(path string, families []family.Family, events []family.HistoricalEvent) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, format, families, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
