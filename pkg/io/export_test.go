package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/source/local"
)

func sample() ([]family.Family, []family.HistoricalEvent) {
	return []family.Family{
			{ID: "1024", Name: "Uberti", Status1Class: family.StatusNoble, Faction1Type: family.Ghibelline},
			{ID: "1003", Name: "Donati", Status1Class: family.StatusNoble, Faction1Type: family.Guelf, SubFaction: family.Black,
				Relationships: []family.Relationship{{TargetID: "1050", Type: "Feud", Year: family.Year(1300)}}},
		}, []family.HistoricalEvent{
			{Year: 1300, Title: "Calendimaggio"},
			{Year: 1266, Title: "Benevento"},
		}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out.json", FormatJSON},
		{"out.YAML", FormatYAML},
		{"dir/out.yml", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if err != nil || got != tt.want {
				t.Errorf("FormatFor(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
			}
		})
	}
	if _, err := FormatFor("out.csv"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("csv: err = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteSortsAndValidates(t *testing.T) {
	families, events := sample()

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, families, events); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, `"1003"`) > strings.Index(out, `"1024"`) {
		t.Error("families should be sorted by id")
	}
	if strings.Index(out, "Benevento") > strings.Index(out, "Calendimaggio") {
		t.Error("events should be in chronological order")
	}
	if families[0].ID != "1024" || events[0].Year != 1300 {
		t.Error("Write must not reorder its arguments")
	}

	dup := append(families, family.Family{ID: "1003", Name: "Donati"})
	if err := Write(&buf, FormatYAML, dup, nil); !errors.Is(err, errors.ErrCodeInvalidFamily) {
		t.Errorf("duplicate id: err = %v, want INVALID_FAMILY", err)
	}
	if err := Write(&buf, FormatYAML, []family.Family{{ID: "1"}}, nil); !errors.Is(err, errors.ErrCodeInvalidFamily) {
		t.Errorf("nameless family: err = %v, want INVALID_FAMILY", err)
	}
	if err := Write(&buf, "toml", families, nil); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("toml: err = %v, want INVALID_FORMAT", err)
	}
}

func TestExportFileReadsBack(t *testing.T) {
	families, events := sample()
	for _, name := range []string{"dump.yaml", "dump.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := ExportFile(path, families, events); err != nil {
				t.Fatal(err)
			}

			p := local.New(path, path)
			got, err := p.Families(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 || got[0].ID != "1003" || got[0].SubFaction != family.Black {
				t.Errorf("families read back = %+v", got)
			}
			if rel := got[0].Relationships; len(rel) != 1 || *rel[0].Year != 1300 {
				t.Errorf("relationships read back = %+v", rel)
			}
			evs, err := p.Events(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(evs) != 2 || evs[0].Year != 1266 {
				t.Errorf("events read back = %+v", evs)
			}
		})
	}
}
