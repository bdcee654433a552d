package dataset

import (
	"context"
	"testing"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/timeline"
	"github.com/matzehuels/factionmap/pkg/errors"
)

func TestFamilies(t *testing.T) {
	fs := Families()
	if len(fs) == 0 {
		t.Fatal("no built-in families")
	}
	seen := map[string]bool{}
	for _, f := range fs {
		if err := errors.ValidateFamily(f); err != nil {
			t.Errorf("family %q: %v", f.ID, err)
		}
		if seen[f.ID] {
			t.Errorf("duplicate id %q", f.ID)
		}
		seen[f.ID] = true
	}

	idx := family.NewIndex(fs)
	adimari, ok := idx.Get("1039_2")
	if !ok {
		t.Fatal("Adimari tower II missing")
	}
	if adimari.ParentID() != "1039" || adimari.Coordinates == nil {
		t.Errorf("Adimari tower II = %+v", adimari)
	}
	if c := adimari.Coordinates; c != nil && (c.Lat < 43 || c.Lat > 44 || c.Lng < 11 || c.Lng > 12) {
		t.Errorf("coordinates not in Florence: %+v", c)
	}
}

func TestFamiliesResolve(t *testing.T) {
	idx := family.NewIndex(Families())
	tests := []struct {
		id    string
		year  int
		group family.VisualGroup
	}{
		{"1024", 1250, family.GroupGhibelline},
		{"1024", 1270, family.GroupExile},
		{"1003", 1301, family.GroupBlack},
		{"1039", 1300, family.GroupWhite},
		{"1039", 1302, family.GroupExile},
	}
	for _, tt := range tests {
		f, ok := idx.Get(tt.id)
		if !ok {
			t.Fatalf("family %s missing", tt.id)
		}
		if got := family.Resolve(f, tt.year).Group; got != tt.group {
			t.Errorf("Resolve(%s, %d).Group = %s, want %s", f.Name, tt.year, got, tt.group)
		}
	}
}

func TestEvents(t *testing.T) {
	evs := Events()
	if len(evs) != 11 {
		t.Fatalf("len(Events()) = %d, want 11", len(evs))
	}
	for i, e := range evs {
		if e.Title == "" || e.FullDescription == "" || len(e.Sources) == 0 {
			t.Errorf("event %d incomplete: %+v", e.Year, e)
		}
		if i > 0 && evs[i-1].Year >= e.Year {
			t.Errorf("events out of order at %d", e.Year)
		}
	}
	for _, y := range timeline.ChronicleYears {
		if _, ok := timeline.EventAt(evs, y); !ok {
			t.Errorf("no event for chronicle year %d", y)
		}
	}
}

func TestCopies(t *testing.T) {
	a := Families()
	a[0].Name = "changed"
	if Families()[0].Name == "changed" {
		t.Error("Families() shares its backing array")
	}
}

func TestProvider(t *testing.T) {
	p := Provider()
	if p.Name() != Name {
		t.Errorf("Name() = %q", p.Name())
	}
	fs, err := p.Families(context.Background())
	if err != nil || len(fs) != len(Families()) {
		t.Errorf("Families() = %d, %v", len(fs), err)
	}
	evs, err := p.Events(context.Background())
	if err != nil || len(evs) != 11 {
		t.Errorf("Events() = %d, %v", len(evs), err)
	}
}
