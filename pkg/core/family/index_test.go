package family

import (
	"reflect"
	"testing"
)

func TestRelationshipTokens(t *testing.T) {
	tests := []struct {
		name string
		rel  Relationship
		want []string
	}{
		{"single id", Relationship{TargetID: "1003"}, []string{"1003"}},
		{"mixed separators", Relationship{TargetID: " 1003, 1004;;1005 "}, []string{"1003", "1004", "1005"}},
		{"n/a falls back to name", Relationship{TargetID: "#N/A", TargetName: "Donati; Cerchi"}, []string{"Donati", "Cerchi"}},
		{"empty id falls back to name", Relationship{TargetName: "Donati"}, []string{"Donati"}},
		{"both missing", Relationship{TargetID: "#N/A", TargetName: "#N/A"}, nil},
		{"empty tokens dropped", Relationship{TargetID: ",;,"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rel.Tokens(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexLookup(t *testing.T) {
	idx := NewIndex([]Family{
		{ID: "1003", Name: "Donati"},
		{ID: "1010", Name: "Cerchi"},
		{ID: "1010_2", Name: "Cerchi"},
	})

	if idx.Len() != 3 {
		t.Errorf("Len = %d, want 3", idx.Len())
	}
	if f, ok := idx.Lookup("1003"); !ok || f.Name != "Donati" {
		t.Errorf("Lookup by id = %+v, %v", f, ok)
	}
	if f, ok := idx.Lookup("cerchi"); !ok || f.ID != "1010" {
		t.Errorf("Lookup by name = %+v, %v; want first match 1010", f, ok)
	}
	if _, ok := idx.Lookup("Uberti"); ok {
		t.Error("Lookup of unknown name succeeded")
	}

	got := idx.Targets(Relationship{TargetID: "1003, nope, 1010_2"})
	if len(got) != 2 || got[0].ID != "1003" || got[1].ID != "1010_2" {
		t.Errorf("Targets = %+v", got)
	}
}

func TestRelationshipActiveIn(t *testing.T) {
	if !(Relationship{}).ActiveIn(1200) {
		t.Error("undated relationship should always be active")
	}
	r := Relationship{Year: Year(1280)}
	if r.ActiveIn(1279) || !r.ActiveIn(1280) {
		t.Error("dated relationship should start in its year")
	}
	if got := (Relationship{Type: "  Marriage "}).NormalizedType(); got != "marriage" {
		t.Errorf("NormalizedType = %q", got)
	}
	if got := (Relationship{}).NormalizedType(); got != "unknown" {
		t.Errorf("NormalizedType = %q, want unknown", got)
	}
}
