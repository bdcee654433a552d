package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

func TestGroupSummary(t *testing.T) {
	tests := []struct {
		name   string
		counts map[family.VisualGroup]int
		want   []string
		absent []string
	}{
		{
			name:   "canvas order",
			counts: map[family.VisualGroup]int{family.GroupGuelf: 2, family.GroupExile: 1},
			want:   []string{"Exile", "Guelf", "2"},
			absent: []string{"Ghibelline", "White", "Black"},
		},
		{
			name:   "empty",
			counts: nil,
			want:   []string{"no families"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupSummary(tt.counts)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("summary %q lacks %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("summary %q should skip %q", got, a)
				}
			}
		})
	}

	got := groupSummary(map[family.VisualGroup]int{family.GroupGuelf: 2, family.GroupExile: 1})
	if strings.Index(got, "Exile") > strings.Index(got, "Guelf") {
		t.Errorf("groups out of canvas order: %q", got)
	}
}
