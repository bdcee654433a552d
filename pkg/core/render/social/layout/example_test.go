package layout_test

import (
	"fmt"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
)

func ExampleBuild() {
	families := []family.Family{
		{ID: "1003", Name: "Donati", Status1Class: family.StatusNoble, Faction1Type: family.Guelf, SubFaction: family.Black},
		{ID: "1010", Name: "Cerchi", Status1Class: family.StatusPopoloGrasso, Faction1Type: family.Guelf, SubFaction: family.White},
	}

	l := layout.Build(families, 1305)
	for _, n := range l.Nodes {
		fmt.Printf("%s %s %s (%.1f, %.2f) w=%.0f\n", n.ID, n.Name, n.Lane, n.Position.X, n.Position.Y, n.Width)
	}
	fmt.Printf("overlap: %.2f\n", layout.OverlapRatio(l))
	// Output:
	// 1003 Donati Noble (225.0, 24.00) w=13
	// 1010 Cerchi Grassi (251.5, 55.00) w=13
	// overlap: 0.00
}
