package timeline_test

import (
	"fmt"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/timeline"
)

func ExampleClock_Jump() {
	events := []family.HistoricalEvent{
		{Year: 1216, Title: "The Murder of Buondelmonte"},
		{Year: 1260, Title: "Battle of Montaperti"},
		{Year: 1266, Title: "Battle of Benevento"},
	}

	c := timeline.DefaultClock()
	c.Jump(events, timeline.Next)
	fmt.Println(c.Year)
	c.Jump(events, timeline.Next)
	fmt.Println(c.Year)
	c.Step(3)
	c.Jump(events, timeline.Prev)
	fmt.Println(c.Year)
	// Output:
	// 1216
	// 1260
	// 1260
}
