// Package timeline steps through the chronicle years and annotates them
// with historical events.
//
// A [Clock] holds the current year and a play flag. It is a plain value with
// no goroutines: the caller drives playback by calling [Clock.Tick] every
// [PlayInterval].
package timeline

import (
	"sort"
	"time"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// Interactive year range and playback speed.
const (
	InitialYear  = 1215
	MaxYear      = 1302
	AbsoluteMax  = 1450
	PlayInterval = 500 * time.Millisecond
)

// ChronicleYears are the turning points offered as quick jumps.
var ChronicleYears = []int{1216, 1250, 1260, 1266, 1282, 1293, 1300, 1302}

// Direction selects the neighbour event for [Clock.Jump].
type Direction int

const (
	Next Direction = iota
	Prev
)

// ParseDirection maps "next" and "prev" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "next":
		return Next, true
	case "prev":
		return Prev, true
	}
	return Next, false
}

// Clock is the timeline cursor. The zero value is not useful; use [NewClock].
type Clock struct {
	Year    int
	Min     int
	Max     int
	Playing bool
}

// NewClock returns a paused clock at first. If last < first, last is raised
// to first.
func NewClock(first, last int) Clock {
	if last < first {
		last = first
	}
	return Clock{Year: first, Min: first, Max: last}
}

// DefaultClock returns the interactive clock, 1215 to 1302.
func DefaultClock() Clock { return NewClock(InitialYear, MaxYear) }

// Set moves to year, clamped to the range.
func (c *Clock) Set(year int) {
	c.Year = max(c.Min, min(c.Max, year))
}

// Step moves by delta years, clamped to the range.
func (c *Clock) Step(delta int) { c.Set(c.Year + delta) }

// Toggle flips between playing and paused.
func (c *Clock) Toggle() { c.Playing = !c.Playing }

// Tick advances one year while playing. At Max it pauses instead. It reports
// whether the year changed.
func (c *Clock) Tick() bool {
	if !c.Playing {
		return false
	}
	if c.Year >= c.Max {
		c.Playing = false
		return false
	}
	c.Year++
	return true
}

// Jump moves to the nearest event strictly after (Next) or before (Prev) the
// current year. Without such an event the year is unchanged. The target is
// not clamped to the range.
func (c *Clock) Jump(events []family.HistoricalEvent, dir Direction) bool {
	y, ok := Neighbor(events, c.Year, dir)
	if ok {
		c.Year = y
	}
	return ok
}

// Neighbor returns the year of the nearest event strictly after or before
// year.
func Neighbor(events []family.HistoricalEvent, year int, dir Direction) (int, bool) {
	best, found := 0, false
	for _, e := range events {
		switch {
		case dir == Next && e.Year > year && (!found || e.Year < best):
			best, found = e.Year, true
		case dir == Prev && e.Year < year && (!found || e.Year > best):
			best, found = e.Year, true
		}
	}
	return best, found
}

// Sorted returns events ordered by year, keeping input order within a year.
func Sorted(events []family.HistoricalEvent) []family.HistoricalEvent {
	out := append([]family.HistoricalEvent(nil), events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// EventsUpTo returns the events on or before year, sorted.
func EventsUpTo(events []family.HistoricalEvent, year int) []family.HistoricalEvent {
	var out []family.HistoricalEvent
	for _, e := range Sorted(events) {
		if e.Year > year {
			break
		}
		out = append(out, e)
	}
	return out
}

// EventAt returns the first event dated exactly year.
func EventAt(events []family.HistoricalEvent, year int) (family.HistoricalEvent, bool) {
	for _, e := range Sorted(events) {
		if e.Year == year {
			return e, true
		}
	}
	return family.HistoricalEvent{}, false
}

// Latest returns the most recent event on or before year.
func Latest(events []family.HistoricalEvent, year int) (family.HistoricalEvent, bool) {
	past := EventsUpTo(events, year)
	if len(past) == 0 {
		return family.HistoricalEvent{}, false
	}
	return past[len(past)-1], true
}
