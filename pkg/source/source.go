// Package source loads family records and chronicle events.
//
// A [Provider] is anything that can produce a dataset: local JSON or YAML
// files (package local), the published spreadsheet (package sheet), or the
// built-in dataset. [Fallback] chains them the way the application has
// always behaved: prefer fresh remote data, keep the last good copy when
// the remote is down or empty, and fall back to the built-in data last.
package source

import (
	"context"
	"errors"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// ErrNoData is returned when a provider produced an empty dataset. Callers
// keep whatever they had before.
var ErrNoData = errors.New("source returned no data")

// Provider loads a dataset.
type Provider interface {
	// Name identifies the provider in logs ("sheet", "embedded", a path).
	Name() string
	Families(ctx context.Context) ([]family.Family, error)
	Events(ctx context.Context) ([]family.HistoricalEvent, error)
}

// Static serves a fixed dataset.
type Static struct {
	Label     string
	FamilySet []family.Family
	EventSet  []family.HistoricalEvent
}

func (s Static) Name() string { return s.Label }

// Families returns a copy of the family set, or ErrNoData if it is empty.
func (s Static) Families(context.Context) ([]family.Family, error) {
	if len(s.FamilySet) == 0 {
		return nil, ErrNoData
	}
	return append([]family.Family(nil), s.FamilySet...), nil
}

// Events returns a copy of the event set, or ErrNoData if it is empty.
func (s Static) Events(context.Context) ([]family.HistoricalEvent, error) {
	if len(s.EventSet) == 0 {
		return nil, ErrNoData
	}
	return append([]family.HistoricalEvent(nil), s.EventSet...), nil
}

var _ Provider = Static{}
