// Package dataset provides the built-in family records and chronicle
// events.
//
// The data is embedded directly into the binary using go:embed and decoded
// once on first access. It is the last fallback when neither the published
// sheet nor a saved snapshot is available.
package dataset

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/source"
)

// Name labels the built-in provider in logs.
const Name = "embedded"

//go:embed families.yaml
var familiesYAML []byte

//go:embed events.yaml
var eventsYAML []byte

var (
	decodeOnce sync.Once
	families   []family.Family
	events     []family.HistoricalEvent
)

func decode() {
	if err := yaml.Unmarshal(familiesYAML, &families); err != nil {
		panic(fmt.Sprintf("dataset: families.yaml: %v", err))
	}
	if err := yaml.Unmarshal(eventsYAML, &events); err != nil {
		panic(fmt.Sprintf("dataset: events.yaml: %v", err))
	}
}

// Families returns a copy of the built-in family records.
func Families() []family.Family {
	decodeOnce.Do(decode)
	return append([]family.Family(nil), families...)
}

// Events returns a copy of the built-in chronicle events, in year order.
func Events() []family.HistoricalEvent {
	decodeOnce.Do(decode)
	return append([]family.HistoricalEvent(nil), events...)
}

// Provider serves the built-in dataset.
func Provider() source.Provider {
	return source.Static{Label: Name, FamilySet: Families(), EventSet: Events()}
}
