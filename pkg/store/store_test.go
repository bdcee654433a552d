package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	fs, err := m.LoadFamilies(ctx)
	require.NoError(t, err)
	assert.Empty(t, fs)

	in := []family.Family{{ID: "1003", Name: "Donati"}}
	require.NoError(t, m.SaveFamilies(ctx, in))
	in[0].Name = "mutated"

	fs, err = m.LoadFamilies(ctx)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "Donati", fs[0].Name, "store must copy on save")

	require.NoError(t, m.SaveEvents(ctx, []family.HistoricalEvent{{Year: 1260, Title: "Montaperti"}}))
	es, err := m.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1260, es[0].Year)
}
