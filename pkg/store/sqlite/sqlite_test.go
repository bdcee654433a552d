package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/store"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "factionmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmptySnapshot(t *testing.T) {
	s := open(t)
	fs, err := s.LoadFamilies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fs)

	_, ok, err := s.Stat(context.Background(), store.KeyFamilies)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	in := []family.Family{
		{
			ID: "1003", Name: "Donati", Faction1Type: family.Guelf, SubFaction: family.Black,
			Status2Year: family.Year(1293), Coordinates: &family.LatLng{Lat: 43.772, Lng: 11.258},
			Relationships: []family.Relationship{{TargetID: "1010", Type: "Feud", Year: family.Year(1300)}},
		},
		{ID: "1010", Name: "Cerchi"},
	}
	require.NoError(t, s.SaveFamilies(ctx, in))
	out, err := s.LoadFamilies(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	events := []family.HistoricalEvent{{Year: 1302, Title: "Exile of the Whites", Sources: []family.Source{{Title: "Compagni"}}}}
	require.NoError(t, s.SaveEvents(ctx, events))
	gotEvents, err := s.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, events, gotEvents)
}

func TestUnchangedSaveKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	fs := []family.Family{{ID: "1003", Name: "Donati"}}

	require.NoError(t, s.SaveFamilies(ctx, fs))
	first, ok, err := s.Stat(ctx, store.KeyFamilies)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, first.Hash, 64)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.SaveFamilies(ctx, fs))
	again, _, _ := s.Stat(ctx, store.KeyFamilies)
	assert.Equal(t, first.UpdatedAt, again.UpdatedAt)

	fs[0].SubFaction = family.White
	require.NoError(t, s.SaveFamilies(ctx, fs))
	changed, _, _ := s.Stat(ctx, store.KeyFamilies)
	assert.NotEqual(t, first.Hash, changed.Hash)
	assert.True(t, changed.UpdatedAt.After(first.UpdatedAt))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snap.db")
	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveFamilies(ctx, []family.Family{{ID: "1", Name: "Uberti"}}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	fs, err := s.LoadFamilies(ctx)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "Uberti", fs[0].Name)
}
