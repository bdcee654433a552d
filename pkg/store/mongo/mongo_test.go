package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

func TestFamilyWrites(t *testing.T) {
	fs := []family.Family{{ID: "1003", Name: "Donati"}, {ID: "1039_2", Name: "Bardi"}}
	models := familyWrites(fs)
	require.Len(t, models, 2)

	m, ok := models[1].(*mongo.ReplaceOneModel)
	require.True(t, ok, "want *mongo.ReplaceOneModel, got %T", models[1])
	assert.Equal(t, bson.D{{Key: "_id", Value: "1039_2"}}, m.Filter)
	assert.Equal(t, fs[1], m.Replacement)
	require.NotNil(t, m.Upsert)
	assert.True(t, *m.Upsert)
}

func TestStaleFilter(t *testing.T) {
	f := staleFilter([]family.Family{{ID: "1"}, {ID: "2"}})
	assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{{Key: "$nin", Value: bson.A{"1", "2"}}}}}, f)
}

func TestFamilyDocumentUsesIDAsKey(t *testing.T) {
	raw, err := bson.Marshal(family.Family{ID: "1003", Name: "Donati", Status1Year: family.Year(1216)})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "1003", doc["_id"])
	assert.EqualValues(t, 1216, doc["status1Year"])
	assert.NotContains(t, doc, "coordinates", "empty optional fields are omitted")

	var back family.Family
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, "1003", back.ID)
	assert.Equal(t, 1216, *back.Status1Year)
}

func TestOpenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := Open(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200", "factionmap")
	assert.Error(t, err)
}
