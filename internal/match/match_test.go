package match_test

import (
	"context"
	"encoding/json"
	"testing"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/match"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEmbedder struct {
	vector []float64
}

func (e *fixedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return e.vector, nil
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, match.CosineSimilarity([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, match.CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, match.CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	assert.Equal(t, 0.0, match.CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, match.CosineSimilarity(nil, nil))
}

func TestLocalMatcher(t *testing.T) {
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)

	vectors := map[uuid.UUID][]float64{
		uuid.New(): {1, 0, 0},
		uuid.New(): {0.9, 0.1, 0},
		uuid.New(): {0, 1, 0},
	}

	for id, vector := range vectors {
		serialized, err := json.Marshal(vector)
		require.NoError(t, err)

		require.NoError(t, db.Create(&database.Profile{ProfId: id, FloatId: "f-" + id.String()[:8]}).Error)
		require.NoError(t, db.Create(&database.ProfileEmbedding{ProfId: id, Vector: serialized}).Error)
	}

	matcher := match.NewLocalMatcher(db, &fixedEmbedder{vector: []float64{1, 0, 0}})

	matches, err := matcher.MatchProfiles(context.Background(), "warm surface water", match.DefaultThreshold, match.DefaultCount)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Similarity, match.DefaultThreshold)
	}
}

func TestLocalMatcherCountLimit(t *testing.T) {
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		id := uuid.New()
		serialized, err := json.Marshal([]float64{1, 0, 0})
		require.NoError(t, err)

		require.NoError(t, db.Create(&database.Profile{ProfId: id, FloatId: "f"}).Error)
		require.NoError(t, db.Create(&database.ProfileEmbedding{ProfId: id, Vector: serialized}).Error)
	}

	matcher := match.NewLocalMatcher(db, &fixedEmbedder{vector: []float64{1, 0, 0}})

	matches, err := matcher.MatchProfiles(context.Background(), "anything", 0.5, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}
