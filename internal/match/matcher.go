package match

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"floatchat-backend/internal/database"

	"gorm.io/gorm"
)

const (
	DefaultThreshold = 0.7
	DefaultCount     = 10
)

// Match is a single semantic search hit.
type Match struct {
	ProfId     string  `json:"prof_id"`
	Similarity float64 `json:"similarity"`
}

type Matcher interface {
	MatchProfiles(ctx context.Context, query string, threshold float64, count int) ([]Match, error)
}

// LocalMatcher scans stored embeddings and ranks them by cosine similarity.
// It is the fallback when no hosted vector search service is configured.
type LocalMatcher struct {
	db       *gorm.DB
	embedder Embedder
}

func NewLocalMatcher(db *gorm.DB, embedder Embedder) *LocalMatcher {
	return &LocalMatcher{db: db, embedder: embedder}
}

func (m *LocalMatcher) MatchProfiles(ctx context.Context, query string, threshold float64, count int) ([]Match, error) {
	queryVector, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error embedding query: %w", err)
	}

	var embeddings []database.ProfileEmbedding
	if err := m.db.WithContext(ctx).Find(&embeddings).Error; err != nil {
		return nil, fmt.Errorf("error loading profile embeddings: %w", err)
	}

	matches := make([]Match, 0, len(embeddings))
	for _, embedding := range embeddings {
		var vector []float64
		if err := json.Unmarshal(embedding.Vector, &vector); err != nil {
			return nil, fmt.Errorf("error parsing embedding for profile %v: %w", embedding.ProfId, err)
		}

		similarity := CosineSimilarity(queryVector, vector)
		if similarity >= threshold {
			matches = append(matches, Match{ProfId: embedding.ProfId.String(), Similarity: similarity})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > count {
		matches = matches[:count]
	}

	return matches, nil
}

func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
