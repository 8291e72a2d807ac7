package match

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteMatcher delegates vector search to a hosted service exposing a
// match_profiles RPC. The query is embedded locally and the service ranks
// it against its own embedding store.
type RemoteMatcher struct {
	client   *resty.Client
	apiKey   string
	embedder Embedder
}

func NewRemoteMatcher(baseURL, apiKey string, embedder Embedder) *RemoteMatcher {
	return &RemoteMatcher{
		client:   resty.New().SetBaseURL(baseURL),
		apiKey:   apiKey,
		embedder: embedder,
	}
}

type matchProfilesRequest struct {
	QueryEmbedding []float64 `json:"query_embedding"`
	MatchThreshold float64   `json:"match_threshold"`
	MatchCount     int       `json:"match_count"`
}

func (m *RemoteMatcher) MatchProfiles(ctx context.Context, query string, threshold float64, count int) ([]Match, error) {
	queryVector, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error embedding query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := m.client.R().
		SetContext(ctx).
		SetHeader("apikey", m.apiKey).
		SetHeader("Authorization", "Bearer "+m.apiKey).
		SetBody(matchProfilesRequest{
			QueryEmbedding: queryVector,
			MatchThreshold: threshold,
			MatchCount:     count,
		}).
		Post("/rest/v1/rpc/match_profiles")

	if err != nil {
		slog.Error("unable to reach match service", "error", err)
		return nil, fmt.Errorf("match service request failed: %w", err)
	}

	if !res.IsSuccess() {
		slog.Error("match service returned error", "status_code", res.StatusCode(), "body", res.String())
		return nil, fmt.Errorf("match service returned status %d", res.StatusCode())
	}

	var matches []Match
	if err := json.Unmarshal(res.Body(), &matches); err != nil {
		return nil, fmt.Errorf("error parsing match service response: %w", err)
	}

	return matches, nil
}
