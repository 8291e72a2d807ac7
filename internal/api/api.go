package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"floatchat-backend/internal/agents"
	"floatchat-backend/internal/database"
	"floatchat-backend/internal/ingest"
	"floatchat-backend/internal/messaging"
	"floatchat-backend/internal/profiles"
	"floatchat-backend/internal/storage"
	"floatchat-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const (
	serviceName    = "FloatChat API"
	serviceVersion = "2.0.0"

	defaultProfileLimit = 100
	maxProfileLimit     = 1000
)

type BackendService struct {
	db           *gorm.DB
	publisher    messaging.Publisher
	storage      storage.Provider
	orchestrator *agents.Orchestrator
	startTime    time.Time
}

func NewBackendService(db *gorm.DB, publisher messaging.Publisher, provider storage.Provider, orchestrator *agents.Orchestrator) *BackendService {
	return &BackendService{
		db:           db,
		publisher:    publisher,
		storage:      provider,
		orchestrator: orchestrator,
		startTime:    time.Now(),
	}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/", RestHandler(s.GetServiceInfo))
	r.Get("/health", RestHandler(s.GetHealth))
	r.Get("/stats", RestHandler(s.GetStats))
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListProfiles))
		r.Get("/search", RestHandler(s.SearchProfiles))
	})
	r.Route("/ingest", func(r chi.Router) {
		r.Post("/", RestHandler(s.SubmitIngestJob))
		r.Get("/{job_id}", RestHandler(s.GetIngestJob))
	})
}

func (s *BackendService) uptime() float64 {
	return time.Since(s.startTime).Seconds()
}

func (s *BackendService) GetServiceInfo(r *http.Request) (any, error) {
	return api.ServiceInfo{
		Name:        serviceName,
		Version:     serviceVersion,
		Description: "Intelligent oceanographic data analysis API",
		Status:      "ready",
		Uptime:      s.uptime(),
		Endpoints: map[string]string{
			"chat":      "/chat",
			"visualize": "/visualize",
			"health":    "/health",
			"stats":     "/stats",
			"profiles":  "/profiles",
			"ingest":    "/ingest",
		},
	}, nil
}

func (s *BackendService) GetHealth(r *http.Request) (any, error) {
	stats := s.orchestrator.Stats()

	return api.HealthResponse{
		Status:        "healthy",
		Uptime:        s.uptime(),
		TotalRequests: uint64(stats.TotalRequests),
		TotalErrors:   uint64(stats.TotalErrors),
		AgentsStatus:  s.orchestrator.AgentStatus(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *BackendService) GetStats(r *http.Request) (any, error) {
	stats := s.orchestrator.Stats()

	routing := make(map[string]uint64, len(stats.RoutingDistribution))
	for agent, count := range stats.RoutingDistribution {
		routing[agent] = uint64(count)
	}
	errCounts := make(map[string]uint64, len(stats.ErrorDistribution))
	for agent, count := range stats.ErrorDistribution {
		errCounts[agent] = uint64(count)
	}

	return api.StatsResponse{
		TotalRequests:     uint64(stats.TotalRequests),
		TotalErrors:       uint64(stats.TotalErrors),
		ErrorRate:         stats.ErrorRate,
		RoutingCounts:     routing,
		ErrorCounts:       errCounts,
		ActiveSessions:    stats.ActiveSessions,
		AvgProcessingTime: stats.AverageProcessingTime,
		Uptime:            s.uptime(),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultProfileLimit
	}
	if limit > maxProfileLimit {
		return maxProfileLimit
	}
	return limit
}

func (s *BackendService) ListProfiles(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.ListProfilesParams](r)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()

	query := s.db.WithContext(ctx).Model(&database.Profile{})
	if params.Region != "" {
		query = query.Where("region = ?", params.Region)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		slog.Error("error counting profiles", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving profiles")
	}

	var rows []database.Profile
	err = query.
		Order("measured_at DESC").
		Limit(clampLimit(params.Limit)).
		Offset(max(params.Offset, 0)).
		Find(&rows).Error
	if err != nil {
		slog.Error("error listing profiles", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving profiles")
	}

	return api.ListProfilesResponse{Profiles: toApiProfiles(rows), Total: total}, nil
}

func (s *BackendService) SearchProfiles(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.SearchProfilesParams](r)
	if err != nil {
		return nil, err
	}

	if params.Query == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing required 'query' parameter")
	}

	filter, err := profiles.ParseQuery(params.Query)
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid query: %v", err)
	}

	condition, args := filter.ToSQL()

	var matched []database.Profile
	err = s.db.WithContext(r.Context()).
		Where(condition, args...).
		Order("measured_at DESC").
		Limit(clampLimit(params.Limit)).
		Find(&matched).Error
	if err != nil {
		slog.Error("error searching profiles", "query", params.Query, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error searching profiles")
	}

	return api.ListProfilesResponse{Profiles: toApiProfiles(matched), Total: int64(len(matched))}, nil
}

func (s *BackendService) SubmitIngestJob(r *http.Request) (any, error) {
	req, err := ParseRequest[api.IngestRequest](r)
	if err != nil {
		return nil, err
	}

	if req.SourceBucket == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "missing required field: source_bucket")
	}

	job, err := ingest.SubmitJob(r.Context(), s.db, s.storage, s.publisher, req.SourceBucket, req.SourcePrefix)
	if err != nil {
		slog.Error("error submitting ingest job", "bucket", req.SourceBucket, "prefix", req.SourcePrefix, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to submit ingest job")
	}

	message := "Ingest job submitted"
	if job.TotalFileCount == 0 {
		message = "No files found to process in specified location"
	}

	return api.IngestSubmitResponse{Message: message, JobId: job.Id, TaskCount: job.TotalFileCount}, nil
}

func (s *BackendService) GetIngestJob(r *http.Request) (any, error) {
	jobId, err := URLParamUUID(r, "job_id")
	if err != nil {
		return nil, err
	}

	var job database.IngestJob
	if err := s.db.WithContext(r.Context()).First(&job, "id = ?", jobId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "ingest job not found")
		}
		slog.Error("error getting ingest job", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving ingest job record")
	}

	return toApiIngestJob(job), nil
}
