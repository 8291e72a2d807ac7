package api

import (
	"time"

	"github.com/google/uuid"
)

type ServiceInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Uptime      float64           `json:"uptime_seconds"`
	Endpoints   map[string]string `json:"endpoints"`
}

type HealthResponse struct {
	Status        string            `json:"status"`
	Uptime        float64           `json:"uptime_seconds"`
	TotalRequests uint64            `json:"total_requests"`
	TotalErrors   uint64            `json:"total_errors"`
	AgentsStatus  map[string]string `json:"agents_status"`
	Timestamp     string            `json:"timestamp"`
}

type StatsResponse struct {
	TotalRequests     uint64            `json:"total_requests"`
	TotalErrors       uint64            `json:"total_errors"`
	ErrorRate         float64           `json:"error_rate"`
	RoutingCounts     map[string]uint64 `json:"routing_distribution"`
	ErrorCounts       map[string]uint64 `json:"error_distribution"`
	ActiveSessions    int               `json:"active_sessions"`
	AvgProcessingTime float64           `json:"average_processing_time"`
	Uptime            float64           `json:"uptime_seconds"`
	Timestamp         string            `json:"timestamp"`
}

type VisualizationRequest struct {
	Parameter string `json:"parameter"`
	DateRange string `json:"date_range"`
	Region    string `json:"region"`
	Mode      string `json:"mode,omitempty"`
}

type VisualizationResponse struct {
	Success        bool    `json:"success"`
	MapFigure      string  `json:"map_figure,omitempty"`
	ChartFigure    string  `json:"chart_figure,omitempty"`
	Message        string  `json:"message,omitempty"`
	ErrorDetails   string  `json:"error_details,omitempty"`
	ProcessingTime float64 `json:"processing_time"`
	Timestamp      string  `json:"timestamp"`
}

type Profile struct {
	ProfId      uuid.UUID `json:"prof_id"`
	FloatId     string    `json:"float_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	MeasuredAt  time.Time `json:"measured_at"`
	Depth       float64   `json:"depth"`
	Temperature float64   `json:"temperature"`
	Salinity    float64   `json:"salinity"`
	Region      string    `json:"region,omitempty"`
}

type ListProfilesParams struct {
	Region string `schema:"region"`
	Limit  int    `schema:"limit"`
	Offset int    `schema:"offset"`
}

type ListProfilesResponse struct {
	Profiles []Profile `json:"profiles"`
	Total    int64     `json:"total"`
}

type SearchProfilesParams struct {
	Query string `schema:"query"`
	Limit int    `schema:"limit"`
}

type IngestRequest struct {
	SourceBucket string `json:"source_bucket"`
	SourcePrefix string `json:"source_prefix"`
}

type IngestSubmitResponse struct {
	Message   string    `json:"message"`
	JobId     uuid.UUID `json:"job_id"`
	TaskCount int       `json:"task_count"`
}

type IngestJob struct {
	Id             uuid.UUID `json:"id"`
	SourceBucket   string    `json:"source_bucket"`
	SourcePrefix   string    `json:"source_prefix"`
	Status         string    `json:"status"`
	CreationTime   time.Time `json:"creation_time"`
	SucceededFiles int       `json:"succeeded_file_count"`
	FailedFiles    int       `json:"failed_file_count"`
	TotalFiles     int       `json:"total_file_count"`
}
