package api

import "github.com/google/uuid"

type ChatRequest struct {
	Query        string `json:"query"`
	SessionID    string `json:"session_id"`
	IncludeDebug bool   `json:"include_debug,omitempty"`
}

type ChatResponse struct {
	Success        bool           `json:"success"`
	Response       string         `json:"response"`
	SourceAgent    string         `json:"source_agent"`
	SessionID      string         `json:"session_id"`
	ProcessingTime float64        `json:"processing_time"`
	Timestamp      string         `json:"timestamp"`
	MapFigure      string         `json:"map_figure,omitempty"`
	ChartFigure    string         `json:"chart_figure,omitempty"`
	DebugInfo      map[string]any `json:"debug_info,omitempty"`
	ErrorDetails   string         `json:"error_details,omitempty"`
}

type StartSessionRequest struct {
	Title string `json:"title"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ChatSessionMetadata struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type GetSessionsResponse struct {
	Sessions []ChatSessionMetadata `json:"sessions"`
}

type RenameSessionRequest struct {
	Title string `json:"title"`
}

type ChatHistoryItem struct {
	MessageType string `json:"message_type"` // "user" or "ai"
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
	Metadata    any    `json:"metadata,omitempty"`
}
