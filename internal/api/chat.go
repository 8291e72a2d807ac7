package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"floatchat-backend/internal/agents"
	"floatchat-backend/internal/chat"
	"floatchat-backend/internal/database"
	"floatchat-backend/pkg/api"
)

const (
	defaultSessionID = "default_session"
	maxQueryLength   = 5000
	maxTitleLength   = 60
)

type ChatService struct {
	db           *gorm.DB
	orchestrator *agents.Orchestrator
	limiter      *SessionRateLimiter
	debug        bool
}

func NewChatService(db *gorm.DB, orchestrator *agents.Orchestrator, limiter *SessionRateLimiter, debug bool) *ChatService {
	return &ChatService{
		db:           db,
		orchestrator: orchestrator,
		limiter:      limiter,
		debug:        debug,
	}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Post("/chat", RestHandler(s.Chat))
	r.Route("/chat/sessions", func(r chi.Router) {
		r.Get("/", RestHandler(s.GetSessions))
		r.Post("/", RestHandler(s.StartSession))
		r.Get("/{session_id}", RestHandler(s.GetSession))
		r.Post("/{session_id}/rename", RestHandler(s.RenameSession))
		r.Delete("/{session_id}", RestHandler(s.DeleteSession))
		r.Get("/{session_id}/history", RestHandler(s.GetHistory))
	})
}

// Chat routes one query through the orchestrator. Agent failures still
// produce a 200 with success set to false so the client always has a
// message to display.
func (s *ChatService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing required field: query")
	}
	if len(query) > maxQueryLength {
		return nil, CodedErrorf(http.StatusBadRequest, "query exceeds maximum length of %d characters", maxQueryLength)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	if s.limiter != nil && !s.limiter.Allow(sessionID) {
		return nil, CodedErrorf(http.StatusTooManyRequests, "too many requests for session '%s'", sessionID)
	}

	result := s.orchestrator.RouteRequest(r.Context(), query, sessionID)

	response := api.ChatResponse{
		Success:        result.Error == "",
		Response:       result.Response,
		SourceAgent:    result.SourceAgent,
		SessionID:      result.SessionID,
		ProcessingTime: result.ProcessingTime,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	if figure, err := encodeFigure(result.MapFigure); err != nil {
		slog.Error("error serializing map figure", "error", err)
	} else {
		response.MapFigure = figure
	}
	if figure, err := encodeFigure(result.ChartFigure); err != nil {
		slog.Error("error serializing chart figure", "error", err)
	} else {
		response.ChartFigure = figure
	}

	if result.Error != "" && s.debug {
		response.ErrorDetails = result.Error
	}

	if req.IncludeDebug {
		response.DebugInfo = map[string]any{
			"intent":            result.Intent,
			"confidence":        result.Confidence,
			"workflow":          result.Workflow,
			"execution_details": result.ExecutionDetails,
		}
	}

	s.persistExchange(sessionID, query, result)

	return response, nil
}

// persistExchange writes the exchange to session history when the session id
// refers to a stored session. Ad hoc string ids keep in-memory context only.
func (s *ChatService) persistExchange(sessionID, query string, result *agents.RouteResult) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}

	if _, err := chat.GetSession(s.db, id); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("error loading chat session", "session_id", id, "error", err)
			return
		}
		session := &database.ChatSession{ID: id, Title: sessionTitle(query), CreationTime: time.Now().UTC()}
		if err := chat.CreateSession(s.db, session); err != nil {
			slog.Error("error creating chat session", "session_id", id, "error", err)
			return
		}
	}

	if err := chat.SaveExchange(s.db, id, query, result.Response, result.SourceAgent, result.Intent); err != nil {
		slog.Error("error saving chat exchange", "session_id", id, "error", err)
	}
}

func sessionTitle(query string) string {
	if len(query) <= maxTitleLength {
		return query
	}
	return query[:maxTitleLength]
}

func (s *ChatService) GetSessions(r *http.Request) (any, error) {
	sessions, err := chat.GetSessions(s.db)
	if err != nil {
		slog.Error("error listing chat sessions", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat sessions")
	}

	metadata := make([]api.ChatSessionMetadata, len(sessions))
	for i, session := range sessions {
		metadata[i] = api.ChatSessionMetadata{ID: session.ID, Title: session.Title}
	}

	return api.GetSessionsResponse{Sessions: metadata}, nil
}

func (s *ChatService) StartSession(r *http.Request) (any, error) {
	req, err := ParseRequest[api.StartSessionRequest](r)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	session := &database.ChatSession{ID: sessionID, Title: req.Title, CreationTime: time.Now().UTC()}
	if err := chat.CreateSession(s.db, session); err != nil {
		slog.Error("error creating chat session", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error creating chat session")
	}

	return api.StartSessionResponse{SessionID: sessionID.String()}, nil
}

func (s *ChatService) GetSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	session, err := chat.GetSession(s.db, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "chat session not found")
		}
		slog.Error("error getting chat session", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat session")
	}

	return session, nil
}

func (s *ChatService) RenameSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.RenameSessionRequest](r)
	if err != nil {
		return nil, err
	}

	if err := chat.UpdateSessionTitle(s.db, sessionID, req.Title); err != nil {
		slog.Error("error renaming chat session", "session_id", sessionID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error renaming chat session")
	}

	return nil, nil
}

func (s *ChatService) DeleteSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if err := chat.DeleteSession(s.db, sessionID); err != nil {
		slog.Error("error deleting chat session", "session_id", sessionID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error deleting chat session")
	}

	return nil, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	history, err := chat.GetChatHistory(s.db, sessionID)
	if err != nil {
		slog.Error("error getting chat history", "session_id", sessionID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat history")
	}

	items := make([]api.ChatHistoryItem, len(history))
	for i, msg := range history {
		items[i] = api.ChatHistoryItem{
			MessageType: msg.MessageType,
			Content:     msg.Content,
			Timestamp:   msg.Timestamp.Format("2006-01-02 15:04:05"),
			Metadata:    msg.Metadata,
		}
	}

	return items, nil
}
