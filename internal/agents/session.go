package agents

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	defaultMaxSessions    = 1000
	defaultSessionTimeout = 24 * time.Hour
	maxHistoryEntries     = 50
)

var followUpIndicators = []string{
	"also", "additionally", "furthermore", "and", "then",
	"next", "after that", "following", "continue",
}

type HistoryEntry struct {
	Query     string
	Response  string
	Agent     string
	Timestamp time.Time
}

type session struct {
	history          []HistoryEntry
	createdAt        time.Time
	interactionCount int
}

// ContextInfo summarizes the recent conversation so routing can detect
// follow-up questions and continue with the previously used agent.
type ContextInfo struct {
	RecentAgents  []string
	IsFollowUp    bool
	SessionLength int
	LastAgent     string
}

// SessionManager tracks in-memory conversation context per session with LRU
// eviction and periodic expiry of idle sessions. Durable chat history lives
// in the database, this state only informs routing.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*session
	accessTimes map[string]time.Time

	maxSessions    int
	sessionTimeout time.Duration

	accesses int
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:       make(map[string]*session),
		accessTimes:    make(map[string]time.Time),
		maxSessions:    defaultMaxSessions,
		sessionTimeout: defaultSessionTimeout,
	}
}

// ObserveQuery touches the session, creating it if needed, and returns the
// conversation context for routing.
func (m *SessionManager) ObserveQuery(sessionID, query string) ContextInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accesses++
	if m.accesses%50 == 0 {
		m.cleanupExpired()
	}

	m.accessTimes[sessionID] = time.Now()

	s, ok := m.sessions[sessionID]
	if !ok {
		if len(m.sessions) >= m.maxSessions {
			m.evictOldest()
		}
		s = &session{createdAt: time.Now()}
		m.sessions[sessionID] = s
		slog.Info("created new chat session", "session_id", sessionID)
	}

	var recentAgents []string
	start := len(s.history) - 3
	if start < 0 {
		start = 0
	}
	for _, entry := range s.history[start:] {
		recentAgents = append(recentAgents, entry.Agent)
	}

	queryLower := strings.ToLower(query)
	isFollowUp := false
	for _, indicator := range followUpIndicators {
		if strings.Contains(queryLower, indicator) {
			isFollowUp = true
			break
		}
	}

	info := ContextInfo{
		RecentAgents:  recentAgents,
		IsFollowUp:    isFollowUp,
		SessionLength: len(s.history),
	}
	if len(recentAgents) > 0 {
		info.LastAgent = recentAgents[len(recentAgents)-1]
	}
	return info
}

// RecordInteraction appends the exchange to the session history, keeping only
// the most recent entries.
func (m *SessionManager) RecordInteraction(sessionID, query, response, agent string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	s.history = append(s.history, HistoryEntry{
		Query:     query,
		Response:  response,
		Agent:     agent,
		Timestamp: time.Now(),
	})
	s.interactionCount++

	if len(s.history) > maxHistoryEntries {
		s.history = s.history[len(s.history)-maxHistoryEntries:]
	}
}

func (m *SessionManager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) cleanupExpired() {
	now := time.Now()
	removed := 0
	for sessionID, accessTime := range m.accessTimes {
		if now.Sub(accessTime) > m.sessionTimeout {
			delete(m.sessions, sessionID)
			delete(m.accessTimes, sessionID)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("cleaned up expired chat sessions", "count", removed)
	}
}

func (m *SessionManager) evictOldest() {
	var oldestID string
	var oldestTime time.Time
	for sessionID, accessTime := range m.accessTimes {
		if _, tracked := m.sessions[sessionID]; !tracked {
			continue
		}
		if oldestID == "" || accessTime.Before(oldestTime) {
			oldestID, oldestTime = sessionID, accessTime
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		delete(m.accessTimes, oldestID)
		slog.Info("evicted oldest chat session", "session_id", oldestID)
	}
}
