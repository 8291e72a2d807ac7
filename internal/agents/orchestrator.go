package agents

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"floatchat-backend/internal/viz"
)

const processingTimeWindow = 1000

// Polisher optionally rephrases an agent's answer through a language model.
// A nil Polisher leaves answers untouched.
type Polisher interface {
	Polish(ctx context.Context, query, answer string) (string, error)
}

type StepDetail struct {
	Agent         string `json:"agent"`
	ResultSummary string `json:"result_summary"`
	Step          int    `json:"step"`
}

// RouteResult is the outcome of routing one query through a workflow.
type RouteResult struct {
	Response    string
	SourceAgent string
	SessionID   string

	Intent     string
	Confidence float64
	Workflow   []string

	ProcessingTime   float64
	ExecutionDetails []StepDetail

	MapFigure   *viz.Figure
	ChartFigure *viz.Figure

	Error string
}

// SystemStats is the aggregate view served by the stats endpoint.
type SystemStats struct {
	TotalRequests         int            `json:"total_requests"`
	TotalErrors           int            `json:"total_errors"`
	ErrorRate             float64        `json:"error_rate"`
	RoutingDistribution   map[string]int `json:"routing_distribution"`
	ErrorDistribution     map[string]int `json:"error_distribution"`
	ActiveSessions        int            `json:"active_sessions"`
	AverageProcessingTime float64        `json:"average_processing_time"`
}

// Orchestrator classifies queries, picks a workflow of specialist agents, and
// executes it while tracking per-agent stats.
type Orchestrator struct {
	agents   map[string]Agent
	sessions *SessionManager
	polisher Polisher

	mu              sync.Mutex
	routingStats    map[string]int
	errorCounts     map[string]int
	processingTimes []float64
}

func NewOrchestrator(dataAgent *DataAgent, geographicAgent *GeographicAgent, visualizationAgent *VisualizationAgent, polisher Polisher) *Orchestrator {
	return &Orchestrator{
		agents: map[string]Agent{
			DataAgentName:          dataAgent,
			GeographicAgentName:    geographicAgent,
			VisualizationAgentName: visualizationAgent,
		},
		sessions:     NewSessionManager(),
		polisher:     polisher,
		routingStats: make(map[string]int),
		errorCounts:  make(map[string]int),
	}
}

func determineWorkflow(intent string, confidence float64, info ContextInfo) []string {
	switch {
	case intent == IntentGeographic:
		return []string{GeographicAgentName}
	case intent == IntentData && confidence > 0.3:
		return []string{DataAgentName}
	case intent == IntentVisualization:
		return []string{DataAgentName, VisualizationAgentName}
	}

	if info.IsFollowUp && info.LastAgent != "" {
		return []string{info.LastAgent}
	}

	return []string{DataAgentName}
}

// RouteRequest processes one chat query. Agent failures are reported in the
// result rather than as an error so callers always get a response to show.
func (o *Orchestrator) RouteRequest(ctx context.Context, query, sessionID string) *RouteResult {
	start := time.Now()

	info := o.sessions.ObserveQuery(sessionID, query)
	intent, confidence := ClassifyIntent(query)

	slog.Info("routing chat query",
		"session_id", sessionID,
		"intent", intent,
		"confidence", confidence,
		"is_follow_up", info.IsFollowUp,
	)

	workflow := determineWorkflow(intent, confidence, info)

	result := &RouteResult{
		SessionID:  sessionID,
		Intent:     intent,
		Confidence: confidence,
		Workflow:   workflow,
	}

	state := &State{SessionID: sessionID}
	var response string

	for i, agentName := range workflow {
		agent, ok := o.agents[agentName]
		if !ok {
			return o.errorResult(result, query, fmt.Sprintf("agent '%s' not found in workflow step %d", agentName, i+1), start)
		}

		if len(workflow) > 1 {
			state.WorkflowStep = i + 1
			state.TotalSteps = len(workflow)
			state.ReturnProfiles = agentName == DataAgentName && contains(workflow, VisualizationAgentName)
		}

		slog.Info("executing workflow step", "step", i+1, "total", len(workflow), "agent", agentName)

		stepResponse, err := agent.Execute(ctx, query, state)
		if err != nil {
			o.recordError(agentName)
			slog.Error("agent execution failed", "agent", agentName, "step", i+1, "error", err)
			return o.errorResult(result, query, fmt.Sprintf("error in %s (step %d): %v", agentName, i+1, err), start)
		}

		response = stepResponse
		result.SourceAgent = agentName

		summary := "Result generated"
		if agentName == DataAgentName {
			summary = "Data collected"
		}
		result.ExecutionDetails = append(result.ExecutionDetails, StepDetail{
			Agent:         agentName,
			ResultSummary: summary,
			Step:          i + 1,
		})

		o.recordRouting(agentName)
	}

	if o.polisher != nil && result.SourceAgent != VisualizationAgentName {
		polished, err := o.polisher.Polish(ctx, query, response)
		if err != nil {
			slog.Warn("answer polishing failed, returning raw answer", "error", err)
		} else {
			response = polished
		}
	}

	result.Response = response
	result.MapFigure = state.MapFigure
	result.ChartFigure = state.ChartFigure
	result.ProcessingTime = time.Since(start).Seconds()

	o.sessions.RecordInteraction(sessionID, query, response, result.SourceAgent)
	o.recordProcessingTime(result.ProcessingTime)

	return result
}

// errorResult finalizes a failed routing. The failed exchange still counts
// toward session context and processing time stats.
func (o *Orchestrator) errorResult(result *RouteResult, query, message string, start time.Time) *RouteResult {
	result.Error = message
	result.Response = "I encountered an error processing your request: " + message
	result.SourceAgent = "orchestrator"
	result.ProcessingTime = time.Since(start).Seconds()

	o.sessions.RecordInteraction(result.SessionID, query, result.Response, result.SourceAgent)
	o.recordProcessingTime(result.ProcessingTime)

	return result
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func (o *Orchestrator) recordRouting(agent string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routingStats[agent]++
}

func (o *Orchestrator) recordError(agent string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errorCounts[agent]++
}

func (o *Orchestrator) recordProcessingTime(seconds float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processingTimes = append(o.processingTimes, seconds)
	if len(o.processingTimes) > processingTimeWindow {
		o.processingTimes = o.processingTimes[len(o.processingTimes)-processingTimeWindow:]
	}
}

func (o *Orchestrator) Stats() SystemStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	stats := SystemStats{
		RoutingDistribution: make(map[string]int, len(o.routingStats)),
		ErrorDistribution:   make(map[string]int, len(o.errorCounts)),
		ActiveSessions:      o.sessions.ActiveSessions(),
	}
	for agent, count := range o.routingStats {
		stats.RoutingDistribution[agent] = count
		stats.TotalRequests += count
	}
	for agent, count := range o.errorCounts {
		stats.ErrorDistribution[agent] = count
		stats.TotalErrors += count
	}
	if stats.TotalRequests > 0 {
		stats.ErrorRate = float64(stats.TotalErrors) / float64(stats.TotalRequests)
	}
	if len(o.processingTimes) > 0 {
		var sum float64
		for _, t := range o.processingTimes {
			sum += t
		}
		stats.AverageProcessingTime = sum / float64(len(o.processingTimes))
	}
	return stats
}

// AgentStatus reports a health string per registered agent.
func (o *Orchestrator) AgentStatus() map[string]string {
	status := make(map[string]string, len(o.agents))
	for name, agent := range o.agents {
		if agent == nil {
			status[name] = "unavailable"
		} else {
			status[name] = "healthy"
		}
	}
	return status
}
