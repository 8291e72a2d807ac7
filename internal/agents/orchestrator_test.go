package agents

import (
	"context"
	"testing"

	"floatchat-backend/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testOrchestrator(t *testing.T, db *gorm.DB) *Orchestrator {
	t.Helper()
	expert := testExpert(t)
	dataAgent := NewDataAgent(db, nil, expert)
	return NewOrchestrator(
		dataAgent,
		NewGeographicAgent(expert),
		NewVisualizationAgent(dataAgent),
		nil,
	)
}

func TestRouteGeographicQuery(t *testing.T) {
	orchestrator := testOrchestrator(t, testDB(t))

	result := orchestrator.RouteRequest(context.Background(), "Tell me about the monsoon in the Arabian Sea", "s1")

	assert.Empty(t, result.Error)
	assert.Equal(t, GeographicAgentName, result.SourceAgent)
	assert.Equal(t, IntentGeographic, result.Intent)
	assert.Equal(t, []string{GeographicAgentName}, result.Workflow)
	assert.Contains(t, result.Response, "Monsoon in Arabian Sea")
}

func TestRouteDataQuery(t *testing.T) {
	db := testDB(t)
	seedProfiles(t, db, "arabian_sea", 3, 28.0)
	orchestrator := testOrchestrator(t, db)

	result := orchestrator.RouteRequest(context.Background(), "Find temperature data for the arabian sea", "s1")

	assert.Empty(t, result.Error)
	assert.Equal(t, DataAgentName, result.SourceAgent)
	assert.Contains(t, result.Response, "Found 3 data points")
}

func TestRouteVisualizationQuery(t *testing.T) {
	db := testDB(t)
	seedProfiles(t, db, "arabian_sea", 6, 28.0)
	orchestrator := testOrchestrator(t, db)

	result := orchestrator.RouteRequest(context.Background(), "Show me a map of temperature", "s1")

	assert.Empty(t, result.Error)
	assert.Equal(t, VisualizationAgentName, result.SourceAgent)
	assert.Equal(t, []string{DataAgentName, VisualizationAgentName}, result.Workflow)
	assert.Equal(t, "Visualization successful.", result.Response)
	require.NotNil(t, result.MapFigure)
	require.NotNil(t, result.ChartFigure)
	assert.Len(t, result.ExecutionDetails, 2)
}

func TestFollowUpContinuesLastAgent(t *testing.T) {
	orchestrator := testOrchestrator(t, testDB(t))

	first := orchestrator.RouteRequest(context.Background(), "Tell me about the monsoon in the Arabian Sea", "s1")
	require.Equal(t, GeographicAgentName, first.SourceAgent)

	// Ambiguous follow-up stays with the geographic agent.
	second := orchestrator.RouteRequest(context.Background(), "also the bay of bengal", "s1")
	assert.Equal(t, GeographicAgentName, second.SourceAgent)
}

func TestOrchestratorStats(t *testing.T) {
	db := testDB(t)
	seedProfiles(t, db, "arabian_sea", 2, 28.0)
	orchestrator := testOrchestrator(t, db)

	orchestrator.RouteRequest(context.Background(), "Find temperature data", "s1")
	orchestrator.RouteRequest(context.Background(), "Tell me about the monsoon", "s2")

	stats := orchestrator.Stats()
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 0, stats.TotalErrors)
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.Equal(t, 1, stats.RoutingDistribution[DataAgentName])
	assert.Equal(t, 1, stats.RoutingDistribution[GeographicAgentName])
	assert.Greater(t, stats.AverageProcessingTime, 0.0)
}

func TestFailedRoutingRecordsSessionAndTiming(t *testing.T) {
	db := testDB(t)
	orchestrator := testOrchestrator(t, db)

	// Make the data agent's query fail.
	require.NoError(t, db.Migrator().DropTable(&database.Profile{}))

	result := orchestrator.RouteRequest(context.Background(), "Find temperature data", "s1")
	require.NotEmpty(t, result.Error)
	assert.Equal(t, "orchestrator", result.SourceAgent)
	assert.Contains(t, result.Response, "I encountered an error")

	stats := orchestrator.Stats()
	assert.Equal(t, 1, stats.TotalErrors)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Greater(t, stats.AverageProcessingTime, 0.0)

	// The failed exchange still lands in the session context.
	info := orchestrator.sessions.ObserveQuery("s1", "anything")
	assert.Equal(t, 1, info.SessionLength)
	assert.Equal(t, "orchestrator", info.LastAgent)
}

func TestAgentStatus(t *testing.T) {
	orchestrator := testOrchestrator(t, testDB(t))

	status := orchestrator.AgentStatus()
	assert.Equal(t, "healthy", status[DataAgentName])
	assert.Equal(t, "healthy", status[GeographicAgentName])
	assert.Equal(t, "healthy", status[VisualizationAgentName])
}
