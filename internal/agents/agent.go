// Package agents implements the specialist agents behind the chat endpoint
// and the orchestrator that routes queries between them.
package agents

import (
	"context"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/viz"
)

const (
	DataAgentName          = "data_agent"
	GeographicAgentName    = "geographic_agent"
	VisualizationAgentName = "visualization_agent"
)

// State is the shared scratch space for a single workflow execution. Agents
// read routing hints from it and leave results for downstream steps.
type State struct {
	SessionID string

	Parameter string
	Region    string

	WorkflowStep int
	TotalSteps   int

	// ReturnProfiles tells the data agent to leave its rows in Profiles
	// instead of summarizing them.
	ReturnProfiles bool
	Profiles       []database.Profile

	MapFigure   *viz.Figure
	ChartFigure *viz.Figure
}

type Agent interface {
	Name() string
	Execute(ctx context.Context, task string, state *State) (string, error)
}
