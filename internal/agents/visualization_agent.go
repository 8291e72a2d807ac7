package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/viz"
)

// VisualizationAgent turns profile rows into figure documents: a geographic
// scatter map and a monthly-average time series for the chosen parameter.
type VisualizationAgent struct {
	dataAgent *DataAgent
}

func NewVisualizationAgent(dataAgent *DataAgent) *VisualizationAgent {
	return &VisualizationAgent{dataAgent: dataAgent}
}

func (a *VisualizationAgent) Name() string {
	return VisualizationAgentName
}

func parameterValue(parameter string) func(*database.Profile) float64 {
	switch parameter {
	case "salinity":
		return func(p *database.Profile) float64 { return p.Salinity }
	case "depth":
		return func(p *database.Profile) float64 { return p.Depth }
	default:
		return func(p *database.Profile) float64 { return p.Temperature }
	}
}

func toPoints(profiles []database.Profile, parameter string) []viz.Point {
	value := parameterValue(parameter)
	points := make([]viz.Point, len(profiles))
	for i := range profiles {
		points[i] = viz.Point{
			ProfId:     profiles[i].ProfId.String(),
			Latitude:   profiles[i].Latitude,
			Longitude:  profiles[i].Longitude,
			MeasuredAt: profiles[i].MeasuredAt,
			Value:      value(&profiles[i]),
		}
	}
	return points
}

// parameterFromTask picks the plotted parameter out of the query text,
// defaulting to temperature.
func parameterFromTask(task string) string {
	taskLower := strings.ToLower(task)
	for _, parameter := range []string{"salinity", "depth"} {
		if strings.Contains(taskLower, parameter) {
			return parameter
		}
	}
	return "temperature"
}

// Execute builds figures from the rows the data agent left in the state and
// records them there for the caller.
func (a *VisualizationAgent) Execute(ctx context.Context, task string, state *State) (string, error) {
	slog.Info("visualization agent received task", "task", task)

	if state.Parameter == "" {
		state.Parameter = parameterFromTask(task)
	}

	if len(state.Profiles) == 0 {
		return "No data found.", nil
	}

	points := toPoints(state.Profiles, state.Parameter)

	mapFigure := viz.ScatterMap(points, state.Parameter)
	chartFigure := viz.MonthlyAverageChart(points, state.Parameter)
	state.MapFigure = &mapFigure
	state.ChartFigure = &chartFigure

	return "Visualization successful.", nil
}

// Visualize serves the standalone visualization endpoint: it fetches rows for
// the parameter and region itself, then builds both figures.
func (a *VisualizationAgent) Visualize(ctx context.Context, parameter, region string) (*viz.Figure, *viz.Figure, string, error) {
	if parameter == "" {
		parameter = "temperature"
	}
	if region == "" {
		region = "global"
	}

	state := &State{Parameter: parameter, Region: region, ReturnProfiles: true}
	task := fmt.Sprintf("Get all %s data for %s", parameter, region)
	if _, err := a.dataAgent.Execute(ctx, task, state); err != nil {
		return nil, nil, "", err
	}

	if len(state.Profiles) == 0 {
		return nil, nil, "No data found.", nil
	}

	points := toPoints(state.Profiles, parameter)
	mapFigure := viz.ScatterMap(points, parameter)
	chartFigure := viz.MonthlyAverageChart(points, parameter)

	return &mapFigure, &chartFigure, "Visualization successful.", nil
}
