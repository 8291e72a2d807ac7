package api

import (
	"log/slog"
	"net/http"
	"time"

	"floatchat-backend/internal/agents"
	"floatchat-backend/internal/viz"
	"floatchat-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

const (
	ModeMap   = "map"
	ModeChart = "chart"
	ModeBoth  = "both"
)

type VisualizationService struct {
	vizAgent *agents.VisualizationAgent
}

func NewVisualizationService(vizAgent *agents.VisualizationAgent) *VisualizationService {
	return &VisualizationService{vizAgent: vizAgent}
}

func (s *VisualizationService) AddRoutes(r chi.Router) {
	r.Post("/visualize", s.Visualize)
}

// Visualize builds figures for a structured request. Failures return a 500
// with the same response shape so the frontend can render the error inline.
func (s *VisualizationService) Visualize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := ParseRequest[api.VisualizationRequest](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), start)
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeBoth
	}
	if mode != ModeMap && mode != ModeChart && mode != ModeBoth {
		s.writeError(w, http.StatusBadRequest, "invalid mode '"+req.Mode+"', expected map, chart, or both", start)
		return
	}

	switch req.Parameter {
	case "", "temperature", "salinity", "depth":
	default:
		s.writeError(w, http.StatusUnprocessableEntity, "invalid parameter '"+req.Parameter+"', expected temperature, salinity, or depth", start)
		return
	}

	slog.Info("processing visualization request",
		"parameter", req.Parameter,
		"region", req.Region,
		"date_range", req.DateRange,
		"mode", mode,
	)

	mapFigure, chartFigure, message, err := s.vizAgent.Visualize(r.Context(), req.Parameter, req.Region)
	if err != nil {
		slog.Error("visualization request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error(), start)
		return
	}

	response := api.VisualizationResponse{
		Success:        true,
		Message:        message,
		ProcessingTime: time.Since(start).Seconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	if mode != ModeChart {
		if response.MapFigure, err = encodeFigure(mapFigure); err != nil {
			slog.Error("error serializing map figure", "error", err)
			s.writeError(w, http.StatusInternalServerError, err.Error(), start)
			return
		}
	}
	if mode != ModeMap {
		if response.ChartFigure, err = encodeFigure(chartFigure); err != nil {
			slog.Error("error serializing chart figure", "error", err)
			s.writeError(w, http.StatusInternalServerError, err.Error(), start)
			return
		}
	}

	WriteJsonResponse(w, http.StatusOK, response)
}

func encodeFigure(figure *viz.Figure) (string, error) {
	if figure == nil {
		return "", nil
	}
	return figure.ToJSON()
}

func (s *VisualizationService) writeError(w http.ResponseWriter, code int, details string, start time.Time) {
	WriteJsonResponse(w, code, api.VisualizationResponse{
		Success:        false,
		ErrorDetails:   details,
		ProcessingTime: time.Since(start).Seconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}
