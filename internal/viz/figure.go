// Package viz builds serialized figure documents (data traces + layout) in
// the shape the frontend's plotting library consumes.
package viz

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type Trace struct {
	Type   string    `json:"type"`
	Mode   string    `json:"mode,omitempty"`
	Name   string    `json:"name,omitempty"`
	X      []string  `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Lat    []float64 `json:"lat,omitempty"`
	Lon    []float64 `json:"lon,omitempty"`
	Text   []string  `json:"text,omitempty"`
	Marker *Marker   `json:"marker,omitempty"`
	Line   *Line     `json:"line,omitempty"`
}

type Marker struct {
	Size       int       `json:"size,omitempty"`
	Color      []float64 `json:"color,omitempty"`
	ColorScale string    `json:"colorscale,omitempty"`
	ShowScale  bool      `json:"showscale,omitempty"`
}

type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
}

type Layout struct {
	Title         string   `json:"title,omitempty"`
	Template      string   `json:"template,omitempty"`
	Height        int      `json:"height,omitempty"`
	PaperBgColor  string   `json:"paper_bgcolor,omitempty"`
	PlotBgColor   string   `json:"plot_bgcolor,omitempty"`
	FontColor     string   `json:"font_color,omitempty"`
	XAxisTitle    string   `json:"xaxis_title,omitempty"`
	YAxisTitle    string   `json:"yaxis_title,omitempty"`
	MapboxCenter  *LatLon  `json:"mapbox_center,omitempty"`
	MapboxZoom    float64  `json:"mapbox_zoom,omitempty"`
	MapboxStyle   string   `json:"mapbox_style,omitempty"`
	Margin        *Margin  `json:"margin,omitempty"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

func (f Figure) ToJSON() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("error serializing figure: %w", err)
	}
	return string(data), nil
}

// Point is a single positioned measurement of the plotted parameter.
type Point struct {
	ProfId     string
	Latitude   float64
	Longitude  float64
	MeasuredAt time.Time
	Value      float64
}

// ScatterMap plots profile positions colored by the parameter value,
// centered on the Indian subcontinent to match the product's default view.
func ScatterMap(points []Point, parameter string) Figure {
	lats := make([]float64, 0, len(points))
	lons := make([]float64, 0, len(points))
	values := make([]float64, 0, len(points))
	labels := make([]string, 0, len(points))
	for _, p := range points {
		lats = append(lats, p.Latitude)
		lons = append(lons, p.Longitude)
		values = append(values, p.Value)
		labels = append(labels, fmt.Sprintf("%s: %.2f (%s)", parameter, p.Value, p.ProfId))
	}

	return Figure{
		Data: []Trace{{
			Type: "scattermapbox",
			Mode: "markers",
			Name: titleWord(parameter),
			Lat:  lats,
			Lon:  lons,
			Text: labels,
			Marker: &Marker{
				Size:       8,
				Color:      values,
				ColorScale: "Viridis",
				ShowScale:  true,
			},
		}},
		Layout: Layout{
			Title:        titleWord(parameter) + " Map",
			MapboxCenter: &LatLon{Lat: 20.5937, Lon: 78.9629},
			MapboxZoom:   3,
			MapboxStyle:  "open-street-map",
			PaperBgColor: "rgba(0,0,0,0)",
			PlotBgColor:  "rgba(0,0,0,0)",
			FontColor:    "#d1d5db",
			Margin:       &Margin{R: 0, T: 40, L: 0, B: 0},
		},
	}
}

// MonthlyAverageChart aggregates the parameter by calendar month and plots
// the averages as a single line.
func MonthlyAverageChart(points []Point, parameter string) Figure {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range points {
		month := p.MeasuredAt.Format("2006-01")
		sums[month] += p.Value
		counts[month]++
	}

	months := make([]string, 0, len(sums))
	for month := range sums {
		months = append(months, month)
	}
	sort.Strings(months)

	averages := make([]float64, len(months))
	for i, month := range months {
		averages[i] = sums[month] / float64(counts[month])
	}

	return Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines+markers",
			Name: titleWord(parameter),
			X:    months,
			Y:    averages,
			Line: &Line{Color: "cyan", Width: 2},
		}},
		Layout: Layout{
			Title:      titleWord(parameter) + " Monthly Average",
			XAxisTitle: "Month",
			YAxisTitle: titleWord(parameter),
			Template:   "plotly_dark",
			Height:     500,
		},
	}
}

func titleWord(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
