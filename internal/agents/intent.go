package agents

import (
	"regexp"
	"strings"
)

const (
	IntentGeographic    = "geographic"
	IntentVisualization = "visualization"
	IntentData          = "data"
)

type intentPatterns struct {
	keywords []string
	patterns []*regexp.Regexp
}

// intentOrder fixes the iteration order so ties resolve deterministically.
var intentOrder = []string{IntentGeographic, IntentVisualization, IntentData}

var routingPatterns = map[string]intentPatterns{
	IntentGeographic: {
		keywords: []string{
			"monsoon", "features", "currents", "bathymetry", "cyclonic", "seasons",
			"describe", "what is", "tell me about", "information about", "climate",
			"weather", "geography", "ecology", "economic importance", "major currents",
			"key features", "cyclone season", "storms", "seabed", "topography",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bwhat\s+is\b`),
			regexp.MustCompile(`(?i)\btell\s+me\s+about\b`),
			regexp.MustCompile(`(?i)\bdescribe\b`),
			regexp.MustCompile(`(?i)\binformation\s+about\b`),
		},
	},
	IntentVisualization: {
		keywords: []string{
			"map", "plot", "visualize", "show me a map", "chart", "graph",
			"display", "create a plot", "make a chart", "visual", "geographic plot",
			"depth profile", "scatter plot", "line chart",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bshow\s+me\s+a?\s*(map|plot|chart|graph)\b`),
			regexp.MustCompile(`(?i)\bvisualize\b`),
			regexp.MustCompile(`(?i)\bcreate\s+a\s*(plot|chart|map|graph)\b`),
			regexp.MustCompile(`(?i)\bmake\s+a\s*(plot|chart|map|graph)\b`),
		},
	},
	IntentData: {
		keywords: []string{
			"data", "statistics", "analysis", "temperature", "salinity", "depth",
			"profiles", "measurements", "values", "average", "minimum", "maximum",
			"trend", "correlation", "summary", "query", "search", "find",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bfind\s+.*\bdata\b`),
			regexp.MustCompile(`(?i)\bshow\s+.*\b(statistics|stats|data)\b`),
			regexp.MustCompile(`(?i)\bget\s+.*\b(information|data)\b`),
			regexp.MustCompile(`(?i)\bwhat\s+(is|are)\s+the\s+(temperature|salinity|depth)\b`),
		},
	},
}

// ClassifyIntent scores the query against each intent class. Keyword hits are
// normalized by class size and weighted 0.7, regex hits count 0.3 each. A
// query matching nothing falls back to the data intent.
func ClassifyIntent(query string) (string, float64) {
	queryLower := strings.ToLower(query)

	bestIntent := IntentData
	bestScore := 0.0

	for _, intent := range intentOrder {
		config := routingPatterns[intent]

		keywordHits := 0
		for _, keyword := range config.keywords {
			if strings.Contains(queryLower, keyword) {
				keywordHits++
			}
		}
		keywordScore := float64(keywordHits) / float64(len(config.keywords))

		patternHits := 0
		for _, pattern := range config.patterns {
			if pattern.MatchString(query) {
				patternHits++
			}
		}

		score := keywordScore*0.7 + float64(patternHits)*0.3
		if score > bestScore {
			bestIntent, bestScore = intent, score
		}
	}

	return bestIntent, bestScore
}
