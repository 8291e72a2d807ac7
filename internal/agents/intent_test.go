package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query  string
		intent string
	}{
		{"Tell me about the monsoon in the Arabian Sea", IntentGeographic},
		{"What is the bathymetry of the Bay of Bengal?", IntentGeographic},
		{"Show me a map of temperature", IntentVisualization},
		{"Create a plot of salinity trends", IntentVisualization},
		{"Find temperature data for the Indian Ocean", IntentData},
		{"What are the average salinity values?", IntentData},
	}

	for _, test := range tests {
		intent, confidence := ClassifyIntent(test.query)
		assert.Equal(t, test.intent, intent, "query: %s", test.query)
		assert.Greater(t, confidence, 0.0, "query: %s", test.query)
	}
}

func TestClassifyIntentDefaultsToData(t *testing.T) {
	intent, confidence := ClassifyIntent("xyzzy")
	assert.Equal(t, IntentData, intent)
	assert.Equal(t, 0.0, confidence)
}

func TestDetermineWorkflow(t *testing.T) {
	assert.Equal(t,
		[]string{GeographicAgentName},
		determineWorkflow(IntentGeographic, 0.5, ContextInfo{}))

	assert.Equal(t,
		[]string{DataAgentName},
		determineWorkflow(IntentData, 0.5, ContextInfo{}))

	assert.Equal(t,
		[]string{DataAgentName, VisualizationAgentName},
		determineWorkflow(IntentVisualization, 0.5, ContextInfo{}))

	// Low-confidence data queries continue the last agent on follow-ups.
	assert.Equal(t,
		[]string{GeographicAgentName},
		determineWorkflow(IntentData, 0.1, ContextInfo{IsFollowUp: true, LastAgent: GeographicAgentName}))

	assert.Equal(t,
		[]string{DataAgentName},
		determineWorkflow(IntentData, 0.1, ContextInfo{}))
}
