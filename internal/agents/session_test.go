package agents

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionContext(t *testing.T) {
	manager := NewSessionManager()

	info := manager.ObserveQuery("s1", "find temperature data")
	assert.False(t, info.IsFollowUp)
	assert.Empty(t, info.LastAgent)
	assert.Equal(t, 0, info.SessionLength)

	manager.RecordInteraction("s1", "find temperature data", "Found 10 data points", DataAgentName)

	info = manager.ObserveQuery("s1", "also show salinity")
	assert.True(t, info.IsFollowUp)
	assert.Equal(t, DataAgentName, info.LastAgent)
	assert.Equal(t, 1, info.SessionLength)
}

func TestSessionHistoryCap(t *testing.T) {
	manager := NewSessionManager()
	manager.ObserveQuery("s1", "hello")

	for i := 0; i < 60; i++ {
		manager.RecordInteraction("s1", fmt.Sprintf("query %d", i), "response", DataAgentName)
	}

	info := manager.ObserveQuery("s1", "next question")
	assert.Equal(t, maxHistoryEntries, info.SessionLength)
}

func TestSessionEviction(t *testing.T) {
	manager := NewSessionManager()

	for i := 0; i < defaultMaxSessions+10; i++ {
		manager.ObserveQuery(fmt.Sprintf("session-%d", i), "hello")
	}

	assert.LessOrEqual(t, manager.ActiveSessions(), defaultMaxSessions)
}
