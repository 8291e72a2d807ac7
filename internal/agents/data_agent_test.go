package agents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	return db
}

func testExpert(t *testing.T) *geo.Expert {
	t.Helper()
	expert, err := geo.NewExpert()
	require.NoError(t, err)
	return expert
}

func seedProfiles(t *testing.T, db *gorm.DB, region string, count int, temperature float64) {
	t.Helper()
	for i := 0; i < count; i++ {
		require.NoError(t, db.Create(&database.Profile{
			ProfId:      uuid.New(),
			FloatId:     fmt.Sprintf("float-%s-%d", region, i),
			Latitude:    15.0,
			Longitude:   65.0,
			MeasuredAt:  time.Date(2024, time.Month(1+i%12), 1, 0, 0, 0, 0, time.UTC),
			Depth:       10,
			Temperature: temperature,
			Salinity:    35.5,
			Region:      region,
		}).Error)
	}
}

func TestExtractRegion(t *testing.T) {
	agent := NewDataAgent(testDB(t), nil, testExpert(t))

	assert.Equal(t, "arabian_sea", agent.ExtractRegion("show data for the Arabian Sea"))
	assert.Equal(t, "bay_of_bengal", agent.ExtractRegion("temperature in bay of bengal"))
	assert.Equal(t, "north_atlantic", agent.ExtractRegion("stats for north_atlantic floats"))
	assert.Equal(t, "", agent.ExtractRegion("show me everything"))
}

func TestDataAgentInsights(t *testing.T) {
	db := testDB(t)
	seedProfiles(t, db, "arabian_sea", 5, 28.0)
	seedProfiles(t, db, "bay_of_bengal", 3, 29.0)

	agent := NewDataAgent(db, nil, testExpert(t))

	response, err := agent.Execute(context.Background(), "find temperature data for the arabian sea", &State{})
	require.NoError(t, err)

	assert.Contains(t, response, "Found 5 data points")
	assert.Contains(t, response, "Arabian Sea")
	assert.Contains(t, response, "Temperature Insights")
	assert.Contains(t, response, "28.00°C")
	assert.Contains(t, response, "Salinity Insights")
}

func TestDataAgentAllRegions(t *testing.T) {
	db := testDB(t)
	seedProfiles(t, db, "arabian_sea", 2, 28.0)
	seedProfiles(t, db, "bay_of_bengal", 2, 29.0)

	agent := NewDataAgent(db, nil, testExpert(t))

	response, err := agent.Execute(context.Background(), "show me temperature statistics", &State{})
	require.NoError(t, err)
	assert.Contains(t, response, "Found 4 data points")
	assert.Contains(t, response, "across all regions")
}

func TestDataAgentNoData(t *testing.T) {
	agent := NewDataAgent(testDB(t), nil, testExpert(t))

	response, err := agent.Execute(context.Background(), "find temperature data", &State{})
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any data matching your query.", response)
}

func TestDataAgentReturnsProfiles(t *testing.T) {
	db := testDB(t)
	seedProfiles(t, db, "arabian_sea", 4, 28.0)

	agent := NewDataAgent(db, nil, testExpert(t))

	state := &State{ReturnProfiles: true}
	response, err := agent.Execute(context.Background(), "get all temperature data", state)
	require.NoError(t, err)

	assert.Equal(t, "Data collected successfully.", response)
	assert.Len(t, state.Profiles, 4)
}
