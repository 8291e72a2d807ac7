package geo_test

import (
	"testing"

	"floatchat-backend/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeBaseLoads(t *testing.T) {
	expert, err := geo.NewExpert()
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"arabian_sea", "bay_of_bengal", "north_atlantic", "pacific_ocean", "indian_ocean"},
		expert.KnownRegions(),
	)
	assert.ElementsMatch(t,
		[]string{"monsoon", "currents", "bathymetry", "climate"},
		expert.KnownTopics(),
	)
}

func TestRegionInfo(t *testing.T) {
	expert, err := geo.NewExpert()
	require.NoError(t, err)

	info := expert.Info("arabian_sea", "", "")
	assert.Contains(t, info, "**Arabian Sea**")
	assert.Contains(t, info, "**Key Features:**")
	assert.Contains(t, info, "Somali Current")

	info = expert.Info("atlantis", "", "")
	assert.Contains(t, info, "I don't have information about the region 'atlantis'")
	assert.Contains(t, info, "arabian_sea")
}

func TestRegionTopicInfo(t *testing.T) {
	expert, err := geo.NewExpert()
	require.NoError(t, err)

	info := expert.Info("bay_of_bengal", "monsoon", "southwest")
	assert.Contains(t, info, "**Monsoon in Bay of Bengal**")
	assert.Contains(t, info, "**Southwest:**")
	assert.Contains(t, info, "monsoons significantly influence")

	info = expert.Info("bay_of_bengal", "monsoon", "sideways")
	assert.Contains(t, info, "Available subtopics for monsoon")

	info = expert.Info("bay_of_bengal", "astrology", "")
	assert.Contains(t, info, "I don't have specific information about 'astrology'")
}

func TestGeneralTopicAnswer(t *testing.T) {
	expert, err := geo.NewExpert()
	require.NoError(t, err)

	answer := expert.AnswerGeneralQuestion("currents")
	assert.Contains(t, answer, "**Currents - General Information**")
	assert.Contains(t, answer, "**Key Aspects:**")

	answer = expert.AnswerGeneralQuestion("astrology")
	assert.Contains(t, answer, "I don't have information about 'astrology'")
}

func TestRegionForCoordinates(t *testing.T) {
	expert, err := geo.NewExpert()
	require.NoError(t, err)

	// Arabian Sea box: lat 8-27, lon 50-78.
	assert.Equal(t, "arabian_sea", expert.RegionForCoordinates(15.0, 65.0))
	// Bay of Bengal box: lat 5-22, lon 77-97.
	assert.Equal(t, "bay_of_bengal", expert.RegionForCoordinates(10.0, 90.0))
	// Pacific uses normalized longitude, so -140 maps to 220.
	assert.Equal(t, "pacific_ocean", expert.RegionForCoordinates(0.0, -140.0))
	// Southern ocean point outside every box.
	assert.Equal(t, "", expert.RegionForCoordinates(-75.0, 0.0))
}
