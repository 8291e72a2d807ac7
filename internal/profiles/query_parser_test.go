package profiles_test

import (
	"testing"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warmProfile() *database.Profile {
	return &database.Profile{
		FloatId:     "argo-2902746",
		Latitude:    15.2,
		Longitude:   64.8,
		Depth:       10,
		Temperature: 28.4,
		Salinity:    36.1,
		Region:      "arabian_sea",
	}
}

func coldProfile() *database.Profile {
	return &database.Profile{
		FloatId:     "argo-6903240",
		Latitude:    55.0,
		Longitude:   -30.0,
		Depth:       800,
		Temperature: 4.2,
		Salinity:    34.9,
		Region:      "north_atlantic",
	}
}

func TestNumericComparisons(t *testing.T) {
	filter, err := profiles.ParseQuery(`temperature > 20`)
	require.NoError(t, err)

	assert.True(t, filter.Matches(warmProfile()))
	assert.False(t, filter.Matches(coldProfile()))

	filter, err = profiles.ParseQuery(`depth < 100`)
	require.NoError(t, err)

	assert.True(t, filter.Matches(warmProfile()))
	assert.False(t, filter.Matches(coldProfile()))
}

func TestStringComparisons(t *testing.T) {
	filter, err := profiles.ParseQuery(`region = "arabian_sea"`)
	require.NoError(t, err)

	assert.True(t, filter.Matches(warmProfile()))
	assert.False(t, filter.Matches(coldProfile()))

	filter, err = profiles.ParseQuery(`float_id CONTAINS "2902"`)
	require.NoError(t, err)

	assert.True(t, filter.Matches(warmProfile()))
	assert.False(t, filter.Matches(coldProfile()))
}

func TestBooleanOperators(t *testing.T) {
	filter, err := profiles.ParseQuery(`temperature > 20 AND salinity > 35`)
	require.NoError(t, err)
	assert.True(t, filter.Matches(warmProfile()))
	assert.False(t, filter.Matches(coldProfile()))

	filter, err = profiles.ParseQuery(`region = "north_atlantic" OR temperature > 20`)
	require.NoError(t, err)
	assert.True(t, filter.Matches(warmProfile()))
	assert.True(t, filter.Matches(coldProfile()))

	filter, err = profiles.ParseQuery(`NOT region = "arabian_sea"`)
	require.NoError(t, err)
	assert.False(t, filter.Matches(warmProfile()))
	assert.True(t, filter.Matches(coldProfile()))

	filter, err = profiles.ParseQuery(`(temperature > 20 AND depth < 100) OR region CONTAINS "atlantic"`)
	require.NoError(t, err)
	assert.True(t, filter.Matches(warmProfile()))
	assert.True(t, filter.Matches(coldProfile()))
}

func TestFilterToSQL(t *testing.T) {
	filter, err := profiles.ParseQuery(`temperature > 25 AND region = "arabian_sea"`)
	require.NoError(t, err)

	condition, args := filter.ToSQL()
	assert.Equal(t, "(temperature > ? AND region = ?)", condition)
	assert.Equal(t, []any{25.0, "arabian_sea"}, args)

	filter, err = profiles.ParseQuery(`NOT depth < 100 OR float_id CONTAINS "argo"`)
	require.NoError(t, err)

	condition, args = filter.ToSQL()
	assert.Equal(t, `(NOT (depth < ?) OR float_id LIKE ? ESCAPE '\')`, condition)
	assert.Equal(t, []any{100.0, "%argo%"}, args)
}

func TestFilterToSQLEscapesWildcards(t *testing.T) {
	filter, err := profiles.ParseQuery(`region CONTAINS "arabian_sea"`)
	require.NoError(t, err)

	condition, args := filter.ToSQL()
	assert.Equal(t, `region LIKE ? ESCAPE '\'`, condition)
	assert.Equal(t, []any{`%arabian\_sea%`}, args)

	filter, err = profiles.ParseQuery(`float_id CONTAINS "100%"`)
	require.NoError(t, err)

	_, args = filter.ToSQL()
	assert.Equal(t, []any{`%100\%%`}, args)
}

func TestInvalidQueries(t *testing.T) {
	_, err := profiles.ParseQuery(`temperature CONTAINS 5`)
	assert.Error(t, err)

	_, err = profiles.ParseQuery(`region > 5`)
	assert.Error(t, err)

	_, err = profiles.ParseQuery(`wingspan > 5`)
	assert.Error(t, err)

	_, err = profiles.ParseQuery(`temperature >`)
	assert.Error(t, err)
}
