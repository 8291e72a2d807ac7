// Package ingest turns raw ARGO profile CSV files from object storage into
// database rows, driven by queued tasks.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"floatchat-backend/internal/database"

	"github.com/google/uuid"
)

var timeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, format := range timeFormats {
		if ts, err := time.Parse(format, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp '%s'", s)
}

// ParseProfilesCSV reads profile rows from a CSV file with a header line.
// Required columns are float_id, latitude, longitude, measured_at, depth,
// temperature, and salinity. Any malformed row fails the whole file so a
// partially loaded object is never silently accepted.
func ParseProfilesCSV(r io.Reader) ([]database.Profile, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{"float_id", "latitude", "longitude", "measured_at", "depth", "temperature", "salinity"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column '%s'", required)
		}
	}

	field := func(record []string, name string) string {
		return strings.TrimSpace(record[columns[name]])
	}

	var profiles []database.Profile
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading csv line %d: %w", line, err)
		}

		floatId := field(record, "float_id")
		if floatId == "" {
			return nil, fmt.Errorf("line %d: missing float_id", line)
		}

		numeric := make(map[string]float64, 5)
		for _, name := range []string{"latitude", "longitude", "depth", "temperature", "salinity"} {
			value, err := strconv.ParseFloat(field(record, name), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s '%s'", line, name, field(record, name))
			}
			numeric[name] = value
		}

		if numeric["latitude"] < -90 || numeric["latitude"] > 90 {
			return nil, fmt.Errorf("line %d: latitude %v out of range", line, numeric["latitude"])
		}
		if numeric["longitude"] < -180 || numeric["longitude"] > 360 {
			return nil, fmt.Errorf("line %d: longitude %v out of range", line, numeric["longitude"])
		}

		measuredAt, err := parseTime(field(record, "measured_at"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		profiles = append(profiles, database.Profile{
			ProfId:      uuid.New(),
			FloatId:     floatId,
			Latitude:    numeric["latitude"],
			Longitude:   numeric["longitude"],
			MeasuredAt:  measuredAt,
			Depth:       numeric["depth"],
			Temperature: numeric["temperature"],
			Salinity:    numeric["salinity"],
		})
	}

	return profiles, nil
}
