package api

import (
	"floatchat-backend/internal/database"
	"floatchat-backend/pkg/api"
)

func toApiProfile(profile database.Profile) api.Profile {
	return api.Profile{
		ProfId:      profile.ProfId,
		FloatId:     profile.FloatId,
		Latitude:    profile.Latitude,
		Longitude:   profile.Longitude,
		MeasuredAt:  profile.MeasuredAt,
		Depth:       profile.Depth,
		Temperature: profile.Temperature,
		Salinity:    profile.Salinity,
		Region:      profile.Region,
	}
}

func toApiProfiles(profiles []database.Profile) []api.Profile {
	converted := make([]api.Profile, len(profiles))
	for i, profile := range profiles {
		converted[i] = toApiProfile(profile)
	}
	return converted
}

func toApiIngestJob(job database.IngestJob) api.IngestJob {
	return api.IngestJob{
		Id:             job.Id,
		SourceBucket:   job.SourceBucket,
		SourcePrefix:   job.SourcePrefix.String,
		Status:         job.Status,
		CreationTime:   job.CreationTime,
		SucceededFiles: job.SucceededFileCount,
		FailedFiles:    job.FailedFileCount,
		TotalFiles:     job.TotalFileCount,
	}
}
