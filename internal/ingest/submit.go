package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/messaging"
	"floatchat-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitJob lists the objects under bucket/prefix, records a job with one
// task per object, and publishes the tasks. A prefix with no objects yields
// an immediately completed job.
func SubmitJob(ctx context.Context, db *gorm.DB, provider storage.Provider, publisher messaging.Publisher, bucket, prefix string) (*database.IngestJob, error) {
	objects, err := provider.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("error listing objects under %s/%s: %w", bucket, prefix, err)
	}

	job := &database.IngestJob{
		Id:           uuid.New(),
		SourceBucket: bucket,
		SourcePrefix: sql.NullString{String: prefix, Valid: prefix != ""},
		Status:       database.JobQueued,
		CreationTime: time.Now().UTC(),
	}

	if len(objects) == 0 {
		job.Status = database.JobCompleted
		job.CompletionTime = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		if err := db.WithContext(ctx).Create(job).Error; err != nil {
			return nil, fmt.Errorf("error creating ingest job: %w", err)
		}
		slog.Info("ingest job has no objects, completing immediately", "job_id", job.Id, "bucket", bucket, "prefix", prefix)
		return job, nil
	}

	job.TotalFileCount = len(objects)
	job.Tasks = make([]database.IngestTask, len(objects))
	for i, obj := range objects {
		job.Tasks[i] = database.IngestTask{
			JobId:        job.Id,
			TaskId:       i,
			ObjectKey:    obj.Name,
			Status:       database.JobQueued,
			CreationTime: time.Now().UTC(),
		}
	}

	if err := db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("error creating ingest job: %w", err)
	}

	for _, task := range job.Tasks {
		payload := messaging.IngestTaskPayload{JobId: job.Id, TaskId: task.TaskId}
		if err := publisher.PublishIngestTask(ctx, payload); err != nil {
			return nil, fmt.Errorf("error publishing ingest task %d: %w", task.TaskId, err)
		}
	}

	slog.Info("submitted ingest job", "job_id", job.Id, "bucket", bucket, "prefix", prefix, "files", len(objects))

	return job, nil
}
