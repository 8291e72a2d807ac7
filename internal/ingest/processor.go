package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/geo"
	"floatchat-backend/internal/messaging"
	"floatchat-backend/internal/storage"

	"gorm.io/gorm"
)

const insertBatchSize = 500

// TaskProcessor executes queued ingest tasks: it fetches the object, parses
// it, tags each profile with a region, and records the outcome on the job.
type TaskProcessor struct {
	db      *gorm.DB
	storage storage.Provider
	expert  *geo.Expert
}

func NewTaskProcessor(db *gorm.DB, provider storage.Provider, expert *geo.Expert) *TaskProcessor {
	return &TaskProcessor{db: db, storage: provider, expert: expert}
}

// Run consumes tasks until the receiver's channel closes or the context is
// cancelled. Malformed payloads are rejected, failed tasks are nacked,
// everything else is acked.
func (p *TaskProcessor) Run(ctx context.Context, receiver messaging.Reciever) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-receiver.Tasks():
			if !ok {
				return
			}
			p.handleTask(ctx, task)
		}
	}
}

func (p *TaskProcessor) handleTask(ctx context.Context, task messaging.Task) {
	var payload messaging.IngestTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.Error("discarding malformed ingest task", "error", err)
		if err := task.Reject(); err != nil {
			slog.Error("error rejecting task", "error", err)
		}
		return
	}

	if err := p.ProcessTask(ctx, payload); err != nil {
		slog.Error("ingest task failed", "job_id", payload.JobId, "task_id", payload.TaskId, "error", err)
		if err := task.Nack(); err != nil {
			slog.Error("error nacking task", "error", err)
		}
		return
	}

	if err := task.Ack(); err != nil {
		slog.Error("error acking task", "error", err)
	}
}

// ProcessTask ingests a single object. Parse failures mark the task failed
// but return nil so the message is not redelivered for bad input.
func (p *TaskProcessor) ProcessTask(ctx context.Context, payload messaging.IngestTaskPayload) error {
	start := time.Now()

	var task database.IngestTask
	if err := p.db.WithContext(ctx).First(&task, "job_id = ? AND task_id = ?", payload.JobId, payload.TaskId).Error; err != nil {
		return fmt.Errorf("error loading ingest task: %w", err)
	}

	var job database.IngestJob
	if err := p.db.WithContext(ctx).First(&job, "id = ?", payload.JobId).Error; err != nil {
		return fmt.Errorf("error loading ingest job: %w", err)
	}

	if err := database.UpdateIngestTaskStatus(ctx, p.db, payload.JobId, payload.TaskId, database.JobRunning); err != nil {
		return fmt.Errorf("error updating task status: %w", err)
	}

	if job.Status == database.JobQueued {
		if err := database.UpdateIngestJobStatus(ctx, p.db, job.Id, database.JobRunning); err != nil {
			slog.Warn("could not mark ingest job running", "job_id", job.Id, "error", err)
		}
	}

	data, err := p.storage.GetObject(ctx, job.SourceBucket, task.ObjectKey)
	if err != nil {
		return fmt.Errorf("error fetching object %s: %w", task.ObjectKey, err)
	}

	profiles, err := ParseProfilesCSV(bytes.NewReader(data))
	if err != nil {
		slog.Warn("object failed to parse", "job_id", job.Id, "key", task.ObjectKey, "error", err)
		return database.RecordIngestTaskResult(ctx, p.db, payload.JobId, payload.TaskId, false)
	}

	now := time.Now().UTC()
	for i := range profiles {
		profiles[i].Region = p.expert.RegionForCoordinates(profiles[i].Latitude, profiles[i].Longitude)
		profiles[i].CreationTime = now
	}

	if len(profiles) > 0 {
		if err := p.db.WithContext(ctx).CreateInBatches(profiles, insertBatchSize).Error; err != nil {
			return fmt.Errorf("error inserting profiles: %w", err)
		}
	}

	if err := database.RecordIngestTaskResult(ctx, p.db, payload.JobId, payload.TaskId, true); err != nil {
		return fmt.Errorf("error recording task result: %w", err)
	}

	slog.Info("ingested object",
		"job_id", job.Id,
		"key", task.ObjectKey,
		"profiles", len(profiles),
		"duration", time.Since(start),
	)

	return nil
}
