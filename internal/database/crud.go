package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UpdateIngestJobStatus(ctx context.Context, db *gorm.DB, jobId uuid.UUID, status string) error {
	updates := map[string]any{"status": status}
	if status == JobCompleted || status == JobFailed {
		updates["completion_time"] = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}
	return db.WithContext(ctx).Model(&IngestJob{}).Where("id = ?", jobId).Updates(updates).Error
}

func UpdateIngestTaskStatus(ctx context.Context, db *gorm.DB, jobId uuid.UUID, taskId int, status string) error {
	updates := map[string]any{"status": status}
	switch status {
	case JobRunning:
		updates["start_time"] = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	case JobCompleted, JobFailed:
		updates["completion_time"] = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}
	return db.WithContext(ctx).Model(&IngestTask{}).
		Where("job_id = ? AND task_id = ?", jobId, taskId).
		Updates(updates).Error
}

// RecordIngestTaskResult bumps the job's file counters and, once every task
// has finished, marks the job itself completed or failed.
func RecordIngestTaskResult(ctx context.Context, db *gorm.DB, jobId uuid.UUID, taskId int, succeeded bool) error {
	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		taskStatus := JobCompleted
		counter := "succeeded_file_count"
		if !succeeded {
			taskStatus = JobFailed
			counter = "failed_file_count"
		}

		updates := map[string]any{
			"status":          taskStatus,
			"completion_time": sql.NullTime{Time: time.Now().UTC(), Valid: true},
		}
		if err := txn.Model(&IngestTask{}).Where("job_id = ? AND task_id = ?", jobId, taskId).Updates(updates).Error; err != nil {
			return err
		}

		if err := txn.Model(&IngestJob{}).Where("id = ?", jobId).
			Update(counter, gorm.Expr(counter+" + 1")).Error; err != nil {
			return err
		}

		var job IngestJob
		if err := txn.First(&job, "id = ?", jobId).Error; err != nil {
			return err
		}

		if job.SucceededFileCount+job.FailedFileCount >= job.TotalFileCount {
			finalStatus := JobCompleted
			if job.FailedFileCount > 0 {
				finalStatus = JobFailed
			}
			return txn.Model(&IngestJob{}).Where("id = ?", jobId).Updates(map[string]any{
				"status":          finalStatus,
				"completion_time": sql.NullTime{Time: time.Now().UTC(), Valid: true},
			}).Error
		}

		return nil
	})
}
