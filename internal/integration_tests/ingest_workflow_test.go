package integrationtests

import (
	"bytes"
	"context"
	"testing"
	"time"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/geo"
	"floatchat-backend/internal/ingest"
	"floatchat-backend/internal/messaging"
	"floatchat-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

const workflowCSV = `float_id,latitude,longitude,measured_at,depth,temperature,salinity
argo-100,15.0,65.0,2024-01-15T00:00:00Z,10,28.4,36.1
argo-200,12.0,88.0,2024-01-20T00:00:00Z,15,29.1,33.5
`

// Runs the full ingest path through a real broker: submit publishes tasks to
// RabbitMQ, a worker consumes them, and the job record converges.
func TestIngestWorkflowOverRabbitMQ(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	rabbitmqContainer, err := rabbitmq.RunContainer(ctx,
		testcontainers.WithImage("rabbitmq:3.11-management"),
	)
	require.NoError(t, err, "Failed to start RabbitMQ container")
	defer func() {
		if err := rabbitmqContainer.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate RabbitMQ container: %v", err)
		}
	}()

	connStr, err := rabbitmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)

	provider, err := storage.NewLocalProvider(t.TempDir())
	require.NoError(t, err)

	expert, err := geo.NewExpert()
	require.NoError(t, err)

	bucket := "argo-data"
	require.NoError(t, provider.PutObject(ctx, bucket, "floats/a.csv", bytes.NewReader([]byte(workflowCSV))))

	publisher, err := messaging.NewRabbitMQPublisher(connStr)
	require.NoError(t, err)
	defer publisher.Close()

	receiver, err := messaging.NewRabbitMQReceiver(connStr)
	require.NoError(t, err)
	defer receiver.Close()

	processor := ingest.NewTaskProcessor(db, provider, expert)
	go processor.Run(ctx, receiver)

	job, err := ingest.SubmitJob(ctx, db, provider, publisher, bucket, "floats")
	require.NoError(t, err)
	require.Equal(t, 1, job.TotalFileCount)

	require.Eventually(t, func() bool {
		var stored database.IngestJob
		if err := db.First(&stored, "id = ?", job.Id).Error; err != nil {
			return false
		}
		return stored.Status == database.JobCompleted
	}, time.Minute, 250*time.Millisecond, "job never completed")

	var count int64
	require.NoError(t, db.Model(&database.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var profiles []database.Profile
	require.NoError(t, db.Order("float_id").Find(&profiles).Error)
	assert.Equal(t, "arabian_sea", profiles[0].Region)
	assert.Equal(t, "bay_of_bengal", profiles[1].Region)
}
