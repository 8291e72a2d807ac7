package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobQueued    string = "QUEUED"
	JobRunning   string = "RUNNING"
	JobCompleted string = "COMPLETED"
	JobFailed    string = "FAILED"
)

type Profile struct {
	ProfId uuid.UUID `gorm:"type:uuid;primaryKey"`

	FloatId string `gorm:"index;not null"`

	Latitude  float64
	Longitude float64

	MeasuredAt time.Time `gorm:"index"`

	Depth       float64
	Temperature float64
	Salinity    float64

	Region string `gorm:"index"`

	CreationTime time.Time

	Embedding *ProfileEmbedding `gorm:"foreignKey:ProfId;constraint:OnDelete:CASCADE"`
}

type ProfileEmbedding struct {
	ProfId uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Vector datatypes.JSON `gorm:"type:jsonb;not null"` // []float64
}

type IngestJob struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	SourceBucket string `gorm:"not null"`
	SourcePrefix sql.NullString

	Status         string `gorm:"size:20;not null"`
	CreationTime   time.Time
	CompletionTime sql.NullTime

	SucceededFileCount int `gorm:"default:0"`
	FailedFileCount    int `gorm:"default:0"`
	TotalFileCount     int `gorm:"default:0"`

	Tasks []IngestTask `gorm:"foreignKey:JobId;constraint:OnDelete:CASCADE"`
}

type IngestTask struct {
	JobId  uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskId int       `gorm:"primaryKey"`

	ObjectKey string `gorm:"not null"`

	Status         string `gorm:"size:20;not null"`
	CreationTime   time.Time
	StartTime      sql.NullTime
	CompletionTime sql.NullTime
}

type ChatSession struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `json:"title"`
	CreationTime time.Time `json:"creation_time"`
}

type ChatHistory struct {
	ID          uint   `gorm:"primary_key"`
	SessionID   string `gorm:"index"`
	MessageType string // 'user' or 'ai'
	Content     string
	Timestamp   time.Time      `gorm:"autoCreateTime"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"` // {"source_agent": "...", "intent": "..."}
}
