package chat

import (
	"encoding/json"
	"fmt"
	"sync"

	"floatchat-backend/internal/database"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SQLite only supports one writer at a time, so we need a lock
// whenever we write to the database
var dbMutex sync.Mutex

func GetSessions(db *gorm.DB) ([]database.ChatSession, error) {
	var sessions []database.ChatSession
	err := db.Order("creation_time DESC").Find(&sessions).Error
	return sessions, err
}

func CreateSession(db *gorm.DB, session *database.ChatSession) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return db.Create(session).Error
}

func GetSession(db *gorm.DB, sessionID uuid.UUID) (database.ChatSession, error) {
	var session database.ChatSession
	err := db.First(&session, "id = ?", sessionID).Error
	return session, err
}

func UpdateSessionTitle(db *gorm.DB, sessionID uuid.UUID, title string) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return db.Model(&database.ChatSession{ID: sessionID}).Update("title", title).Error
}

func DeleteSession(db *gorm.DB, sessionID uuid.UUID) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	if err := db.Delete(&database.ChatHistory{}, "session_id = ?", sessionID).Error; err != nil {
		return err
	}
	return db.Delete(&database.ChatSession{}, "id = ?", sessionID).Error
}

func GetChatHistory(db *gorm.DB, sessionID uuid.UUID) ([]database.ChatHistory, error) {
	var history []database.ChatHistory
	err := db.Where("session_id = ?", sessionID).Order("timestamp ASC").Find(&history).Error
	return history, err
}

// SaveExchange records a user query and the agent's answer as two history
// rows, tagging the answer with the agent that produced it.
func SaveExchange(db *gorm.DB, sessionID uuid.UUID, query, response, sourceAgent, intent string) error {
	metadata, err := json.Marshal(map[string]string{
		"source_agent": sourceAgent,
		"intent":       intent,
	})
	if err != nil {
		return fmt.Errorf("could not marshal message metadata: %w", err)
	}

	dbMutex.Lock()
	defer dbMutex.Unlock()

	if err := db.Create(&database.ChatHistory{
		SessionID:   sessionID.String(),
		MessageType: "user",
		Content:     query,
	}).Error; err != nil {
		return err
	}

	return db.Create(&database.ChatHistory{
		SessionID:   sessionID.String(),
		MessageType: "ai",
		Content:     response,
		Metadata:    datatypes.JSON(metadata),
	}).Error
}
