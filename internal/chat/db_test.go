package chat_test

import (
	"testing"
	"time"

	"floatchat-backend/internal/chat"
	"floatchat-backend/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)

	sessionID := uuid.New()
	require.NoError(t, chat.CreateSession(db, &database.ChatSession{
		ID:           sessionID,
		Title:        "New Chat",
		CreationTime: time.Now().UTC(),
	}))

	session, err := chat.GetSession(db, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "New Chat", session.Title)

	require.NoError(t, chat.UpdateSessionTitle(db, sessionID, "Arabian Sea temperatures"))
	session, err = chat.GetSession(db, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Arabian Sea temperatures", session.Title)

	sessions, err := chat.GetSessions(db)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	require.NoError(t, chat.DeleteSession(db, sessionID))
	_, err = chat.GetSession(db, sessionID)
	assert.Error(t, err)
}

func TestSaveExchange(t *testing.T) {
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)

	sessionID := uuid.New()
	require.NoError(t, chat.CreateSession(db, &database.ChatSession{ID: sessionID, CreationTime: time.Now().UTC()}))

	require.NoError(t, chat.SaveExchange(db, sessionID, "find temperature data", "Found 5 data points", "data_agent", "data"))

	history, err := chat.GetChatHistory(db, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "user", history[0].MessageType)
	assert.Equal(t, "find temperature data", history[0].Content)
	assert.Equal(t, "ai", history[1].MessageType)
	assert.Contains(t, string(history[1].Metadata), "data_agent")

	require.NoError(t, chat.DeleteSession(db, sessionID))
	history, err = chat.GetChatHistory(db, sessionID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
