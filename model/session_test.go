package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionModel_CreateAndFindByToken(t *testing.T) {
	db := setupTestDB(t, "session", &Session{})

	s := Session{
		SessionToken: "token123",
		AccountID:    "P1",
		Role:         RolePatient,
		ExpiresAt:    time.Now().Add(time.Hour),
		ClientIP:     "127.0.0.1",
	}
	require.NoError(t, db.Create(&s).Error)
	assert.NotZero(t, s.ID)

	var found Session
	require.NoError(t, db.Where("session_token = ?", "token123").First(&found).Error)
	assert.Equal(t, "P1", found.AccountID)
	assert.True(t, found.IsPatient())
	assert.False(t, found.IsDoctor())
}

func TestSessionModel_UniqueToken(t *testing.T) {
	db := setupTestDB(t, "session_unique", &Session{})

	require.NoError(t, db.Create(&Session{SessionToken: "dup", AccountID: "P1"}).Error)
	assert.Error(t, db.Create(&Session{SessionToken: "dup", AccountID: "P2"}).Error)
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, Session{ExpiresAt: now.Add(-time.Minute)}.IsExpired(now))
	assert.True(t, Session{ExpiresAt: now}.IsExpired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.IsExpired(now))
}
