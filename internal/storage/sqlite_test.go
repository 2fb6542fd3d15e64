package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prizewheel/internal/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_LoadAbsent(t *testing.T) {
	store := openTestStore(t)

	record, ok := store.Load()
	assert.False(t, ok)
	assert.Nil(t, record)
}

func TestSQLiteStore_SaveLoadClear(t *testing.T) {
	store := openTestStore(t)

	saved := &models.ParticipantRecord{
		ParticipantID: "u1",
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "jane@x.com",
		Phone:         "+97412345678",
		HasSpun:       true,
		IsWinner:      true,
		Result:        &models.SpinResult{Key: "DISCOUNT_10", Label: "10% Off", IsWinner: true},
	}
	store.Save(saved)

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, saved, loaded)

	// Saving again replaces the previous record rather than adding rows.
	saved.IsWinner = false
	store.Save(saved)
	loaded, ok = store.Load()
	require.True(t, ok)
	assert.False(t, loaded.IsWinner)

	store.Clear()
	_, ok = store.Load()
	assert.False(t, ok)
}

func TestSQLiteStore_MalformedRecordIsAbsent(t *testing.T) {
	store := openTestStore(t)

	_, err := store.db.Exec(
		`INSERT INTO session_records (key, record) VALUES (?, ?)`,
		recordKey, "{not json",
	)
	require.NoError(t, err)

	record, ok := store.Load()
	assert.False(t, ok)
	assert.Nil(t, record)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
