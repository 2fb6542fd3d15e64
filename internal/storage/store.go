// Package storage persists the participant record across visits. Loss of
// persistence is never fatal: a failed read means "no record" and a failed
// write is logged and swallowed, degrading to re-registration on the next
// visit.
package storage

import "prizewheel/internal/models"

// SessionStore is the durable home of the single participant record.
type SessionStore interface {
	// Load returns the persisted record, or ok=false when the record is
	// absent, unreadable or malformed.
	Load() (record *models.ParticipantRecord, ok bool)
	// Save persists the record, replacing any previous one.
	Save(record *models.ParticipantRecord)
	// Clear removes the persisted record.
	Clear()
}
