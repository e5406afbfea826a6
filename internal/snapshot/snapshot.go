// Package snapshot persists the survivable subset of a session store so an
// in-progress attempt outlives a client reload or a server restart.
package snapshot

import (
	"context"

	"github.com/examroom/examroom-backend/internal/model"
)

// Version is the current serialization schema version. Snapshots written
// with a different version are discarded on rehydration.
const Version = 1

// Snapshot is the persisted subset of session state. Exam question trees are
// intentionally absent; they are re-fetched by id on rehydration.
type Snapshot struct {
	Version       int                 `json:"version"`
	ActiveExamID  int64               `json:"active_exam_id"`
	StudentExamID int64               `json:"student_exam_id"`
	Status        model.AttemptStatus `json:"exam_status"`
	Answers       map[int64]int64     `json:"answers"`
	Timer         int                 `json:"timer"`
}

// Store is the durable blob storage for snapshots, one blob per key.
type Store interface {
	// Save writes the snapshot under key, replacing any previous blob.
	Save(ctx context.Context, key string, snap *Snapshot) error
	// Load returns the snapshot under key, or (nil, nil) when absent.
	Load(ctx context.Context, key string) (*Snapshot, error)
	// Delete removes the blob under key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
