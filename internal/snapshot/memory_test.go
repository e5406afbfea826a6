package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examroom/examroom-backend/internal/model"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	snap := &Snapshot{
		Version:       Version,
		ActiveExamID:  1,
		StudentExamID: 2,
		Status:        model.AttemptStatusInProgress,
		Answers:       map[int64]int64{5: 50},
		Timer:         10,
	}
	require.NoError(t, s.Save(ctx, "k", snap))

	// Mutating the original after Save must not leak into the store.
	snap.Answers[5] = 99

	loaded, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(50), loaded.Answers[5])

	require.NoError(t, s.Delete(ctx, "k"))
	loaded, err = s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStoreLoadMissingKey(t *testing.T) {
	s := NewMemoryStore()
	loaded, err := s.Load(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
