package session

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examroom/examroom-backend/internal/identity"
	"github.com/examroom/examroom-backend/internal/model"
	"github.com/examroom/examroom-backend/internal/snapshot"
)

func snapKeyFor(subject string) string {
	return "account:" + subject + ":session_snapshot"
}

func TestStoreForReturnsSameStorePerSubject(t *testing.T) {
	gw := newFakeGateway()
	m := NewManager(gw, snapshot.NewMemoryStore(), snapKeyFor, zerolog.Nop())
	ctx := context.Background()

	a := m.StoreFor(ctx, identity.Session{Subject: "1", Email: "a@x.com"})
	b := m.StoreFor(ctx, identity.Session{Subject: "1", Email: "a@x.com"})
	c := m.StoreFor(ctx, identity.Session{Subject: "2", Email: "b@x.com"})

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestStoreForRehydratesOnFirstUse(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	snaps := snapshot.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, snaps.Save(ctx, snapKeyFor("9"), &snapshot.Snapshot{
		Version:       snapshot.Version,
		ActiveExamID:  1,
		StudentExamID: 321,
		Status:        model.AttemptStatusInProgress,
		Answers:       map[int64]int64{1: 11},
		Timer:         30,
	}))

	m := NewManager(gw, snaps, snapKeyFor, zerolog.Nop())
	st := m.StoreFor(ctx, identity.Session{Subject: "9", Email: "carol@x.com"})

	state := st.State()
	assert.Equal(t, int64(321), state.StudentExamID)
	assert.Equal(t, model.AttemptStatusInProgress, state.Status)
	assert.Equal(t, 30, state.Timer)
}

func TestTickAllIsolatesUsers(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	m := NewManager(gw, snapshot.NewMemoryStore(), snapKeyFor, zerolog.Nop())
	ctx := context.Background()

	active := m.StoreFor(ctx, identity.Session{Subject: "1", Email: "a@x.com"})
	idle := m.StoreFor(ctx, identity.Session{Subject: "2", Email: "b@x.com"})

	require.NoError(t, active.StartExam(ctx, 1))
	m.TickAll(ctx)

	assert.Equal(t, 59, active.State().Timer)
	assert.Equal(t, 0, idle.State().Timer)
	assert.Equal(t, model.AttemptStatusNotStarted, idle.State().Status)
}
