package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examroom/examroom-backend/internal/model"
)

func TestFetchExamsReplacesCatalog(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	gw.exams[2] = model.Exam{ID: 2, Name: "Final", DurationSeconds: 120, TotalMarks: 50}
	st, _ := newTestStore(t, gw)

	require.NoError(t, st.FetchExams(context.Background()))

	state := st.State()
	assert.Len(t, state.Exams, 2)
	assert.False(t, state.Loading)
	for _, e := range state.Exams {
		assert.False(t, e.HasQuestions(), "list returns summaries only")
	}
}

func TestFetchExamsKeepsLoadedQuestionTrees(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	require.NoError(t, st.LoadExamData(ctx, 1))
	require.True(t, st.State().Exams[0].HasQuestions())

	require.NoError(t, st.FetchExams(ctx))

	state := st.State()
	require.Len(t, state.Exams, 1)
	assert.True(t, state.Exams[0].HasQuestions(), "refresh must not wipe a loaded tree")
}

func TestFetchExamsDropsRemovedEntries(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	gw.exams[2] = model.Exam{ID: 2, Name: "Final"}
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	require.NoError(t, st.FetchExams(ctx))
	require.Len(t, st.State().Exams, 2)

	delete(gw.exams, 2)
	require.NoError(t, st.FetchExams(ctx))
	state := st.State()
	require.Len(t, state.Exams, 1)
	assert.Equal(t, int64(1), state.Exams[0].ID)
}

func TestFetchExamsFailureLeavesCatalogUntouched(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	require.NoError(t, st.FetchExams(ctx))
	require.Len(t, st.State().Exams, 1)

	gw.listExamsFn = func(ctx context.Context) ([]model.Exam, error) {
		return nil, errors.New("bad gateway")
	}
	err := st.FetchExams(ctx)
	require.Error(t, err)

	state := st.State()
	assert.Len(t, state.Exams, 1, "stale catalog beats an empty one")
	assert.Equal(t, "bad gateway", state.Error)
	assert.False(t, state.Loading)
}

func TestLoadExamDataUpserts(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	// Summary entry first, then the full tree lands in place.
	require.NoError(t, st.FetchExams(ctx))
	require.False(t, st.State().Exams[0].HasQuestions())

	require.NoError(t, st.LoadExamData(ctx, 1))
	state := st.State()
	require.Len(t, state.Exams, 1)
	assert.True(t, state.Exams[0].HasQuestions())
}

func TestDeleteExamRemovesLocallyOnSuccess(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	require.NoError(t, st.FetchExams(ctx))
	require.NoError(t, st.DeleteExam(ctx, 1))
	assert.Empty(t, st.State().Exams)
}

func TestDeleteExamFailureKeepsEntry(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	require.NoError(t, st.FetchExams(ctx))
	gw.deleteExamFn = func(ctx context.Context, examID int64) error {
		return errors.New("permission denied")
	}

	err := st.DeleteExam(ctx, 1)
	require.Error(t, err)
	assert.Len(t, st.State().Exams, 1)
	assert.Equal(t, "permission denied", st.State().Error)
}
