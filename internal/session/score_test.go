package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examroom/examroom-backend/internal/model"
)

func TestScoreNoActiveExam(t *testing.T) {
	st, _ := newTestStore(t, newFakeGateway())
	assert.Equal(t, 0, st.Score())
}

func TestScoreRoundsToNearestPercent(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = threeQuestionExam()
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	require.NoError(t, st.StartExam(ctx, 1))
	st.SubmitAnswer(ctx, 1, 11) // 5 of 30 → 16.67% → 17
	assert.Equal(t, 17, st.Score())

	st.SubmitAnswer(ctx, 3, 31) // 20 of 30 → 66.67% → 67
	assert.Equal(t, 67, st.Score())

	st.SubmitAnswer(ctx, 2, 21) // all correct
	assert.Equal(t, 100, st.Score())
}

func TestScoreZeroTotalMarksGuard(t *testing.T) {
	gw := newFakeGateway()
	gw.exams[1] = model.Exam{
		ID:              1,
		Name:            "Weightless",
		DurationSeconds: 60,
		Questions: []model.Question{
			{ID: 1, ExamID: 1, Marks: 0, Options: []model.Option{
				{ID: 11, IsCorrect: true},
			}},
		},
	}
	st, _ := newTestStore(t, gw)
	ctx := context.Background()

	require.NoError(t, st.StartExam(ctx, 1))
	st.SubmitAnswer(ctx, 1, 11)
	assert.Equal(t, 0, st.Score())
}

func TestTallyMarksSkipsQuestionsWithoutCorrectOption(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Marks: 10, Options: []model.Option{{ID: 11}, {ID: 12}}},
		{ID: 2, Marks: 5, Options: []model.Option{{ID: 21, IsCorrect: true}}},
	}
	earned, possible := tallyMarks(questions, map[int64]int64{1: 11, 2: 21})
	assert.Equal(t, 5, earned)
	assert.Equal(t, 15, possible, "unanswerable questions still count toward possible")
}

func TestTallyMarksForeignOptionScoresZero(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Marks: 10, Options: []model.Option{{ID: 11, IsCorrect: true}}},
	}
	earned, _ := tallyMarks(questions, map[int64]int64{1: 999})
	assert.Equal(t, 0, earned)
}

func TestBuildSubmissionOnlyAnsweredQuestions(t *testing.T) {
	exam := threeQuestionExam()
	answers := map[int64]int64{1: 11, 3: 32} // Q2 unanswered, Q3 wrong

	total, rows := buildSubmission(55, exam.Questions, answers)
	assert.Equal(t, 5, total)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, int64(55), r.StudentExamID)
		assert.NotEqual(t, int64(2), r.QuestionID)
	}
}
