package session

import (
	"math"

	"github.com/examroom/examroom-backend/internal/model"
)

// Score returns the derived percentage (0-100, rounded to nearest integer)
// of marks earned over the active exam's total marks. Zero when there is no
// active exam, no loaded questions, or the total marks are zero.
func (s *Store) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeExamID == 0 {
		return 0
	}
	exam := s.findExamLocked(s.activeExamID)
	if exam == nil || !exam.HasQuestions() {
		return 0
	}

	earned, possible := tallyMarks(exam.Questions, s.answers)
	if possible == 0 {
		return 0
	}
	return int(math.Round(float64(earned) / float64(possible) * 100))
}

// tallyMarks sums earned and achievable marks. A question with no correct
// option, or an answer pointing at a foreign option id, simply scores as
// incorrect.
func tallyMarks(questions []model.Question, answers map[int64]int64) (earned, possible int) {
	for i := range questions {
		q := &questions[i]
		possible += q.Marks
		correctID, ok := q.CorrectOptionID()
		if !ok {
			continue
		}
		if selected, answered := answers[q.ID]; answered && selected == correctID {
			earned += q.Marks
		}
	}
	return earned, possible
}

// buildSubmission computes the total score and the per-question answer rows
// to persist. Rows are produced only for questions that were answered;
// correct answers carry the question's marks, wrong ones carry zero.
func buildSubmission(attemptID int64, questions []model.Question, answers map[int64]int64) (int, []model.StudentAnswer) {
	totalScore := 0
	rows := make([]model.StudentAnswer, 0, len(answers))

	for i := range questions {
		q := &questions[i]
		selected, answered := answers[q.ID]
		correctID, ok := q.CorrectOptionID()
		correct := ok && answered && selected == correctID
		if correct {
			totalScore += q.Marks
		}
		if !answered {
			continue
		}
		marks := 0
		if correct {
			marks = q.Marks
		}
		rows = append(rows, model.StudentAnswer{
			StudentExamID:    attemptID,
			QuestionID:       q.ID,
			SelectedOptionID: selected,
			MarksObtained:    marks,
		})
	}
	return totalScore, rows
}
