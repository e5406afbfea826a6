package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/model"
)

// CreateAttempt inserts a student_exam record for a freshly started attempt.
func (g *Gateway) CreateAttempt(ctx context.Context, a *model.Attempt) error {
	err := g.pool.QueryRow(ctx,
		`INSERT INTO student_exams (student_id, exam_id, status, started_at, total_score)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		a.StudentID, a.ExamID, a.Status, a.StartedAt, a.TotalScore,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

// CompleteAttempt marks the attempt submitted with its final score.
func (g *Gateway) CompleteAttempt(ctx context.Context, attemptID int64, totalScore int, submittedAt time.Time) error {
	tag, err := g.pool.Exec(ctx,
		`UPDATE student_exams
		 SET status = $1, total_score = $2, submitted_at = $3
		 WHERE id = $4`,
		model.AttemptStatusSubmitted, totalScore, submittedAt, attemptID)
	if err != nil {
		return fmt.Errorf("complete attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// BulkInsertAnswers persists all answer rows of one submission in a single
// UNNEST insert.
func (g *Gateway) BulkInsertAnswers(ctx context.Context, answers []model.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	n := len(answers)
	attemptIDs := make([]int64, 0, n)
	questionIDs := make([]int64, 0, n)
	optionIDs := make([]int64, 0, n)
	marks := make([]int, 0, n)
	for _, a := range answers {
		attemptIDs = append(attemptIDs, a.StudentExamID)
		questionIDs = append(questionIDs, a.QuestionID)
		optionIDs = append(optionIDs, a.SelectedOptionID)
		marks = append(marks, a.MarksObtained)
	}

	_, err := g.pool.Exec(ctx,
		`INSERT INTO student_answers (student_exam_id, question_id, selected_option_id, marks_obtained)
		 SELECT * FROM UNNEST($1::bigint[], $2::bigint[], $3::bigint[], $4::int[])`,
		attemptIDs, questionIDs, optionIDs, marks)
	if err != nil {
		return fmt.Errorf("bulk insert answers: %w", err)
	}
	return nil
}

// ListResults returns aggregated result rows for an exam report.
func (g *Gateway) ListResults(ctx context.Context, examID int64) ([]gateway.ResultRow, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT se.id, s.name, s.roll_num, e.exam_name, e.total_marks,
		        se.total_score, se.status, se.started_at, se.submitted_at
		 FROM student_exams se
		 JOIN students s ON s.id = se.student_id
		 JOIN exams e ON e.id = se.exam_id
		 WHERE se.exam_id = $1
		 ORDER BY se.started_at DESC`, examID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []gateway.ResultRow
	for rows.Next() {
		var r gateway.ResultRow
		if err := rows.Scan(&r.StudentExamID, &r.StudentName, &r.RollNum, &r.ExamName,
			&r.TotalMarks, &r.TotalScore, &r.Status, &r.StartedAt, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
