package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/model"
)

// ListExams returns summary rows only; question trees are loaded on demand
// via GetExam.
func (g *Gateway) ListExams(ctx context.Context) ([]model.Exam, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id, exam_name, exam_duration, total_marks, created_at
		 FROM exams
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Name, &e.DurationSeconds, &e.TotalMarks, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// GetExam returns one exam with its full question/option tree.
func (g *Gateway) GetExam(ctx context.Context, examID int64) (*model.Exam, error) {
	e := &model.Exam{}
	err := g.pool.QueryRow(ctx,
		`SELECT id, exam_name, exam_duration, total_marks, created_at
		 FROM exams WHERE id = $1`, examID,
	).Scan(&e.ID, &e.Name, &e.DurationSeconds, &e.TotalMarks, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gateway.ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	// One join for the whole tree; questions and options keep insertion order.
	rows, err := g.pool.Query(ctx,
		`SELECT q.id, q.exam_id, q.question_text, q.marks,
		        o.id, o.question_id, o.option_text, o.is_correct
		 FROM questions q
		 JOIN options o ON o.question_id = q.id
		 WHERE q.exam_id = $1
		 ORDER BY q.id, o.id`, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam questions: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]int) // question id -> index in e.Questions
	for rows.Next() {
		var q model.Question
		var o model.Option
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Text, &q.Marks,
			&o.ID, &o.QuestionID, &o.Text, &o.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		idx, ok := byID[q.ID]
		if !ok {
			e.Questions = append(e.Questions, q)
			idx = len(e.Questions) - 1
			byID[q.ID] = idx
		}
		e.Questions[idx].Options = append(e.Questions[idx].Options, o)
	}
	return e, rows.Err()
}

// CreateExam inserts the exam with its nested questions and options in one
// transaction. Total marks is derived from the question marks.
func (g *Gateway) CreateExam(ctx context.Context, exam *model.Exam) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	total := 0
	for _, q := range exam.Questions {
		total += q.Marks
	}
	exam.TotalMarks = total

	err = tx.QueryRow(ctx,
		`INSERT INTO exams (exam_name, exam_duration, total_marks)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		exam.Name, exam.DurationSeconds, exam.TotalMarks,
	).Scan(&exam.ID, &exam.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}

	for i := range exam.Questions {
		q := &exam.Questions[i]
		q.ExamID = exam.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO questions (exam_id, question_text, marks)
			 VALUES ($1, $2, $3) RETURNING id`,
			q.ExamID, q.Text, q.Marks,
		).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		for j := range q.Options {
			o := &q.Options[j]
			o.QuestionID = q.ID
			err = tx.QueryRow(ctx,
				`INSERT INTO options (question_id, option_text, is_correct)
				 VALUES ($1, $2, $3) RETURNING id`,
				o.QuestionID, o.Text, o.IsCorrect,
			).Scan(&o.ID)
			if err != nil {
				return fmt.Errorf("insert option: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

// DeleteExam removes the exam; dependent questions, options, attempts and
// answers go with it via ON DELETE CASCADE.
func (g *Gateway) DeleteExam(ctx context.Context, examID int64) error {
	tag, err := g.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, examID)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
