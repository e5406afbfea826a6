// Package gateway defines the contract with the remote relational data
// service that owns the durable exam, student, and attempt records. Every
// call is fallible and callers must never assume success.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/examroom/examroom-backend/internal/model"
)

// ErrNotFound is returned when the requested record does not exist upstream.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a uniqueness constraint rejects a create.
var ErrConflict = errors.New("record already exists")

// ResultRow is one aggregated result line for an exam report: the attempt
// joined with its student and exam.
type ResultRow struct {
	StudentExamID int64               `json:"student_exam_id"`
	StudentName   string              `json:"student_name"`
	RollNum       string              `json:"roll_num"`
	ExamName      string              `json:"exam_name"`
	TotalMarks    int                 `json:"total_marks"`
	TotalScore    int                 `json:"total_score"`
	Status        model.AttemptStatus `json:"status"`
	StartedAt     time.Time           `json:"started_at"`
	SubmittedAt   *time.Time          `json:"submitted_at,omitempty"`
}

// Gateway is the remote data service boundary. The PostgreSQL implementation
// lives in the postgres subpackage; tests substitute in-memory fakes.
type Gateway interface {
	// ListExams returns summary entries only (no question trees).
	ListExams(ctx context.Context) ([]model.Exam, error)
	// GetExam returns one exam with its full question/option tree, or
	// ErrNotFound.
	GetExam(ctx context.Context, examID int64) (*model.Exam, error)
	// CreateExam inserts an exam with nested questions and options and
	// fills in the generated ids.
	CreateExam(ctx context.Context, exam *model.Exam) error
	// DeleteExam removes the exam and its dependent records, or ErrNotFound.
	DeleteExam(ctx context.Context, examID int64) error

	// FindStudentByName looks a student up by display name, or ErrNotFound.
	FindStudentByName(ctx context.Context, name string) (*model.Student, error)
	// CreateStudent inserts a student record and fills in the generated id.
	CreateStudent(ctx context.Context, student *model.Student) error

	// CreateAttempt inserts a student_exam record and fills in the
	// generated id.
	CreateAttempt(ctx context.Context, attempt *model.Attempt) error
	// CompleteAttempt marks an attempt submitted with its final score.
	CompleteAttempt(ctx context.Context, attemptID int64, totalScore int, submittedAt time.Time) error
	// BulkInsertAnswers persists the per-question answer rows of one
	// submission in a single statement.
	BulkInsertAnswers(ctx context.Context, answers []model.StudentAnswer) error

	// ListResults returns the aggregated result rows for an exam, newest
	// attempt first. Read directly by the reporting surface, not mediated
	// by the session store.
	ListResults(ctx context.Context, examID int64) ([]ResultRow, error)
}
