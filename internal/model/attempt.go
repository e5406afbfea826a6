package model

import "time"

// AttemptStatus enumerates the lifecycle states of an exam attempt.
type AttemptStatus string

const (
	AttemptStatusNotStarted AttemptStatus = "not_started"
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusSubmitted  AttemptStatus = "submitted"
	// AttemptStatusGraded is a declared terminal state carried for forward
	// compatibility. No transition in this codebase produces it.
	AttemptStatusGraded AttemptStatus = "graded"
)

// Attempt is one student's pass at one exam ("student_exam" in the data
// store). The durable record is owned by the gateway; the session store only
// tracks its id alongside the local attempt state.
type Attempt struct {
	ID          int64         `json:"id"`
	StudentID   int64         `json:"student_id"`
	ExamID      int64         `json:"exam_id"`
	Status      AttemptStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	SubmittedAt time.Time     `json:"submitted_at"`
	TotalScore  int           `json:"total_score"`
	CreatedAt   time.Time     `json:"created_at"`
}
