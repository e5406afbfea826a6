package model

import "time"

// Exam represents a timed assessment composed of ordered questions.
// Questions is nil for summary entries (catalog list) and populated once the
// full exam tree has been loaded from the gateway.
type Exam struct {
	ID              int64      `json:"id"`
	Name            string     `json:"exam_name"`
	DurationSeconds int        `json:"exam_duration"`
	TotalMarks      int        `json:"total_marks"`
	CreatedAt       time.Time  `json:"created_at"`
	Questions       []Question `json:"questions,omitempty"`
}

// HasQuestions reports whether the exam carries its full question tree.
func (e *Exam) HasQuestions() bool {
	return len(e.Questions) > 0
}

// CreateExamRequest is the payload for creating a new exam with its full
// question/option tree in one request.
type CreateExamRequest struct {
	Name            string                  `json:"exam_name" binding:"required,min=3,max=255"`
	DurationSeconds int                     `json:"exam_duration" binding:"required,min=30,max=14400"`
	Questions       []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}
