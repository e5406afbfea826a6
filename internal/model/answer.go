package model

// StudentAnswer is one per-question answer row persisted at submission time.
// Rows exist only for questions the student actually answered.
type StudentAnswer struct {
	ID               int64 `json:"id"`
	StudentExamID    int64 `json:"student_exam_id"`
	QuestionID       int64 `json:"question_id"`
	SelectedOptionID int64 `json:"selected_option_id"`
	MarksObtained    int   `json:"marks_obtained"`
}

// SubmitAnswerRequest is the payload for recording an answer selection.
type SubmitAnswerRequest struct {
	QuestionID int64 `json:"question_id" binding:"required"`
	OptionID   int64 `json:"option_id" binding:"required"`
}
