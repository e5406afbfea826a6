package model

// Option is a selectable answer choice for a question.
type Option struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// CreateOptionRequest is the payload for an option nested in a question create.
type CreateOptionRequest struct {
	Text      string `json:"option_text" binding:"required,min=1,max=500"`
	IsCorrect bool   `json:"is_correct"`
}
