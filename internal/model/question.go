package model

// Question is a scored prompt belonging to exactly one exam.
type Question struct {
	ID      int64    `json:"id"`
	ExamID  int64    `json:"exam_id"`
	Text    string   `json:"question_text"`
	Marks   int      `json:"marks"`
	Options []Option `json:"options"`
}

// CorrectOptionID returns the id of the option flagged correct.
// Authoring is supposed to guarantee exactly one correct option; if none is
// flagged the second return is false and scoring treats every answer as wrong.
// If several are flagged the first wins.
func (q *Question) CorrectOptionID() (int64, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID, true
		}
	}
	return 0, false
}

// CreateQuestionRequest is the payload for a question nested in an exam create.
type CreateQuestionRequest struct {
	Text    string                `json:"question_text" binding:"required,min=1,max=2000"`
	Marks   int                   `json:"marks" binding:"required,min=1,max=100"`
	Options []CreateOptionRequest `json:"options" binding:"required,min=2,dive"`
}
