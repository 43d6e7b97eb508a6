package dto

import "github.com/google/uuid"

type CreateAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

type AnswerResponse struct {
	ID         uuid.UUID         `json:"id"`
	QuestionID uuid.UUID         `json:"question_id"`
	Author     AuthorResponse    `json:"author"`
	Content    string            `json:"content"`
	Accepted   bool              `json:"accepted"`
	VoteCount  int64             `json:"vote_count"`
	UserVote   *string           `json:"user_vote,omitempty"`
	Comments   []CommentResponse `json:"comments"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

type AcceptResponse struct {
	Status   string    `json:"status"`
	AnswerID uuid.UUID `json:"answer_id"`
}
