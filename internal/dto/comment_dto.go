package dto

import "github.com/google/uuid"

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID        uuid.UUID      `json:"id"`
	AnswerID  uuid.UUID      `json:"answer_id"`
	Author    AuthorResponse `json:"author"`
	Content   string         `json:"content"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}
