package dto

import "github.com/google/uuid"

type NotificationResponse struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	Message    string         `json:"message"`
	Sender     AuthorResponse `json:"sender"`
	QuestionID *uuid.UUID     `json:"question_id,omitempty"`
	AnswerID   *uuid.UUID     `json:"answer_id,omitempty"`
	CommentID  *uuid.UUID     `json:"comment_id,omitempty"`
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

type NotificationFilter struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
