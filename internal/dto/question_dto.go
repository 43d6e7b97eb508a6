package dto

import "github.com/google/uuid"

type CreateQuestionRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	TagIDs      []string `json:"tag_ids" binding:"omitempty,dive,uuid"`
}

type UpdateQuestionRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	TagIDs      []string `json:"tag_ids" binding:"omitempty,dive,uuid"`
}

type QuestionFilter struct {
	Search  string `form:"search"`
	OrderBy string `form:"order_by" binding:"omitempty,oneof=created_at vote_count answer_count views"`
	Dir     string `form:"dir" binding:"omitempty,oneof=asc desc"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type QuestionResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Author      AuthorResponse `json:"author"`
	Tags        []TagResponse  `json:"tags"`
	Views       int            `json:"views"`
	VoteCount   int64          `json:"vote_count"`
	AnswerCount int64          `json:"answer_count"`
	IsAnswered  bool           `json:"is_answered"`
	UserVote    *string        `json:"user_vote,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type PaginatedQuestionResponse struct {
	Data []QuestionResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}
