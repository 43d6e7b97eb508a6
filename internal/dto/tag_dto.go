package dto

import "github.com/google/uuid"

type CreateTagRequest struct {
	Name        string `json:"name" binding:"required,max=30"`
	Description string `json:"description"`
}

type TagFilter struct {
	Search string `form:"search"`
}

type TagResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
}
