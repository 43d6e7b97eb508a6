package dto

import "github.com/google/uuid"

type AuthorResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type VoteResponse struct {
	Status    string `json:"status"`
	VoteCount int64  `json:"vote_count"`
}
