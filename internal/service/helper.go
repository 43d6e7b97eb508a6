package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

var slugInvalidChars = regexp.MustCompile("[^a-z0-9 ]+")

func slugify(s string) string {
	slug := strings.ToLower(s)
	// Remove invalid chars
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	// Replace spaces with hyphens
	slug = strings.ReplaceAll(slug, " ", "-")
	// Trim hyphens
	return strings.Trim(slug, "-")
}

// disambiguateSlug appends a short random suffix for colliding titles.
func disambiguateSlug(slug string) string {
	return fmt.Sprintf("%s-%s", slug, uuid.New().String()[:8])
}

func toAuthorResponse(u model.User) dto.AuthorResponse {
	return dto.AuthorResponse{
		ID:    u.ID,
		Email: u.Email,
	}
}

func toTagResponse(t model.Tag) dto.TagResponse {
	return dto.TagResponse{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
	}
}

func toTagResponses(tags []model.Tag) []dto.TagResponse {
	out := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagResponse(t))
	}
	return out
}

func toCommentResponse(c model.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		AnswerID:  c.AnswerID,
		Author:    toAuthorResponse(c.Author),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(timeLayout),
		UpdatedAt: c.UpdatedAt.Format(timeLayout),
	}
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
