package service

import (
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"stackit.dev/forum/internal/model"
)

// SearchService mirrors questions into a Meilisearch index so an external
// search UI can query them. The primary list endpoint still filters in SQL;
// the index is a side channel and every call is nil-safe so the API keeps
// working when Meilisearch is not configured.
type SearchService interface {
	IndexQuestion(question *model.Question) error
	DeleteQuestion(id string) error
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"tags"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("questions").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update questions filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "views"}
	_, err = s.client.Index("questions").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update questions sortable attributes: %v", err)
	}
}

type meiliQuestionDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Slug        string   `json:"slug"`
	Tags        []string `json:"tags"`
	Views       int      `json:"views"`
	CreatedAt   int64    `json:"created_at"`
	AuthorEmail string   `json:"author_email"`
}

func (s *searchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	cleanText = strings.Join(strings.Fields(cleanText), " ")

	return cleanText
}

func (s *searchService) IndexQuestion(question *model.Question) error {
	if s.client == nil {
		return nil
	}

	tagNames := make([]string, 0, len(question.Tags))
	for _, tag := range question.Tags {
		tagNames = append(tagNames, tag.Name)
	}

	doc := meiliQuestionDoc{
		ID:          question.ID.String(),
		Title:       question.Title,
		Description: s.cleanContentForIndex(question.Description),
		Slug:        question.Slug,
		Tags:        tagNames,
		Views:       question.Views,
		CreatedAt:   question.CreatedAt.Unix(),
		AuthorEmail: question.Author.Email,
	}

	task, err := s.client.Index("questions").AddDocuments([]meiliQuestionDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed question %s, task id: %d", question.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteQuestion(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index("questions").DeleteDocument(id)
	return err
}

func strPtr(s string) *string {
	return &s
}
