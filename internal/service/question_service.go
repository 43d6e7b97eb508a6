package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/internal/repository"
	"stackit.dev/forum/pkg/apperror"
)

type QuestionService interface {
	CreateQuestion(ctx context.Context, userID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetQuestions(ctx context.Context, currentUserID *uuid.UUID, filter dto.QuestionFilter) (*dto.PaginatedQuestionResponse, error)
	GetQuestionBySlug(ctx context.Context, slug string, currentUserID *uuid.UUID) (*dto.QuestionResponse, error)
	GetQuestionByID(ctx context.Context, id uuid.UUID, currentUserID *uuid.UUID) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, userID, questionID uuid.UUID, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	tagRepo      repository.TagRepository
	userRepo     repository.UserRepository
	voteRepo     repository.VoteRepository
	viewService  ViewService
	search       SearchService
	redisClient  *redis.Client

	rateLimitGlobal   time.Duration
	rateLimitQuestion time.Duration
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
	voteRepo repository.VoteRepository,
	viewService ViewService,
	search SearchService,
	redisClient *redis.Client,
	rateLimitGlobal, rateLimitQuestion time.Duration,
) QuestionService {
	return &questionService{
		questionRepo:      questionRepo,
		answerRepo:        answerRepo,
		tagRepo:           tagRepo,
		userRepo:          userRepo,
		voteRepo:          voteRepo,
		viewService:       viewService,
		search:            search,
		redisClient:       redisClient,
		rateLimitGlobal:   rateLimitGlobal,
		rateLimitQuestion: rateLimitQuestion,
	}
}

func (s *questionService) CreateQuestion(ctx context.Context, userID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := s.checkCreateRateLimit(ctx, userID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		Title:       req.Title,
		Slug:        s.generateUniqueSlug(ctx, req.Title),
		Description: req.Description,
		AuthorID:    author.ID,
		Tags:        tags,
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}
	question.Author = *author

	if s.search != nil {
		if err := s.search.IndexQuestion(question); err != nil {
			log.Printf("failed to index question %s: %v", question.ID, err)
		}
	}

	resp := s.buildQuestionResponse(ctx, question, &userID)
	return &resp, nil
}

func (s *questionService) GetQuestions(ctx context.Context, currentUserID *uuid.UUID, filter dto.QuestionFilter) (*dto.PaginatedQuestionResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	questions, total, err := s.questionRepo.FindAll(ctx, repository.QuestionFilter{
		Search:  filter.Search,
		OrderBy: filter.OrderBy,
		Desc:    filter.Dir != "asc",
		Offset:  (filter.Page - 1) * filter.Limit,
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		data = append(data, s.buildQuestionResponse(ctx, &questions[i], currentUserID))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &dto.PaginatedQuestionResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

func (s *questionService) GetQuestionBySlug(ctx context.Context, slug string, currentUserID *uuid.UUID) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, question, currentUserID)
}

func (s *questionService) GetQuestionByID(ctx context.Context, id uuid.UUID, currentUserID *uuid.UUID) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, question, currentUserID)
}

func (s *questionService) detail(ctx context.Context, question *model.Question, currentUserID *uuid.UUID) (*dto.QuestionResponse, error) {
	// One view per detail request; buffered when redis is around.
	if err := s.viewService.RecordView(ctx, question.ID); err != nil {
		log.Printf("failed to record view for question %s: %v", question.ID, err)
	} else {
		question.Views++
	}

	resp := s.buildQuestionResponse(ctx, question, currentUserID)
	return &resp, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, userID, questionID uuid.UUID, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != userID {
		return nil, fmt.Errorf("%w: only the question author can edit it", apperror.ErrForbidden)
	}

	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	question.Title = req.Title
	question.Description = req.Description
	question.Tags = tags
	// The slug stays stable across edits.

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexQuestion(question); err != nil {
			log.Printf("failed to reindex question %s: %v", question.ID, err)
		}
	}

	resp := s.buildQuestionResponse(ctx, question, &userID)
	return &resp, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question.AuthorID != userID {
		return fmt.Errorf("%w: only the question author can delete it", apperror.ErrForbidden)
	}

	if err := s.questionRepo.Delete(ctx, question); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteQuestion(question.ID.String()); err != nil {
			log.Printf("failed to remove question %s from index: %v", question.ID, err)
		}
	}

	return nil
}

func (s *questionService) resolveTags(ctx context.Context, tagIDs []string) ([]model.Tag, error) {
	if len(tagIDs) == 0 {
		// Non-nil so an update can clear the tag set.
		return []model.Tag{}, nil
	}

	ids := make([]uuid.UUID, 0, len(tagIDs))
	for _, raw := range tagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid tag id %q", apperror.ErrInvalidInput, raw)
		}
		ids = append(ids, id)
	}

	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, fmt.Errorf("%w: one or more tags do not exist", apperror.ErrInvalidInput)
	}

	return tags, nil
}

func (s *questionService) generateUniqueSlug(ctx context.Context, title string) string {
	slug := slugify(title)

	exists, err := s.questionRepo.SlugExists(ctx, slug)
	if err != nil || exists || slug == "" {
		slug = disambiguateSlug(slug)
	}
	return slug
}

func (s *questionService) checkCreateRateLimit(ctx context.Context, userID uuid.UUID) error {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, ScopeGlobal, s.rateLimitGlobal)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, ScopeGlobal)
		return fmt.Errorf("%w: you are doing that too fast, wait %.0f seconds", apperror.ErrRateLimitExceeded, ttl.Seconds())
	}

	allowed, err = CheckAndSetRateLimit(ctx, s.redisClient, userID, ScopeQuestion, s.rateLimitQuestion)
	if err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, userID, ScopeGlobal) // Rollback global
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ClearRateLimit(ctx, s.redisClient, userID, ScopeGlobal) // Rollback global
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, ScopeQuestion)
		return fmt.Errorf("%w: you can only ask one question every %.0f seconds, wait %.0f seconds",
			apperror.ErrRateLimitExceeded, s.rateLimitQuestion.Seconds(), ttl.Seconds())
	}

	return nil
}

// buildQuestionResponse derives vote_count, answer_count and is_answered on
// every read; none of them is ever stored.
func (s *questionService) buildQuestionResponse(ctx context.Context, question *model.Question, currentUserID *uuid.UUID) dto.QuestionResponse {
	voteCount, err := s.voteRepo.Count(ctx, model.Question{}, question.ID)
	if err != nil {
		log.Printf("failed to count votes for question %s: %v", question.ID, err)
	}

	answerCount, err := s.answerRepo.CountByQuestion(ctx, question.ID)
	if err != nil {
		log.Printf("failed to count answers for question %s: %v", question.ID, err)
	}

	accepted, err := s.answerRepo.AcceptedAnswer(ctx, question.ID)
	if err != nil {
		log.Printf("failed to resolve accepted answer for question %s: %v", question.ID, err)
	}

	var userVote *string
	if currentUserID != nil {
		if vote, err := s.voteRepo.UserVote(ctx, model.Question{}, question.ID, *currentUserID); err == nil && vote != "" {
			userVote = &vote
		}
	}

	return dto.QuestionResponse{
		ID:          question.ID,
		Title:       question.Title,
		Slug:        question.Slug,
		Description: question.Description,
		Author:      toAuthorResponse(question.Author),
		Tags:        toTagResponses(question.Tags),
		Views:       question.Views,
		VoteCount:   voteCount,
		AnswerCount: answerCount,
		IsAnswered:  accepted != nil,
		UserVote:    userVote,
		CreatedAt:   formatTime(question.CreatedAt),
		UpdatedAt:   formatTime(question.UpdatedAt),
	}
}
