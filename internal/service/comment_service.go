package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/internal/repository"
	"stackit.dev/forum/pkg/apperror"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID, questionID, answerID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComments(ctx context.Context, questionID, answerID uuid.UUID) ([]dto.CommentResponse, error)
	UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo  repository.CommentRepository
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	dispatcher   NotificationDispatcher
	redisClient  *redis.Client

	rateLimitGlobal time.Duration
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	dispatcher NotificationDispatcher,
	redisClient *redis.Client,
	rateLimitGlobal time.Duration,
) CommentService {
	return &commentService{
		commentRepo:     commentRepo,
		answerRepo:      answerRepo,
		questionRepo:    questionRepo,
		userRepo:        userRepo,
		dispatcher:      dispatcher,
		redisClient:     redisClient,
		rateLimitGlobal: rateLimitGlobal,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, questionID, answerID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, ScopeGlobal, s.rateLimitGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, ScopeGlobal)
		return nil, fmt.Errorf("%w: you are doing that too fast, wait %.0f seconds", apperror.ErrRateLimitExceeded, ttl.Seconds())
	}

	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer.QuestionID != questionID {
		return nil, apperror.ErrNotFound
	}

	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		AnswerID: answer.ID,
		AuthorID: author.ID,
		Content:  req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author

	// Comment and mention notifications fan out after the write; each one
	// is independent and best-effort.
	s.dispatcher.CommentCreated(ctx, &answer.Question, answer, comment)

	resp := toCommentResponse(*comment)
	return &resp, nil
}

func (s *commentService) GetComments(ctx context.Context, questionID, answerID uuid.UUID) ([]dto.CommentResponse, error) {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer.QuestionID != questionID {
		return nil, apperror.ErrNotFound
	}

	comments, err := s.commentRepo.ListByAnswer(ctx, answerID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out, nil
}

func (s *commentService) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, fmt.Errorf("%w: only the comment author can edit it", apperror.ErrForbidden)
	}

	comment.Content = req.Content
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}

	resp := toCommentResponse(*comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return fmt.Errorf("%w: only the comment author can delete it", apperror.ErrForbidden)
	}

	return s.commentRepo.Delete(ctx, comment)
}
