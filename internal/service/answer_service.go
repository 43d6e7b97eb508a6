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

type AnswerService interface {
	CreateAnswer(ctx context.Context, userID, questionID uuid.UUID, req dto.CreateAnswerRequest) (*dto.AnswerResponse, error)
	GetAnswers(ctx context.Context, questionID uuid.UUID, currentUserID *uuid.UUID) ([]dto.AnswerResponse, error)
	ToggleAccept(ctx context.Context, userID, questionID, answerID uuid.UUID) (*dto.AcceptResponse, error)
	UpdateAnswer(ctx context.Context, userID, answerID uuid.UUID, req dto.UpdateAnswerRequest) (*dto.AnswerResponse, error)
	DeleteAnswer(ctx context.Context, userID, answerID uuid.UUID) error
}

type answerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	voteRepo     repository.VoteRepository
	dispatcher   NotificationDispatcher
	redisClient  *redis.Client

	rateLimitGlobal time.Duration
}

func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	voteRepo repository.VoteRepository,
	dispatcher NotificationDispatcher,
	redisClient *redis.Client,
	rateLimitGlobal time.Duration,
) AnswerService {
	return &answerService{
		answerRepo:      answerRepo,
		questionRepo:    questionRepo,
		userRepo:        userRepo,
		voteRepo:        voteRepo,
		dispatcher:      dispatcher,
		redisClient:     redisClient,
		rateLimitGlobal: rateLimitGlobal,
	}
}

func (s *answerService) CreateAnswer(ctx context.Context, userID, questionID uuid.UUID, req dto.CreateAnswerRequest) (*dto.AnswerResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, ScopeGlobal, s.rateLimitGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, ScopeGlobal)
		return nil, fmt.Errorf("%w: you are doing that too fast, wait %.0f seconds", apperror.ErrRateLimitExceeded, ttl.Seconds())
	}

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		QuestionID: question.ID,
		AuthorID:   author.ID,
		Content:    req.Content,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, err
	}
	answer.Author = *author

	// The write has succeeded; notification delivery is best-effort.
	s.dispatcher.AnswerCreated(ctx, question, answer)

	resp := s.buildAnswerResponse(ctx, answer, &userID)
	return &resp, nil
}

func (s *answerService) GetAnswers(ctx context.Context, questionID uuid.UUID, currentUserID *uuid.UUID) ([]dto.AnswerResponse, error) {
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AnswerResponse, 0, len(answers))
	for i := range answers {
		out = append(out, s.buildAnswerResponse(ctx, &answers[i], currentUserID))
	}
	return out, nil
}

func (s *answerService) ToggleAccept(ctx context.Context, userID, questionID, answerID uuid.UUID) (*dto.AcceptResponse, error) {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer.QuestionID != questionID {
		return nil, apperror.ErrNotFound
	}
	if answer.Question.AuthorID != userID {
		return nil, fmt.Errorf("%w: only the question owner can accept an answer", apperror.ErrForbidden)
	}

	wasAccepted := answer.Accepted
	answer.Accepted = !answer.Accepted

	// Save goes through the model hook: accepting this answer unaccepts
	// every sibling in the same transaction.
	if err := s.answerRepo.Save(ctx, answer); err != nil {
		return nil, err
	}

	status := "unaccepted"
	if answer.Accepted {
		status = "accepted"
	}

	if !wasAccepted && answer.Accepted {
		s.dispatcher.AnswerAccepted(ctx, &answer.Question, answer)
	}
	// true→false notifies nobody.

	return &dto.AcceptResponse{
		Status:   status,
		AnswerID: answer.ID,
	}, nil
}

func (s *answerService) UpdateAnswer(ctx context.Context, userID, answerID uuid.UUID, req dto.UpdateAnswerRequest) (*dto.AnswerResponse, error) {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer.AuthorID != userID {
		return nil, fmt.Errorf("%w: only the answer author can edit it", apperror.ErrForbidden)
	}

	answer.Content = req.Content
	if err := s.answerRepo.Save(ctx, answer); err != nil {
		return nil, err
	}

	resp := s.buildAnswerResponse(ctx, answer, &userID)
	return &resp, nil
}

func (s *answerService) DeleteAnswer(ctx context.Context, userID, answerID uuid.UUID) error {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return err
	}
	if answer.AuthorID != userID {
		return fmt.Errorf("%w: only the answer author can delete it", apperror.ErrForbidden)
	}

	return s.answerRepo.Delete(ctx, answer)
}

func (s *answerService) buildAnswerResponse(ctx context.Context, answer *model.Answer, currentUserID *uuid.UUID) dto.AnswerResponse {
	voteCount, _ := s.voteRepo.Count(ctx, model.Answer{}, answer.ID)

	var userVote *string
	if currentUserID != nil {
		if vote, err := s.voteRepo.UserVote(ctx, model.Answer{}, answer.ID, *currentUserID); err == nil && vote != "" {
			userVote = &vote
		}
	}

	comments := make([]dto.CommentResponse, 0, len(answer.Comments))
	for _, c := range answer.Comments {
		comments = append(comments, toCommentResponse(c))
	}

	return dto.AnswerResponse{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		Author:     toAuthorResponse(answer.Author),
		Content:    answer.Content,
		Accepted:   answer.Accepted,
		VoteCount:  voteCount,
		UserVote:   userVote,
		Comments:   comments,
		CreatedAt:  formatTime(answer.CreatedAt),
		UpdatedAt:  formatTime(answer.UpdatedAt),
	}
}
