package service

import (
	"context"

	"github.com/google/uuid"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/internal/repository"
)

type VoteService interface {
	ToggleQuestionVote(ctx context.Context, userID, questionID uuid.UUID, dir repository.Direction) (*dto.VoteResponse, error)
	ToggleAnswerVote(ctx context.Context, userID, answerID uuid.UUID, dir repository.Direction) (*dto.VoteResponse, error)
}

type voteService struct {
	voteRepo repository.VoteRepository
}

func NewVoteService(voteRepo repository.VoteRepository) VoteService {
	return &voteService{voteRepo: voteRepo}
}

func (s *voteService) ToggleQuestionVote(ctx context.Context, userID, questionID uuid.UUID, dir repository.Direction) (*dto.VoteResponse, error) {
	return s.toggle(ctx, model.Question{}, questionID, userID, dir)
}

func (s *voteService) ToggleAnswerVote(ctx context.Context, userID, answerID uuid.UUID, dir repository.Direction) (*dto.VoteResponse, error) {
	return s.toggle(ctx, model.Answer{}, answerID, userID, dir)
}

func (s *voteService) toggle(ctx context.Context, v model.Votable, entityID, userID uuid.UUID, dir repository.Direction) (*dto.VoteResponse, error) {
	added, err := s.voteRepo.Toggle(ctx, v, entityID, userID, dir)
	if err != nil {
		return nil, err
	}

	count, err := s.voteRepo.Count(ctx, v, entityID)
	if err != nil {
		return nil, err
	}

	return &dto.VoteResponse{
		Status:    voteStatus(dir, added),
		VoteCount: count,
	}, nil
}

func voteStatus(dir repository.Direction, added bool) string {
	switch {
	case dir == repository.DirectionUp && added:
		return "upvoted"
	case dir == repository.DirectionUp:
		return "upvote removed"
	case added:
		return "downvoted"
	default:
		return "downvote removed"
	}
}
