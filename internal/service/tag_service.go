package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/internal/repository"
	"stackit.dev/forum/pkg/apperror"
)

type TagService interface {
	CreateTag(ctx context.Context, req dto.CreateTagRequest) (*dto.TagResponse, error)
	GetTags(ctx context.Context, search string) ([]dto.TagResponse, error)
	GetTag(ctx context.Context, id uuid.UUID) (*dto.TagResponse, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) CreateTag(ctx context.Context, req dto.CreateTagRequest) (*dto.TagResponse, error) {
	exists, err := s.tagRepo.NameExists(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: tag %q already exists", apperror.ErrConflict, req.Name)
	}

	tag := &model.Tag{
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	resp := toTagResponse(*tag)
	return &resp, nil
}

func (s *tagService) GetTags(ctx context.Context, search string) ([]dto.TagResponse, error) {
	tags, err := s.tagRepo.FindAll(ctx, search)
	if err != nil {
		return nil, err
	}
	return toTagResponses(tags), nil
}

func (s *tagService) GetTag(ctx context.Context, id uuid.UUID) (*dto.TagResponse, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTagResponse(*tag)
	return &resp, nil
}

func (s *tagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.tagRepo.Delete(ctx, tag)
}
