package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/pkg/apperror"
)

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, tag *model.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error)
	FindAll(ctx context.Context, search string) ([]model.Tag, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) Delete(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM question_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(tag).Error
	})
}

func (r *tagRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (r *tagRepository) FindAll(ctx context.Context, search string) ([]model.Tag, error) {
	var tags []model.Tag
	query := r.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	err := query.Find(&tags).Error
	return tags, err
}

func (r *tagRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Count(&count).Error
	return count > 0, err
}
