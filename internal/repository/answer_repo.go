package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/pkg/apperror"
)

const answerVoteCountExpr = "((SELECT COUNT(*) FROM answer_upvoters au WHERE au.answer_id = answers.id) - " +
	"(SELECT COUNT(*) FROM answer_downvoters ad WHERE ad.answer_id = answers.id))"

type AnswerRepository interface {
	Create(ctx context.Context, answer *model.Answer) error
	Save(ctx context.Context, answer *model.Answer) error
	Delete(ctx context.Context, answer *model.Answer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Answer, error)
	// ListByQuestion returns the question's answers with the accepted one
	// first, then by vote count, then newest first.
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error)
	CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error)
	AcceptedAnswer(ctx context.Context, questionID uuid.UUID) (*model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) Save(ctx context.Context, answer *model.Answer) error {
	// Save goes through the model's BeforeSave hook, which keeps the
	// single-accepted-answer invariant in the same transaction.
	return r.db.WithContext(ctx).Save(answer).Error
}

func (r *answerRepository) Delete(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		for _, join := range []string{"answer_upvoters", "answer_downvoters"} {
			if err := tx.Exec("DELETE FROM "+join+" WHERE answer_id = ?", answer.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(answer).Error
	})
}

func (r *answerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Question").
		Preload("Question.Author").
		First(&answer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Where("question_id = ?", questionID).
		Order("accepted DESC").
		Order(answerVoteCountExpr + " DESC").
		Order("created_at DESC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, err
}

func (r *answerRepository) AcceptedAnswer(ctx context.Context, questionID uuid.UUID) (*model.Answer, error) {
	var answers []model.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ? AND accepted = ?", questionID, true).
		Limit(1).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, nil
	}
	return &answers[0], nil
}
