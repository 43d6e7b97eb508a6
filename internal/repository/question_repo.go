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

const (
	questionVoteCountExpr = "((SELECT COUNT(*) FROM question_upvoters qu WHERE qu.question_id = questions.id) - " +
		"(SELECT COUNT(*) FROM question_downvoters qd WHERE qd.question_id = questions.id))"
	questionAnswerCountExpr = "(SELECT COUNT(*) FROM answers a WHERE a.question_id = questions.id)"
)

type QuestionFilter struct {
	Search  string
	OrderBy string // created_at, vote_count, answer_count, views
	Desc    bool
	Offset  int
	Limit   int
}

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	FindBySlug(ctx context.Context, slug string) (*model.Question, error)
	FindAll(ctx context.Context, filter QuestionFilter) ([]model.Question, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID, by int) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(question).Error; err != nil {
			return err
		}
		// Save upserts associations but never removes them; the join
		// table has to be replaced wholesale.
		return tx.Model(question).Association("Tags").Replace(question.Tags)
	})
}

func (r *questionRepository) Delete(ctx context.Context, question *model.Question) error {
	// Answers, comments and vote sets go with the question.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answerIDs []uuid.UUID
		if err := tx.Model(&model.Answer{}).
			Where("question_id = ?", question.ID).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}

		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM answer_upvoters WHERE answer_id IN ?", answerIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM answer_downvoters WHERE answer_id IN ?", answerIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", question.ID).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
		}

		for _, join := range []string{"question_upvoters", "question_downvoters", "question_tags"} {
			if err := tx.Exec("DELETE FROM "+join+" WHERE question_id = ?", question.ID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(question).Error
	})
}

func (r *questionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *questionRepository) FindBySlug(ctx context.Context, slug string) (*model.Question, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *questionRepository) findOne(ctx context.Context, cond string, arg any) (*model.Question, error) {
	var question model.Question
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where(cond, arg).
		First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAll(ctx context.Context, filter QuestionFilter) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Question{}).
		Preload("Author").
		Preload("Tags")

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(questions.title) LIKE ? OR LOWER(questions.description) LIKE ? OR questions.id IN "+
				"(SELECT qt.question_id FROM question_tags qt JOIN tags t ON t.id = qt.tag_id WHERE LOWER(t.name) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}
	switch filter.OrderBy {
	case "vote_count":
		query = query.Order(questionVoteCountExpr + " " + dir)
	case "answer_count":
		query = query.Order(questionAnswerCountExpr + " " + dir)
	case "views":
		query = query.Order("questions.views " + dir)
	case "created_at":
		query = query.Order("questions.created_at " + dir)
	default:
		query = query.Order("questions.created_at DESC")
	}
	// Stable tie-break
	query = query.Order("questions.id DESC")

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *questionRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *questionRepository) IncrementViews(ctx context.Context, id uuid.UUID, by int) error {
	// Lossy under concurrent readers; views are a convenience counter.
	return r.db.WithContext(ctx).Model(&model.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", by)).Error
}
