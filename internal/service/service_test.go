package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/internal/repository"
)

// testEnv wires the full service stack against an in-memory database,
// without redis or meilisearch. Individual tests that need redis spin up
// miniredis themselves.
type testEnv struct {
	db *gorm.DB

	users         repository.UserRepository
	notifications NotificationService
	dispatcher    NotificationDispatcher
	votes         VoteService
	tags          TagService
	questions     QuestionService
	answers       AnswerService
	comments      CommentService

	answerRepo       repository.AnswerRepository
	questionRepo     repository.QuestionRepository
	notificationRepo repository.NotificationRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Tag{},
		&model.Question{},
		&model.Answer{},
		&model.Comment{},
		&model.Notification{},
	))

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationSvc := NewNotificationService(notificationRepo, nil)
	dispatcher := NewNotificationDispatcher(notificationSvc, userRepo)
	searchSvc := NewSearchService(nil)
	viewSvc := NewViewService(nil, questionRepo)

	return &testEnv{
		db:            db,
		users:         userRepo,
		notifications: notificationSvc,
		dispatcher:    dispatcher,
		votes:         NewVoteService(voteRepo),
		tags:          NewTagService(tagRepo),
		questions: NewQuestionService(
			questionRepo, answerRepo, tagRepo, userRepo, voteRepo,
			viewSvc, searchSvc, nil,
			time.Second, time.Minute,
		),
		answers: NewAnswerService(
			answerRepo, questionRepo, userRepo, voteRepo,
			dispatcher, nil, time.Second,
		),
		comments: NewCommentService(
			commentRepo, answerRepo, questionRepo, userRepo,
			dispatcher, nil, time.Second,
		),
		answerRepo:       answerRepo,
		questionRepo:     questionRepo,
		notificationRepo: notificationRepo,
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createQuestion(t *testing.T, author *model.User, title string) *model.Question {
	t.Helper()
	question := &model.Question{
		Title:       title,
		Slug:        disambiguateSlug(slugify(title)),
		Description: "a description of " + title,
		AuthorID:    author.ID,
		Author:      *author,
	}
	require.NoError(t, e.db.Create(question).Error)
	return question
}

func (e *testEnv) createAnswer(t *testing.T, question *model.Question, author *model.User, content string) *model.Answer {
	t.Helper()
	answer := &model.Answer{
		QuestionID: question.ID,
		AuthorID:   author.ID,
		Content:    content,
	}
	require.NoError(t, e.db.Create(answer).Error)
	return answer
}

func uuidMust(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id
}

func withTitle(title string) dto.CreateQuestionRequest {
	return dto.CreateQuestionRequest{Title: title, Description: "details"}
}

func (e *testEnv) notificationsFor(t *testing.T, recipientID uuid.UUID) []model.Notification {
	t.Helper()
	var out []model.Notification
	require.NoError(t, e.db.
		Where("recipient_id = ?", recipientID).
		Order("created_at ASC").
		Find(&out).Error)
	return out
}
