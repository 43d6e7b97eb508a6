package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stackit.dev/forum/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
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

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestQuestion(t *testing.T, db *gorm.DB, author *model.User, title string) *model.Question {
	t.Helper()
	question := &model.Question{
		Title:       title,
		Slug:        fmt.Sprintf("%s-%s", title, uuid.NewString()[:8]),
		Description: "a description of " + title,
		AuthorID:    author.ID,
	}
	require.NoError(t, db.Create(question).Error)
	return question
}

func createTestAnswer(t *testing.T, db *gorm.DB, question *model.Question, author *model.User, content string) *model.Answer {
	t.Helper()
	answer := &model.Answer{
		QuestionID: question.ID,
		AuthorID:   author.ID,
		Content:    content,
	}
	require.NoError(t, db.Create(answer).Error)
	return answer
}
