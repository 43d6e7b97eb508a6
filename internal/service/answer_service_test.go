package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/pkg/apperror"
)

func TestCreateAnswer_NotifiesQuestionAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "Needs an answer")

	resp, err := env.answers.CreateAnswer(ctx, answerer.ID, question.ID, dto.CreateAnswerRequest{Content: "here you go"})
	require.NoError(t, err)
	assert.Equal(t, "here you go", resp.Content)
	assert.False(t, resp.Accepted)
	assert.Equal(t, "answerer@example.com", resp.Author.Email)

	got := env.notificationsFor(t, asker.ID)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationAnswer, got[0].Type)
}

func TestCreateAnswer_UnknownQuestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	answerer := env.createUser(t, "answerer@example.com")

	_, err := env.answers.CreateAnswer(ctx, answerer.ID, uuid.New(), dto.CreateAnswerRequest{Content: "orphan"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestToggleAccept_OnlyQuestionOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "Ownership check")
	answer := env.createAnswer(t, question, answerer, "an answer")

	_, err := env.answers.ToggleAccept(ctx, answerer.ID, question.ID, answer.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestToggleAccept_WrongQuestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	question := env.createQuestion(t, asker, "Right question")
	other := env.createQuestion(t, asker, "Wrong question")
	answer := env.createAnswer(t, question, asker, "an answer")

	_, err := env.answers.ToggleAccept(ctx, asker.ID, other.ID, answer.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestToggleAccept_AcceptAndUnaccept(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "Toggled acceptance")
	answer := env.createAnswer(t, question, answerer, "an answer")

	resp, err := env.answers.ToggleAccept(ctx, asker.ID, question.ID, answer.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, answer.ID, resp.AnswerID)

	accepted, err := env.answerRepo.AcceptedAnswer(ctx, question.ID)
	require.NoError(t, err)
	require.NotNil(t, accepted)
	assert.Equal(t, answer.ID, accepted.ID)

	got := env.notificationsFor(t, answerer.ID)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationAccept, got[0].Type)

	// Toggling again unaccepts and notifies nobody.
	resp, err = env.answers.ToggleAccept(ctx, asker.ID, question.ID, answer.ID)
	require.NoError(t, err)
	assert.Equal(t, "unaccepted", resp.Status)

	accepted, err = env.answerRepo.AcceptedAnswer(ctx, question.ID)
	require.NoError(t, err)
	assert.Nil(t, accepted)

	assert.Len(t, env.notificationsFor(t, answerer.ID), 1)
}

func TestToggleAccept_MovingAcceptanceUnacceptsSibling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	first := env.createUser(t, "first@example.com")
	second := env.createUser(t, "second@example.com")
	question := env.createQuestion(t, asker, "Pick one")
	answerA := env.createAnswer(t, question, first, "answer A")
	answerB := env.createAnswer(t, question, second, "answer B")

	_, err := env.answers.ToggleAccept(ctx, asker.ID, question.ID, answerA.ID)
	require.NoError(t, err)
	_, err = env.answers.ToggleAccept(ctx, asker.ID, question.ID, answerB.ID)
	require.NoError(t, err)

	var acceptedCount int64
	require.NoError(t, env.db.Model(&model.Answer{}).
		Where("question_id = ? AND accepted = ?", question.ID, true).
		Count(&acceptedCount).Error)
	assert.Equal(t, int64(1), acceptedCount)

	accepted, err := env.answerRepo.AcceptedAnswer(ctx, question.ID)
	require.NoError(t, err)
	require.NotNil(t, accepted)
	assert.Equal(t, answerB.ID, accepted.ID)
}

func TestAnswerSave_HookUnacceptsSiblingsDirectly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	question := env.createQuestion(t, asker, "Hook level invariant")
	answerA := env.createAnswer(t, question, asker, "answer A")
	answerB := env.createAnswer(t, question, asker, "answer B")

	answerA.Accepted = true
	require.NoError(t, env.answerRepo.Save(ctx, answerA))

	// A write that skips the service layer still keeps the invariant.
	answerB.Accepted = true
	require.NoError(t, env.answerRepo.Save(ctx, answerB))

	var acceptedIDs []uuid.UUID
	require.NoError(t, env.db.Model(&model.Answer{}).
		Where("question_id = ? AND accepted = ?", question.ID, true).
		Pluck("id", &acceptedIDs).Error)
	require.Len(t, acceptedIDs, 1)
	assert.Equal(t, answerB.ID, acceptedIDs[0])
}

func TestGetAnswers_AcceptedFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "Ordering")
	env.createAnswer(t, question, answerer, "first answer")
	late := env.createAnswer(t, question, answerer, "late but right")

	_, err := env.answers.ToggleAccept(ctx, asker.ID, question.ID, late.ID)
	require.NoError(t, err)

	answers, err := env.answers.GetAnswers(ctx, question.ID, nil)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, late.ID, answers[0].ID)
	assert.True(t, answers[0].Accepted)
}

func TestUpdateAnswer_AuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "Edit rights")
	answer := env.createAnswer(t, question, answerer, "v1")

	_, err := env.answers.UpdateAnswer(ctx, asker.ID, answer.ID, dto.UpdateAnswerRequest{Content: "hijacked"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := env.answers.UpdateAnswer(ctx, answerer.ID, answer.ID, dto.UpdateAnswerRequest{Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", resp.Content)
}

func TestDeleteAnswer_RemovesComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "Delete cascade")
	answer := env.createAnswer(t, question, answerer, "to be deleted")

	comment := &model.Comment{AnswerID: answer.ID, AuthorID: asker.ID, Content: "on a doomed answer"}
	require.NoError(t, env.db.Create(comment).Error)

	require.NoError(t, env.answers.DeleteAnswer(ctx, answerer.ID, answer.ID))

	var comments int64
	require.NoError(t, env.db.Model(&model.Comment{}).Count(&comments).Error)
	assert.Zero(t, comments)
}
