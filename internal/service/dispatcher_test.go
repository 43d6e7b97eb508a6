package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackit.dev/forum/internal/model"
)

func TestDispatcherAnswerCreated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "How do channels work?")
	answer := env.createAnswer(t, question, answerer, "like queues")
	answer.Author = *answerer

	env.dispatcher.AnswerCreated(ctx, question, answer)

	got := env.notificationsFor(t, asker.ID)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationAnswer, got[0].Type)
	assert.Equal(t, answerer.ID, got[0].SenderID)
	assert.Equal(t, "answerer@example.com answered your question: 'How do channels work?'", got[0].Message)
	require.NotNil(t, got[0].QuestionID)
	assert.Equal(t, question.ID, *got[0].QuestionID)
	require.NotNil(t, got[0].AnswerID)
	assert.Equal(t, answer.ID, *got[0].AnswerID)
	assert.False(t, got[0].IsRead)
}

func TestDispatcherAnswerCreated_SelfAnswerSuppressed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	question := env.createQuestion(t, asker, "Self answered")
	answer := env.createAnswer(t, question, asker, "I figured it out")
	answer.Author = *asker

	env.dispatcher.AnswerCreated(ctx, question, answer)

	assert.Empty(t, env.notificationsFor(t, asker.ID))
}

func TestDispatcherCommentCreated_NotifiesAnswerAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	commenter := env.createUser(t, "commenter@example.com")

	question := env.createQuestion(t, asker, "Commented question")
	answer := env.createAnswer(t, question, answerer, "an answer")
	comment := &model.Comment{AnswerID: answer.ID, AuthorID: commenter.ID, Content: "nice one", Author: *commenter}
	require.NoError(t, env.db.Create(comment).Error)

	env.dispatcher.CommentCreated(ctx, question, answer, comment)

	got := env.notificationsFor(t, answerer.ID)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationComment, got[0].Type)
	assert.Equal(t, "commenter@example.com commented on your answer to 'Commented question'", got[0].Message)
	require.NotNil(t, got[0].CommentID)
	assert.Equal(t, comment.ID, *got[0].CommentID)
}

func TestDispatcherCommentCreated_SelfCommentSuppressed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")

	question := env.createQuestion(t, asker, "Own answer comment")
	answer := env.createAnswer(t, question, answerer, "an answer")
	comment := &model.Comment{AnswerID: answer.ID, AuthorID: answerer.ID, Content: "clarifying my own answer", Author: *answerer}
	require.NoError(t, env.db.Create(comment).Error)

	env.dispatcher.CommentCreated(ctx, question, answer, comment)

	assert.Empty(t, env.notificationsFor(t, answerer.ID))
}

func TestDispatcherCommentCreated_Mentions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	commenter := env.createUser(t, "commenter@example.com")
	mentioned := env.createUser(t, "carol")

	question := env.createQuestion(t, asker, "Mention thread")
	answer := env.createAnswer(t, question, answerer, "an answer")
	comment := &model.Comment{
		AnswerID: answer.ID,
		AuthorID: commenter.ID,
		// Case-insensitive resolution, and @nobody resolves to no one.
		Content: "ask @CAROL about this, not @nobody",
		Author:  *commenter,
	}
	require.NoError(t, env.db.Create(comment).Error)

	env.dispatcher.CommentCreated(ctx, question, answer, comment)

	got := env.notificationsFor(t, mentioned.ID)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationMention, got[0].Type)
	assert.Equal(t, "commenter@example.com mentioned you in a comment on 'Mention thread'", got[0].Message)

	// Answer author still gets the comment notification.
	assert.Len(t, env.notificationsFor(t, answerer.ID), 1)
}

func TestDispatcherCommentCreated_OneNotificationPerMention(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	mentioned := env.createUser(t, "carol")

	question := env.createQuestion(t, asker, "Repeated mentions")
	answer := env.createAnswer(t, question, asker, "an answer")
	comment := &model.Comment{
		AnswerID: answer.ID,
		AuthorID: asker.ID,
		Content:  "@carol and again @carol",
		Author:   *asker,
	}
	require.NoError(t, env.db.Create(comment).Error)

	env.dispatcher.CommentCreated(ctx, question, answer, comment)

	assert.Len(t, env.notificationsFor(t, mentioned.ID), 2)
}

func TestDispatcherCommentCreated_SelfMentionSuppressed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	commenter := env.createUser(t, "carol")

	question := env.createQuestion(t, asker, "Self mention")
	answer := env.createAnswer(t, question, asker, "an answer")
	comment := &model.Comment{AnswerID: answer.ID, AuthorID: commenter.ID, Content: "note to self: @carol", Author: *commenter}
	require.NoError(t, env.db.Create(comment).Error)

	env.dispatcher.CommentCreated(ctx, question, answer, comment)

	for _, n := range env.notificationsFor(t, commenter.ID) {
		assert.NotEqual(t, model.NotificationMention, n.Type)
	}
}

func TestDispatcherAnswerAccepted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	answerer := env.createUser(t, "answerer@example.com")
	question := env.createQuestion(t, asker, "Accepted thread")
	answer := env.createAnswer(t, question, answerer, "the right answer")

	env.dispatcher.AnswerAccepted(ctx, question, answer)

	got := env.notificationsFor(t, answerer.ID)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationAccept, got[0].Type)
	assert.Equal(t, fmt.Sprintf("%s accepted your answer to '%s'", asker.Email, question.Title), got[0].Message)
}

func TestDispatcherAnswerAccepted_SelfAcceptSuppressed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asker := env.createUser(t, "asker@example.com")
	question := env.createQuestion(t, asker, "Self accept")
	answer := env.createAnswer(t, question, asker, "my own answer")

	env.dispatcher.AnswerAccepted(ctx, question, answer)

	assert.Empty(t, env.notificationsFor(t, asker.ID))
}
