package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/internal/repository"
	"stackit.dev/forum/pkg/apperror"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCreateNotification_PublishesToRecipientChannel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := newTestRedis(t)
	svc := NewNotificationService(env.notificationRepo, client)

	recipient := env.createUser(t, "recipient@example.com")
	sender := env.createUser(t, "sender@example.com")

	channel := fmt.Sprintf("user_notifications:%s", recipient.ID)
	pubsub := client.Subscribe(ctx, channel)
	t.Cleanup(func() { _ = pubsub.Close() })
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	notification := &model.Notification{
		RecipientID: recipient.ID,
		SenderID:    sender.ID,
		Type:        model.NotificationMention,
		Message:     "sender@example.com mentioned you in a comment on 'x'",
	}
	require.NoError(t, svc.CreateNotification(ctx, notification))

	select {
	case msg := <-pubsub.Channel():
		var got model.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, notification.ID, got.ID)
		assert.Equal(t, model.NotificationMention, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification published")
	}

	// The row was persisted too.
	count, err := svc.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationService_MarkAsReadScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recipient := env.createUser(t, "recipient@example.com")
	sender := env.createUser(t, "sender@example.com")
	stranger := env.createUser(t, "stranger@example.com")

	notification := &model.Notification{
		RecipientID: recipient.ID,
		SenderID:    sender.ID,
		Type:        model.NotificationAnswer,
		Message:     "m",
	}
	require.NoError(t, env.notifications.CreateNotification(ctx, notification))

	err := env.notifications.MarkAsRead(ctx, notification.ID, stranger.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, env.notifications.MarkAsRead(ctx, notification.ID, recipient.ID))

	got, err := env.notifications.GetNotifications(ctx, recipient.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsRead)
}

func TestRateLimit_CooldownCycle(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	userID := uuidMust(t)

	allowed, err := CheckAndSetRateLimit(ctx, client, userID, ScopeGlobal, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Second attempt inside the window is rejected.
	allowed, err = CheckAndSetRateLimit(ctx, client, userID, ScopeGlobal, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	ttl, err := GetRateLimitTTL(ctx, client, userID, ScopeGlobal)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// Scopes are independent.
	allowed, err = CheckAndSetRateLimit(ctx, client, userID, ScopeQuestion, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, ClearRateLimit(ctx, client, userID, ScopeGlobal))
	allowed, err = CheckAndSetRateLimit(ctx, client, userID, ScopeGlobal, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimit_NilClientAlwaysAllows(t *testing.T) {
	ctx := context.Background()
	userID := uuidMust(t)

	for i := 0; i < 5; i++ {
		allowed, err := CheckAndSetRateLimit(ctx, nil, userID, ScopeGlobal, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestCreateQuestion_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := newTestRedis(t)

	questionRepo := repository.NewQuestionRepository(env.db)
	answerRepo := repository.NewAnswerRepository(env.db)
	tagRepo := repository.NewTagRepository(env.db)
	voteRepo := repository.NewVoteRepository(env.db)
	svc := NewQuestionService(
		questionRepo, answerRepo, tagRepo, env.users, voteRepo,
		NewViewService(nil, questionRepo), NewSearchService(nil), client,
		time.Minute, time.Hour,
	)

	author := env.createUser(t, "author@example.com")

	_, err := svc.CreateQuestion(ctx, author.ID, withTitle("first"))
	require.NoError(t, err)

	_, err = svc.CreateQuestion(ctx, author.ID, withTitle("second"))
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
}
