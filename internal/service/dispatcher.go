package service

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/internal/repository"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// NotificationDispatcher reacts to content events with addressed, typed
// notifications. The mutating services call it synchronously after their
// write has committed; delivery is best-effort, so every failure here is
// logged and dropped rather than surfaced to the caller.
//
// Callers pass entities with their Author associations loaded; the
// dispatcher does not reload them.
type NotificationDispatcher interface {
	AnswerCreated(ctx context.Context, question *model.Question, answer *model.Answer)
	CommentCreated(ctx context.Context, question *model.Question, answer *model.Answer, comment *model.Comment)
	AnswerAccepted(ctx context.Context, question *model.Question, answer *model.Answer)
}

type notificationDispatcher struct {
	notifications NotificationService
	userRepo      repository.UserRepository
}

func NewNotificationDispatcher(notifications NotificationService, userRepo repository.UserRepository) NotificationDispatcher {
	return &notificationDispatcher{
		notifications: notifications,
		userRepo:      userRepo,
	}
}

func (d *notificationDispatcher) AnswerCreated(ctx context.Context, question *model.Question, answer *model.Answer) {
	// Answering your own question notifies nobody.
	if question.AuthorID == answer.AuthorID {
		return
	}

	d.deliver(ctx, &model.Notification{
		RecipientID: question.AuthorID,
		SenderID:    answer.AuthorID,
		Type:        model.NotificationAnswer,
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
		Message:     fmt.Sprintf("%s answered your question: '%s'", answer.Author.Email, question.Title),
	})
}

func (d *notificationDispatcher) CommentCreated(ctx context.Context, question *model.Question, answer *model.Answer, comment *model.Comment) {
	if answer.AuthorID != comment.AuthorID {
		d.deliver(ctx, &model.Notification{
			RecipientID: answer.AuthorID,
			SenderID:    comment.AuthorID,
			Type:        model.NotificationComment,
			QuestionID:  &question.ID,
			AnswerID:    &answer.ID,
			CommentID:   &comment.ID,
			Message:     fmt.Sprintf("%s commented on your answer to '%s'", comment.Author.Email, question.Title),
		})
	}

	// One mention notification per @handle match; unresolved handles are
	// skipped, and one bad resolution never blocks the rest.
	for _, match := range mentionPattern.FindAllStringSubmatch(comment.Content, -1) {
		handle := match[1]

		mentioned, err := d.userRepo.FindByHandle(ctx, handle)
		if err != nil {
			continue
		}
		if mentioned.ID == comment.AuthorID {
			continue
		}

		d.deliver(ctx, &model.Notification{
			RecipientID: mentioned.ID,
			SenderID:    comment.AuthorID,
			Type:        model.NotificationMention,
			QuestionID:  &question.ID,
			AnswerID:    &answer.ID,
			CommentID:   &comment.ID,
			Message:     fmt.Sprintf("%s mentioned you in a comment on '%s'", comment.Author.Email, question.Title),
		})
	}
}

func (d *notificationDispatcher) AnswerAccepted(ctx context.Context, question *model.Question, answer *model.Answer) {
	if answer.AuthorID == question.AuthorID {
		return
	}

	d.deliver(ctx, &model.Notification{
		RecipientID: answer.AuthorID,
		SenderID:    question.AuthorID,
		Type:        model.NotificationAccept,
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
		Message:     fmt.Sprintf("%s accepted your answer to '%s'", question.Author.Email, question.Title),
	})
}

func (d *notificationDispatcher) deliver(ctx context.Context, notification *model.Notification) {
	if err := d.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to deliver %s notification to %s: %v",
			notification.Type, notification.RecipientID, err)
	}
}
