package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"stackit.dev/forum/internal/repository"
)

const pendingViewsKey = "pending:question_views"

// ViewService counts detail views. With redis the increments are buffered
// and flushed to the database by a background worker; without it they go
// straight to the questions table. Either way the counter is allowed to be
// lossy under concurrent reads.
type ViewService interface {
	RecordView(ctx context.Context, questionID uuid.UUID) error
	StartViewSyncWorker(ctx context.Context)
}

type viewService struct {
	redisClient  *redis.Client
	questionRepo repository.QuestionRepository
}

func NewViewService(redisClient *redis.Client, questionRepo repository.QuestionRepository) ViewService {
	return &viewService{
		redisClient:  redisClient,
		questionRepo: questionRepo,
	}
}

func (s *viewService) RecordView(ctx context.Context, questionID uuid.UUID) error {
	if s.redisClient == nil {
		return s.questionRepo.IncrementViews(ctx, questionID, 1)
	}

	viewKey := fmt.Sprintf("question:views:%s", questionID)
	if err := s.redisClient.Incr(ctx, viewKey).Err(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	if err := s.redisClient.SAdd(ctx, pendingViewsKey, questionID.String()).Err(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	return nil
}

func (s *viewService) syncViewsToDB(ctx context.Context) {
	questionIDs, err := s.redisClient.SMembers(ctx, pendingViewsKey).Result()
	if err != nil {
		log.Printf("error getting pending question views: %v", err)
		return
	}

	if len(questionIDs) == 0 {
		return
	}

	for _, questionIDStr := range questionIDs {
		questionID, err := uuid.Parse(questionIDStr)
		if err != nil {
			log.Printf("invalid question id %s: %v", questionIDStr, err)
			continue
		}

		viewKey := fmt.Sprintf("question:views:%s", questionID)
		viewCountStr, err := s.redisClient.Get(ctx, viewKey).Result()
		if err != nil && err != redis.Nil {
			log.Printf("error getting view count for question %s: %v", questionID, err)
			continue
		}

		viewCount, _ := strconv.Atoi(viewCountStr)
		if viewCount > 0 {
			if err := s.questionRepo.IncrementViews(ctx, questionID, viewCount); err != nil {
				log.Printf("failed to flush views for question %s: %v", questionID, err)
				continue
			}

			if err := s.redisClient.Del(ctx, viewKey).Err(); err != nil {
				log.Printf("failed to reset view counter for question %s: %v", questionID, err)
			}
		}
	}

	if err := s.redisClient.Del(ctx, pendingViewsKey).Err(); err != nil {
		log.Printf("failed to clear pending view set: %v", err)
	}
}

func (s *viewService) StartViewSyncWorker(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncViewsToDB(ctx)
		case <-ctx.Done():
			return
		}
	}
}
