package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"stackit.dev/forum/internal/config"
	"stackit.dev/forum/internal/handler"
	"stackit.dev/forum/internal/middleware"
	"stackit.dev/forum/internal/repository"
	"stackit.dev/forum/internal/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, meiliClient meilisearch.ServiceManager) *Server {
	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	dispatcher := service.NewNotificationDispatcher(notificationSvc, userRepo)

	viewSvc := service.NewViewService(redisClient, questionRepo)
	if redisClient != nil {
		go viewSvc.StartViewSyncWorker(context.Background())
	}

	voteSvc := service.NewVoteService(voteRepo)
	tagSvc := service.NewTagService(tagRepo)
	questionSvc := service.NewQuestionService(
		questionRepo, answerRepo, tagRepo, userRepo, voteRepo,
		viewSvc, searchSvc, redisClient,
		cfg.RateLimitGlobal, cfg.RateLimitQuestion,
	)
	answerSvc := service.NewAnswerService(
		answerRepo, questionRepo, userRepo, voteRepo,
		dispatcher, redisClient, cfg.RateLimitGlobal,
	)
	commentSvc := service.NewCommentService(
		commentRepo, answerRepo, questionRepo, userRepo,
		dispatcher, redisClient, cfg.RateLimitGlobal,
	)

	questionHandler := handler.NewQuestionHandler(questionSvc, voteSvc)
	answerHandler := handler.NewAnswerHandler(answerSvc, voteSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	tagHandler := handler.NewTagHandler(tagSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public reads. OptionalAuth lets authenticated callers see their own
	// vote state on questions and answers.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/questions", questionHandler.GetQuestions)
		public.GET("/questions/slug/:slug", questionHandler.GetQuestionBySlug)
		public.GET("/questions/:question_id", questionHandler.GetQuestionByID)
		public.GET("/questions/:question_id/answers", answerHandler.GetAnswers)
		public.GET("/questions/:question_id/answers/:answer_id/comments", commentHandler.GetComments)
		public.GET("/tags", tagHandler.GetTags)
		public.GET("/tags/:id", tagHandler.GetTag)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/questions", questionHandler.CreateQuestion)
		protected.PUT("/questions/:question_id", questionHandler.UpdateQuestion)
		protected.DELETE("/questions/:question_id", questionHandler.DeleteQuestion)
		protected.POST("/questions/:question_id/upvote", questionHandler.Upvote)
		protected.POST("/questions/:question_id/downvote", questionHandler.Downvote)

		protected.POST("/questions/:question_id/answers", answerHandler.CreateAnswer)
		protected.POST("/questions/:question_id/answers/:answer_id/accept", answerHandler.ToggleAccept)
		protected.PUT("/answers/:id", answerHandler.UpdateAnswer)
		protected.DELETE("/answers/:id", answerHandler.DeleteAnswer)
		protected.POST("/answers/:id/upvote", answerHandler.Upvote)
		protected.POST("/answers/:id/downvote", answerHandler.Downvote)

		protected.POST("/questions/:question_id/answers/:answer_id/comments", commentHandler.CreateComment)
		protected.PUT("/comments/:id", commentHandler.UpdateComment)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		admin := protected.Group("")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/tags", tagHandler.CreateTag)
			admin.DELETE("/tags/:id", tagHandler.DeleteTag)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
