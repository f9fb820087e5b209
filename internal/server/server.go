package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qoach/quiz-backend/internal/config"
	"github.com/qoach/quiz-backend/internal/handler"
	"github.com/qoach/quiz-backend/internal/health"
	"github.com/qoach/quiz-backend/internal/middleware"
	"github.com/qoach/quiz-backend/internal/ratelimit"
	"github.com/qoach/quiz-backend/internal/repository"
	"github.com/qoach/quiz-backend/internal/service"
	"github.com/qoach/quiz-backend/internal/storage"
)

type Server struct {
	router     *gin.Engine
	config     *config.Config
	postgres   *storage.Postgres
	redis      *storage.RedisClient
	httpServer *http.Server

	authService *service.AuthService

	healthHandler       *handler.HealthHandler
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	companyHandler      *handler.CompanyHandler
	membershipHandler   *handler.MembershipHandler
	quizHandler         *handler.QuizHandler
	attemptHandler      *handler.AttemptHandler
	notificationHandler *handler.NotificationHandler
	analyticsHandler    *handler.AnalyticsHandler
}

func New(cfg *config.Config, postgres *storage.Postgres, redis *storage.RedisClient) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	userRepo := repository.NewUserRepository(postgres)
	companyRepo := repository.NewCompanyRepository(postgres)
	memberRepo := repository.NewMemberRepository(postgres)
	invitationRepo := repository.NewInvitationRepository(postgres)
	requestRepo := repository.NewJoinRequestRepository(postgres)
	quizRepo := repository.NewQuizRepository(postgres)
	attemptRepo := repository.NewAttemptRepository(postgres)
	notificationRepo := repository.NewNotificationRepository(postgres)
	analyticsRepo := repository.NewAnalyticsRepository(postgres)

	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.ExpiryHours)
	userService := service.NewUserService(userRepo)
	companyService := service.NewCompanyService(companyRepo, memberRepo)
	membershipService := service.NewMembershipService(companyRepo, memberRepo, invitationRepo, requestRepo, userRepo)
	quizService := service.NewQuizService(quizRepo, membershipService, memberRepo, notificationRepo)
	answerCache := service.NewAnswerCacheService(redis)
	attemptService := service.NewAttemptService(quizRepo, companyRepo, attemptRepo, membershipService, answerCache)
	notificationService := service.NewNotificationService(notificationRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo, membershipService)

	checker := health.NewChecker(
		health.Target{
			Pinger: postgres,
			Source: string(cfg.Database.Source()),
			Host:   cfg.Database.ResolvedHost(),
		},
		health.Target{
			Pinger: redis,
			Source: string(cfg.Redis.Source()),
			Host:   cfg.Redis.ResolvedHost(),
		},
		cfg.Health.ProbeTimeout,
	)

	s := &Server{
		router:   router,
		config:   cfg,
		postgres: postgres,
		redis:    redis,

		authService: authService,

		healthHandler:       handler.NewHealthHandler(checker),
		authHandler:         handler.NewAuthHandler(authService),
		userHandler:         handler.NewUserHandler(userService),
		companyHandler:      handler.NewCompanyHandler(companyService),
		membershipHandler:   handler.NewMembershipHandler(membershipService),
		quizHandler:         handler.NewQuizHandler(quizService),
		attemptHandler:      handler.NewAttemptHandler(attemptService),
		notificationHandler: handler.NewNotificationHandler(notificationService),
		analyticsHandler:    handler.NewAnalyticsHandler(analyticsService),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS(s.config.Server.CORSOrigins))

	limiter := ratelimit.NewFixedWindow(s.redis, s.config.RateLimit.RequestsPerMinute, time.Minute)
	s.router.Use(middleware.RateLimit(limiter))
}

func (s *Server) setupRoutes() {
	// Probes stay public: orchestrators and uptime monitors call them
	// without credentials.
	s.router.GET("/health", s.healthHandler.Live)
	s.router.GET("/health/db", s.healthHandler.Database)
	s.router.GET("/health/redis", s.healthHandler.Redis)
	s.router.GET("/health/all", s.healthHandler.All)

	auth := s.router.Group("/auth")
	{
		auth.POST("/register", s.authHandler.Register)
		auth.POST("/login", s.authHandler.Login)
		auth.GET("/me", middleware.RequireAuth(s.authService), s.authHandler.Me)
	}

	authed := s.router.Group("/")
	authed.Use(middleware.RequireAuth(s.authService))

	users := authed.Group("/users")
	{
		users.GET("", s.userHandler.List)
		users.GET("/:id", s.userHandler.Get)
		users.PUT("/:id", s.userHandler.Update)
		users.DELETE("/:id", s.userHandler.Delete)
	}

	companies := authed.Group("/companies")
	{
		companies.POST("", s.companyHandler.Create)
		companies.GET("", s.companyHandler.List)
		companies.GET("/:id", s.companyHandler.Get)
		companies.PUT("/:id", s.companyHandler.Update)
		companies.DELETE("/:id", s.companyHandler.Delete)

		companies.GET("/:id/members", s.membershipHandler.ListMembers)
		companies.DELETE("/:id/members/:user_id", s.membershipHandler.Kick)
		companies.POST("/:id/leave", s.membershipHandler.Leave)
		companies.POST("/:id/admins/:user_id", s.membershipHandler.AppointAdmin)
		companies.DELETE("/:id/admins/:user_id", s.membershipHandler.RemoveAdmin)

		companies.POST("/:id/invitations", s.membershipHandler.Invite)
		companies.POST("/:id/requests", s.membershipHandler.RequestToJoin)
		companies.GET("/:id/requests", s.membershipHandler.ListCompanyRequests)

		companies.POST("/:id/quizzes", s.quizHandler.Create)
		companies.GET("/:id/quizzes", s.quizHandler.ListByCompany)

		companies.GET("/:id/analytics/weekly", s.analyticsHandler.CompanyWeeklyAverages)
		companies.GET("/:id/analytics/users/:user_id/weekly", s.analyticsHandler.CompanyUserWeeklyAverages)
		companies.GET("/:id/analytics/last-attempts", s.analyticsHandler.CompanyMembersLastAttempts)
	}

	invitations := authed.Group("/invitations")
	{
		invitations.GET("", s.membershipHandler.ListMyInvitations)
		invitations.POST("/:id/accept", s.membershipHandler.AcceptInvitation)
		invitations.POST("/:id/decline", s.membershipHandler.DeclineInvitation)
		invitations.DELETE("/:id", s.membershipHandler.CancelInvitation)
	}

	requests := authed.Group("/requests")
	{
		requests.GET("", s.membershipHandler.ListMyRequests)
		requests.POST("/:id/accept", s.membershipHandler.AcceptRequest)
		requests.POST("/:id/decline", s.membershipHandler.DeclineRequest)
		requests.DELETE("/:id", s.membershipHandler.CancelRequest)
	}

	quizzes := authed.Group("/quizzes")
	{
		quizzes.GET("/:id", s.quizHandler.Get)
		quizzes.GET("/:id/take", s.quizHandler.Take)
		quizzes.PUT("/:id", s.quizHandler.Update)
		quizzes.DELETE("/:id", s.quizHandler.Delete)
		quizzes.POST("/:id/attempts", s.attemptHandler.Submit)
	}

	attempts := authed.Group("/quiz-attempts")
	{
		attempts.GET("", s.attemptHandler.History)
		attempts.GET("/statistics", s.attemptHandler.Statistics)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", s.notificationHandler.List)
		notifications.POST("/read-all", s.notificationHandler.MarkAllAsRead)
		notifications.POST("/:id/read", s.notificationHandler.MarkAsRead)
	}

	analytics := authed.Group("/analytics")
	{
		analytics.GET("/rating", s.analyticsHandler.MyOverallRating)
		analytics.GET("/quiz-averages", s.analyticsHandler.MyQuizAverages)
		analytics.GET("/last-completions", s.analyticsHandler.MyLastCompletions)
	}
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting quiz backend on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
