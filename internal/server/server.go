package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/trackforge/internal/agent"
	"anoa.com/trackforge/internal/agent/agents"
	"anoa.com/trackforge/internal/config"
	"anoa.com/trackforge/internal/middleware"
	"anoa.com/trackforge/internal/modules/achievement/catalog"
	"anoa.com/trackforge/pkg/logger"

	achievementHttp "anoa.com/trackforge/internal/modules/achievement/delivery/http"
	achievementRepo "anoa.com/trackforge/internal/modules/achievement/repository"
	achievementService "anoa.com/trackforge/internal/modules/achievement/service"

	leaderboardHttp "anoa.com/trackforge/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "anoa.com/trackforge/internal/modules/leaderboard/repository"
	leaderboardService "anoa.com/trackforge/internal/modules/leaderboard/service"

	metricRepo "anoa.com/trackforge/internal/modules/metric/repository"
	metricService "anoa.com/trackforge/internal/modules/metric/service"

	notiHttp "anoa.com/trackforge/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/trackforge/internal/modules/notification/repository"
	notifService "anoa.com/trackforge/internal/modules/notification/service"

	statHttp "anoa.com/trackforge/internal/modules/stat/delivery/http"
	statRepo "anoa.com/trackforge/internal/modules/stat/repository"
	statService "anoa.com/trackforge/internal/modules/stat/service"

	workflowHttp "anoa.com/trackforge/internal/modules/workflow/delivery/http"
	workflowRepo "anoa.com/trackforge/internal/modules/workflow/repository"
	workflowService "anoa.com/trackforge/internal/modules/workflow/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	scheduler   *agent.Scheduler
	db          *gorm.DB
	redisClient *redis.Client
	log         *logger.Logger
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logger.Logger) (*Server, error) {
	origins := parseOrigins(cfg.AllowedOrigins)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, originAllowed(origins), log)

	// Metrics
	resolver := workflowService.NewResolver(workflowRepo.NewWorkflowRepository(db))
	aggregator := metricService.NewAggregator(metricRepo.NewMetricRepository(db), resolver, log)

	statSvc := statService.NewStatService(statRepo.NewStatRepository(db), aggregator, log)
	statHandler := statHttp.NewStatHandler(statSvc)

	// Achievement Module
	achievementSvc := achievementService.NewAchievementService(
		achievementRepo.NewAchievementRepository(db),
		catalog.Default(),
		aggregator,
		resolver,
		statSvc,
		notificationSvc,
		achievementService.Options{
			MetricConcurrency: cfg.MetricConcurrency,
			MetricTimeout:     cfg.MetricTimeout,
		},
		log,
	)
	achievementHandler := achievementHttp.NewAchievementHandler(achievementSvc)

	workflowSvc := workflowService.NewWorkflowService(workflowRepo.NewWorkflowRepository(db), resolver, achievementSvc, log)
	workflowHandler := workflowHttp.NewWorkflowHandler(workflowSvc)

	leaderboardSvc := leaderboardService.NewLeaderboardService(leaderboardRepo.NewLeaderboardRepository(db), log)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc, cfg.LeaderboardDefaultLimit, cfg.LeaderboardMaxLimit)

	// Background jobs
	scheduler := agent.NewScheduler(log)
	repairAgent := agents.NewLedgerRepairAgent(achievementSvc, cfg.LedgerRepairSchedule, 10*time.Minute, log)
	if err := scheduler.RegisterAgent(repairAgent); err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, origins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Achievement routes
		protected.POST("/achievements/evaluate", achievementHandler.Evaluate)
		protected.GET("/achievements", achievementHandler.ListCatalog)
		protected.GET("/achievements/progress", achievementHandler.GetProgress)
		protected.POST("/achievements/repair", achievementHandler.RepairPoints)

		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// Workflow routes
		protected.GET("/workflow", workflowHandler.GetWorkflow)
		protected.PUT("/workflow", workflowHandler.SaveWorkflow)
		protected.DELETE("/workflow", workflowHandler.ResetWorkflow)
		protected.GET("/songs/:song_id/progress", workflowHandler.GetSongProgress)
		protected.PUT("/songs/:song_id/progress/:step", workflowHandler.UpdateStep)
		protected.GET("/packs/:pack_id/completion", workflowHandler.GetPackCompletion)

		// Stats routes
		protected.GET("/stats/me", statHandler.GetMyStats)
		protected.GET("/users/count", statHandler.GetTotalUsers)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.PUT("/notifications/read", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.Stream)
	}

	return &Server{
		engine:      router,
		scheduler:   scheduler,
		db:          db,
		redisClient: redisClient,
		log:         log,
	}, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts background jobs and serves HTTP until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.scheduler.Start()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("http server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop(ctx)
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func parseOrigins(allowedOrigins string) []string {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func originAllowed(origins []string) func(string) bool {
	return func(origin string) bool {
		for _, o := range origins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
