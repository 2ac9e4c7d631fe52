package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"roommate-service/internal/auth"
	"roommate-service/internal/cache"
	"roommate-service/internal/config"
	"roommate-service/internal/db"
	"roommate-service/internal/handlers"
	"roommate-service/internal/jobs"
	"roommate-service/internal/logging"
	"roommate-service/internal/middleware"
	"roommate-service/internal/observability"
	"roommate-service/internal/rabbitmq"
	"roommate-service/internal/repositories"
	"roommate-service/internal/services"
	"roommate-service/internal/telemetry"
	"roommate-service/internal/ws"
)

const serviceName = "roommate-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat, serviceName, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Warn("tracing disabled")
		shutdownTracing = func(context.Context) error { return nil }
	}

	database, err := db.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to db")
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	log.WithFields(logrus.Fields{
		"mode":   rabbitmq.PublisherMode(publisher),
		"reason": rabbitmq.PublisherNoopReason(publisher),
	}).Info("event publisher ready")
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Environment)

	likesCache := cache.New(ctx, cfg.RedisURL, cfg.PendingLikesTTL)
	if closer, ok := likesCache.(io.Closer); ok {
		defer closer.Close()
	}

	profileRepo := repositories.NewProfileRepo(database)
	swipeRepo := repositories.NewSwipeRepo(database)
	matchRepo := repositories.NewMatchRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	savedPlaceRepo := repositories.NewSavedPlaceRepo(database)

	hub := ws.NewHub()

	premiumService := services.NewPremiumService(profileRepo, swipeRepo, likesCache)
	matchService := services.NewMatchService(profileRepo, swipeRepo, matchRepo, likesCache, hub)
	messagingService := services.NewMessagingService(profileRepo, matchRepo, conversationRepo, messageRepo, premiumService, hub)
	profileService := services.NewProfileService(profileRepo, savedPlaceRepo)

	profileHandler := handlers.NewProfileHandler(profileService)
	matchHandler := handlers.NewMatchHandler(matchService, audit)
	conversationHandler := handlers.NewConversationHandler(messagingService, audit)
	premiumHandler := handlers.NewPremiumHandler(premiumService, audit)

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, every authenticated request will be rejected")
	}
	wsHandler := ws.NewWebSocketHandler(hub, conversationRepo, verifier)
	swipeLimiter := middleware.NewRateLimiter(float64(cfg.SwipeRatePerSecond), cfg.SwipeRateBurst)

	scheduler, err := jobs.NewScheduler(cfg.PremiumSweepSchedule, premiumService, swipeLimiter, log)
	if err != nil {
		log.WithError(err).Fatal("failed to schedule jobs")
	}
	scheduler.Start()

	if cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(log))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", observability.MetricsHandler())
	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	router.GET("/ws/conversations/:conversation_id", wsHandler.HandleConversation)
	router.GET("/ws/users/me", wsHandler.HandleUser)

	admin := router.Group("/", middleware.AdminToken(cfg.PremiumAdminToken))
	admin.POST("/premium/subscriptions", premiumHandler.GrantSubscription)

	api := router.Group("/", middleware.AuthMiddleware(verifier))

	api.PUT("/profiles/me", profileHandler.UpsertMe)
	api.GET("/profiles/me", profileHandler.GetMe)
	api.GET("/profiles/:user_id", profileHandler.GetProfile)
	api.GET("/candidates", profileHandler.Candidates)

	api.POST("/swipes", swipeLimiter.Handler(), matchHandler.Swipe)
	api.GET("/matches", matchHandler.ListMatches)
	api.GET("/matches/:match_id", matchHandler.GetMatch)
	api.POST("/matches/:match_id/messages", conversationHandler.SendToMatch)

	api.POST("/messages/direct", conversationHandler.SendDirect)
	api.GET("/conversations", conversationHandler.ListConversations)
	api.GET("/conversations/:conversation_id/messages", conversationHandler.ListMessages)
	api.POST("/conversations/:conversation_id/messages", conversationHandler.PostMessage)

	api.GET("/likes/pending/count", premiumHandler.PendingLikesCount)
	api.GET("/likes/pending", premiumHandler.PendingLikes)
	api.GET("/premium/features/:feature", premiumHandler.Feature)

	api.GET("/saved-places", profileHandler.ListSavedPlaces)
	api.PUT("/saved-places/:place_id", profileHandler.SavePlace)
	api.DELETE("/saved-places/:place_id", profileHandler.UnsavePlace)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "X-Device-Id"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	scheduler.Stop(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracing shutdown failed")
	}
}
