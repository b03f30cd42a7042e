package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/TanishqPratap/content-oasis-app/internal/auth"
	"github.com/TanishqPratap/content-oasis-app/internal/config"
	"github.com/TanishqPratap/content-oasis-app/internal/db"
	"github.com/TanishqPratap/content-oasis-app/internal/handlers"
	"github.com/TanishqPratap/content-oasis-app/internal/middleware"
	"github.com/TanishqPratap/content-oasis-app/internal/observability"
	"github.com/TanishqPratap/content-oasis-app/internal/rabbitmq"
	"github.com/TanishqPratap/content-oasis-app/internal/realtime"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
	"github.com/TanishqPratap/content-oasis-app/internal/telemetry"
	"github.com/TanishqPratap/content-oasis-app/internal/ws"
)

const serviceName = "content-oasis"

func main() {
	cfg := config.Load()
	ctx := context.Background()

	shutdownTracing := telemetry.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()

	eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Printf("amqp event publisher disabled: %v", err)
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer auditPublisher.Close()
	log.Printf("notification publisher mode=%s", rabbitmq.PublisherMode(auditPublisher))
	emitter := telemetry.NewAuditEmitter(auditPublisher, observability.RoutingKeyNotifications, serviceName, cfg.Environment)

	tokens := auth.NewTokenManager(cfg.JWTSecret, 0)

	profileRepo := repositories.NewProfileRepo(database)
	sessionRepo := repositories.NewSessionRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	streamRepo := repositories.NewStreamRepo(database)
	contentRepo := repositories.NewContentRepo(database)
	subscriptionRepo := repositories.NewSubscriptionRepo(database)

	hub := ws.NewHub()

	instance, _ := os.Hostname()
	feed := realtime.NewFeed(rdb, hub, instance)
	go feed.Listen(ctx)

	authHandler := handlers.NewAuthHandler(profileRepo, tokens)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, profileRepo, hub, feed, emitter)
	messageHandler := handlers.NewMessageHandler(messageRepo, sessionRepo, hub, feed)
	streamHandler := handlers.NewStreamHandler(streamRepo, profileRepo, hub, feed, emitter)
	contentHandler := handlers.NewContentHandler(contentRepo, profileRepo, subscriptionRepo)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, profileRepo, emitter)

	chatWS := ws.NewChatWebSocketHandler(hub, profileRepo, sessionRepo, tokens)
	streamWS := ws.NewStreamWebSocketHandler(hub, streamRepo, tokens)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/signup", authHandler.Signup)
	router.POST("/auth/signin", authHandler.Signin)

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.GET("/profiles/me", authMiddleware, profileHandler.Me)
	router.PATCH("/profiles/me", authMiddleware, profileHandler.UpdateMe)
	router.GET("/profiles/:id", authMiddleware, profileHandler.GetProfile)
	router.GET("/creators", authMiddleware, profileHandler.ListCreators)

	router.POST("/sessions", authMiddleware, sessionHandler.StartSession)
	router.GET("/sessions", authMiddleware, sessionHandler.ListSessions)
	router.POST("/sessions/:session_id/close", authMiddleware, sessionHandler.CloseSession)
	router.GET("/sessions/:session_id/meter", authMiddleware, sessionHandler.MeterSnapshot)

	router.POST("/messages", authMiddleware, messageHandler.PostMessage)
	router.GET("/messages/:peer_id", authMiddleware, messageHandler.GetConversation)

	router.POST("/streams", authMiddleware, streamHandler.CreateStream)
	router.GET("/streams/mine", authMiddleware, streamHandler.ListMyStreams)
	router.GET("/streams/live", authMiddleware, streamHandler.ListLiveStreams)
	router.POST("/streams/:stream_id/start", authMiddleware, streamHandler.StartStream)
	router.POST("/streams/:stream_id/end", authMiddleware, streamHandler.EndStream)
	router.POST("/streams/:stream_id/join", authMiddleware, streamHandler.JoinStream)
	router.POST("/streams/:stream_id/leave", authMiddleware, streamHandler.LeaveStream)

	router.POST("/content", authMiddleware, contentHandler.CreateContent)
	router.GET("/creators/:creator_id/content", authMiddleware, contentHandler.ListCreatorContent)

	router.POST("/subscriptions", authMiddleware, subscriptionHandler.Subscribe)
	router.GET("/subscriptions", authMiddleware, subscriptionHandler.ListSubscriptions)
	router.DELETE("/subscriptions/:creator_id", authMiddleware, subscriptionHandler.Cancel)
	router.POST("/tips", authMiddleware, subscriptionHandler.CreateTip)
	router.GET("/tips", authMiddleware, subscriptionHandler.ListTips)

	router.GET("/ws/chats/:peer_id", chatWS.Handle)
	router.GET("/ws/streams/:stream_id", streamWS.Handle)

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
