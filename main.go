package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"directchat/internal/config"
	"directchat/internal/db"
	"directchat/internal/handlers"
	"directchat/internal/middleware"
	"directchat/internal/observability"
	"directchat/internal/presence"
	"directchat/internal/rabbitmq"
	"directchat/internal/repositories"
	"directchat/internal/services"
	"directchat/internal/telemetry"
	"directchat/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	provider, closePresence := buildPresence(ctx, cfg)
	defer closePresence()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.ServiceName)
	defer publisher.Close()
	log.Printf("event publisher mode=%s reason=%s", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))
	events := telemetry.NewEventEmitter(publisher, "chat", cfg.ServiceName, cfg.Environment)

	svc := services.NewChatService(
		repositories.NewUserRepo(database),
		repositories.NewConversationRepo(database),
		repositories.NewMessageRepo(database),
		provider,
		services.Options{MaxContentLength: cfg.MessageMaxLength, Sanitize: cfg.MessageSanitize},
	)

	hub := ws.NewHub()
	chatHandler := handlers.NewChatHandler(svc, hub, events)
	wsHandler := ws.NewHandler(hub, svc, originChecker(cfg.AllowedOrigins))

	router := gin.New()
	// An empty list makes ClientIP ignore forwarding headers.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}

	// middlewares
	router.Use(gin.Recovery(), gin.Logger())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(observability.HTTPMetricsMiddleware())
	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	}

	chatHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router.Group("/api"))
	router.GET("/ws/conversations/:conversation_id", wsHandler.Handle)
	router.GET("/healthz", handlers.Health(database))
	router.GET("/metrics", gin.WrapH(observability.Handler()))
	handlers.RegisterDebugRoutes(router, events, cfg.DebugRoutes)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.CORS(cfg.AllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("directchat listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

func buildPresence(ctx context.Context, cfg *config.Config) (presence.Provider, func()) {
	if cfg.PresenceMode != config.PresenceRedis {
		return presence.AlwaysOnline{}, func() {}
	}
	p, err := presence.NewRedisProvider(ctx, cfg.RedisURL, cfg.PresenceTTL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	return p, func() {
		if err := p.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
