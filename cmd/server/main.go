package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/collections-monitor/internal/api"
	"github.com/ignite/collections-monitor/internal/cache"
	"github.com/ignite/collections-monitor/internal/campaign"
	"github.com/ignite/collections-monitor/internal/chat"
	"github.com/ignite/collections-monitor/internal/classify"
	"github.com/ignite/collections-monitor/internal/config"
	"github.com/ignite/collections-monitor/internal/recommend"
	"github.com/ignite/collections-monitor/internal/report"
	"github.com/ignite/collections-monitor/internal/repository/postgres"
	"github.com/ignite/collections-monitor/internal/responder"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	log.Println("collections-monitor server starting")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check failed: %v", err)
	}

	// Database (ledger + campaign send tables)
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		log.Printf("WARNING: database not reachable at startup: %v", err)
	}
	cancelPing()

	// Redis responder cache (optional)
	var redisClient *redis.Client
	var respCache *cache.ResponderCache
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		respCache = cache.New(redisClient, time.Duration(cfg.Redis.CacheTTLMinutes)*time.Minute)
		log.Printf("Responder cache enabled (redis %s, ttl %dm)", cfg.Redis.Addr, cfg.Redis.CacheTTLMinutes)
	} else {
		log.Println("Responder cache disabled")
	}

	// Repositories
	ledgerRepo, err := postgres.NewLedgerRepo(db, cfg.Database.LedgerTable)
	if err != nil {
		log.Fatalf("Failed to create ledger repository: %v", err)
	}
	sendRepo := postgres.NewSendRepo(db)

	// Campaign source registry
	sources := make([]campaign.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, campaign.Source{
			Name:     s.Name,
			Table:    s.Table,
			Category: s.DomainCategory(),
		})
	}
	log.Printf("Registered %d campaign sources", len(sources))

	// Pipeline
	svc := report.NewService(
		campaign.NewAggregator(sendRepo, sources, cfg.Metrics.CostRate),
		classify.New(ledgerRepo, cfg.Metrics.BatchSize),
		responder.New(ledgerRepo, cfg.Metrics.BatchSize),
		recommend.New(cfg.Recommendation),
		respCache,
	)

	// Chat platform (optional)
	var chatClient *chat.Client
	if cfg.Chat.BaseURL != "" {
		chatClient = chat.NewClient(chat.Config{BaseURL: cfg.Chat.BaseURL, APIKey: cfg.Chat.APIKey})
		log.Printf("Chat platform client configured (%s)", cfg.Chat.BaseURL)
	}

	handlers := api.NewHandlers(svc, chatClient, db, redisClient)
	router := api.SetupRoutes(handlers, nil)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
