package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"supportbot/config"
	"supportbot/internal/database"
	"supportbot/internal/domain"
	"supportbot/internal/handler"
	"supportbot/internal/observability"
	"supportbot/internal/rag"
	"supportbot/internal/service"
	"supportbot/internal/sessions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "check-models":
			if err := checkModels(cfg); err != nil {
				log.Fatalf("check-models failed: %v", err)
			}
			return
		case "help", "--help", "-h":
			fmt.Println("AI Customer Support Bot")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  supportbot                 Start the API server")
			fmt.Println("  supportbot check-models    List models usable with generateContent")
			return
		}
	}

	logger := observability.Logger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Error opening %s store: %v", cfg.StorageBackend, err)
	}
	defer store.Close()

	kb, err := rag.Load(cfg.KnowledgeBasePath)
	if err != nil {
		logger.Warn("knowledge base unavailable, continuing without it", "path", cfg.KnowledgeBasePath, "error", err)
	}
	logger.Info("knowledge base loaded", "entries", kb.Len())

	client, err := service.NewGeminiClient(cfg.GeminiKey, config.ModelName, cfg.GeminiBaseURL)
	if err != nil {
		logger.Warn("error configuring Google AI client, LLM disabled", "error", err)
	} else {
		logger.Info("Google AI client configured successfully", "model", client.Model())
	}
	gateway := service.NewGateway(client)

	bot := service.NewOrchestrator(kb, gateway)
	svc := service.NewChatService(store, store, bot)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (domain.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return sessions.NewMemoryStore(), nil
	case config.BackendRedis:
		return sessions.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		db, err := database.Open(ctx, cfg.DatabaseUrl)
		if err != nil {
			return nil, err
		}
		return database.NewPostgresStore(db), nil
	}
}

// checkModels prints every model the key can use for generateContent.
func checkModels(cfg config.Config) error {
	client, err := service.NewGeminiClient(cfg.GeminiKey, config.ModelName, cfg.GeminiBaseURL)
	if err != nil {
		return fmt.Errorf("could not configure the client (is GOOGLE_API_KEY set?): %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, m := range models {
		if m.SupportsGenerateContent() {
			fmt.Printf("Found usable model: %s\n", m.Name)
			found = true
		}
	}
	if !found {
		return errors.New("no models supporting generateContent; check the API key permissions and that the Generative Language API is enabled")
	}
	return nil
}
