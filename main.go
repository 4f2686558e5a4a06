package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"feedback-connector/internal/config"
	"feedback-connector/internal/domain/interfaces/repository"
	Iservices "feedback-connector/internal/domain/interfaces/services"
	"feedback-connector/internal/infra/handlers"
	"feedback-connector/internal/infra/logger"
	"feedback-connector/internal/infra/provider"
	infrarepo "feedback-connector/internal/infra/repository"
	"feedback-connector/internal/infra/routes"
	"feedback-connector/internal/infra/services"
	"feedback-connector/internal/middleware"
	client "feedback-connector/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)

	feedbackRepo := openFeedbackRepository(log)
	defer feedbackRepo.Close(ctx)

	apiKey := config.GetEnv("OPENAI_API_KEY")
	model := config.GetEnvOrDefault("AI_MODEL", "gpt-4o-mini")
	aiTimeout := time.Duration(config.GetEnvIntOrDefault("AI_TIMEOUT_SECONDS", 60)) * time.Second
	analysisProvider := provider.NewOpenAIAnalysisProvider(log, apiKey, model, aiTimeout)

	var conversationSvc Iservices.IConversationService = services.NewConversationService(log, analysisProvider, feedbackRepo)
	var analyticsSvc Iservices.IAnalyticsService = services.NewAnalyticsService(log, feedbackRepo)
	var focusAreaSvc Iservices.IFocusAreaService = services.NewFocusAreaService(log, feedbackRepo, analysisProvider)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	feedbackHandlers := handlers.NewFeedbackHandlers(log, conversationSvc)
	analyticsHandlers := handlers.NewAnalyticsHandlers(log, analyticsSvc, focusAreaSvc)

	routes := routes.NewRoutes(
		router,
		feedbackHandlers,
		analyticsHandlers,
	)
	routes.Init()

	port := config.GetEnvOrDefault("PORT", "8000")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}

// openFeedbackRepository selects the store backend from STORE_DRIVER:
// the embedded SQLite database by default, MongoDB when configured.
func openFeedbackRepository(log *logger.Logger) repository.FeedbackRepository {
	driver := config.GetEnvOrDefault("STORE_DRIVER", "sqlite")
	switch driver {
	case "sqlite":
		dbPath := config.GetEnvOrDefault("SQLITE_PATH", "data/conversations.db")
		repo, err := infrarepo.NewSQLiteFeedbackRepository(dbPath)
		if err != nil {
			log.Fatal(fmt.Sprintf("Failed to open SQLite store at %s: %v", dbPath, err))
		}
		return repo
	case "mongo":
		mongoClient := client.MongoClient()
		return infrarepo.NewMongoFeedbackRepository(mongoClient, config.GetEnvOrDefault("MONGODB_DATABASE", "Feedback"))
	default:
		log.Fatal(fmt.Sprintf("Unknown STORE_DRIVER %q (expected sqlite or mongo)", driver))
		return nil
	}
}
