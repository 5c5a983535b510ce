package main

import (
	"fmt"
	"log"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/analyzer"
	"github.com/pricelens/backend/internal/infrastructure/session"
	"github.com/pricelens/backend/internal/infrastructure/shopping"
	"github.com/pricelens/backend/internal/logger"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	appLog := logger.NewZapAdapter(zapLogger)

	appLog.Info("starting PriceLens backend", map[string]interface{}{
		"version":     "1.0.0",
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	})

	// Initialize infrastructure dependencies
	analyzerClient := analyzer.NewClient(cfg.Analyzer.BaseURL, cfg.Analyzer.Timeout, appLog)
	shoppingClient := shopping.NewClient(cfg.Shopping.BaseURL, cfg.Shopping.Timeout, appLog)

	appLog.Info("external services configured", map[string]interface{}{
		"analyzer_url": cfg.Analyzer.BaseURL,
		"shopping_url": cfg.Shopping.BaseURL,
	})

	// Each session gets its own workflow over the shared clients.
	queryBuilder := usecase.NewQueryBuilder(cfg.Search.MaxResults)
	sessions := session.NewStore(cfg.Session.TTL, func() *usecase.Workflow {
		return usecase.NewWorkflow(analyzerClient, shoppingClient, shoppingClient, queryBuilder, appLog)
	}, appLog)

	appLog.Info("session store initialized", map[string]interface{}{
		"ttl":         cfg.Session.TTL.String(),
		"max_results": cfg.Search.MaxResults,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(sessions, appLog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, appLog)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	appLog.Info("server listening", map[string]interface{}{"addr": addr})

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
