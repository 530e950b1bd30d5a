package main

import (
	"context"
	"fmt"

	"agents-registry/config"
	"agents-registry/pkg/handlers"
	"agents-registry/pkg/interfaces"
	middleware "agents-registry/pkg/middlewares"
	service "agents-registry/pkg/services"
	"agents-registry/pkg/store"
	"agents-registry/pkg/utils"
	"agents-registry/pkg/version"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"
)

// setupServices initialise et configure tous les services
func setupServices(cfg *config.Config, db *store.Store, log *utils.Logger) (interfaces.DiscoveryServiceInterface, interfaces.CounterServiceInterface, interfaces.CatalogServiceInterface, *service.RateLimiter, *service.TrendingService, *service.BackupService) {

	// Rate limit windows live in SQLite unless redis is configured
	var windowStore service.WindowStore
	switch cfg.RateLimit.Backend {
	case "redis":
		windowStore = service.NewRedisWindowStore(&cfg.RateLimit, log)
		log.WithField("addr", cfg.RateLimit.Redis.Addr).Info("Rate limit backend: redis")
	default:
		windowStore = service.NewSQLiteWindowStore(db)
		log.Info("Rate limit backend: sqlite")
	}

	limiter := service.NewRateLimiter(windowStore, &cfg.RateLimit, log)
	searchService := service.NewSearchService(db, &cfg.Search, log)
	trendingService := service.NewTrendingService(db, &cfg.Trending, log)
	discoveryService := service.NewDiscoveryService(limiter, searchService, trendingService, log)
	counterService := service.NewCounterService(db, log)
	catalogService := service.NewCatalogService(db, log)

	backupService, err := service.NewBackupService(cfg, db, log)
	if err != nil {
		log.WithFunc().WithError(err).Fatal("Failed to initialize backup service")
	}

	return discoveryService, counterService, catalogService, limiter, trendingService, backupService
}

// setupHandlers initialise tous les handlers
func setupHandlers(
	discoveryService interfaces.DiscoveryServiceInterface,
	counterService interfaces.CounterServiceInterface,
	catalogService interfaces.CatalogServiceInterface,
	backupService *service.BackupService,
	cfg *config.Config,
	log *utils.Logger,

) (*handlers.DiscoveryHandler, *handlers.CounterHandler, *handlers.CatalogHandler, *handlers.ConfigHandler, *handlers.BackupHandler) {
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService, log)
	counterHandler := handlers.NewCounterHandler(counterService, log)
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)
	configHandler := handlers.NewConfigHandler(cfg, log)
	backupHandler := handlers.NewBackupHandler(backupService, log, cfg)

	return discoveryHandler, counterHandler, catalogHandler, configHandler, backupHandler
}

func setupHTTPServer(app *fiber.App, port int, log *utils.Logger) {

	log.WithFunc().Info("🚀 Application starting")

	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.WithFunc().WithError(err).Fatal("HTTP Server failed")
	}
}

func main() {
	// Configuration - load first to get logging settings
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		// Use a basic logger for startup errors
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Logger setup from config
	logConfig := utils.Config{
		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,
		Pretty:    true,
	}
	// Default values if not set in config
	if logConfig.LogLevel == "" {
		logConfig.LogLevel = "info"
	}
	if logConfig.LogFormat == "" {
		logConfig.LogFormat = "text"
	}
	log := utils.NewLogger(logConfig)

	// Log version info at startup
	log.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.Commit,
	}).Info("agents registry starting")

	// PathManager
	pathManager := utils.NewPathManager(cfg.Storage.Path, log)

	// Database
	db, err := store.New(pathManager.GetDatabasePath())
	if err != nil {
		log.WithFunc().WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	// Services
	discoveryService, counterService, catalogService, limiter, trendingService, backupService := setupServices(cfg, db, log)

	// Handlers
	discoveryHandler, counterHandler, catalogHandler, configHandler, backupHandler := setupHandlers(
		discoveryService,
		counterService,
		catalogService,
		backupService,
		cfg,
		log,
	)

	// Background workers: trending refresh and window sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go trendingService.RunRefresher(ctx)
	go limiter.RunSweeper(ctx)

	// Fiber app configuration
	app := fiber.New(fiber.Config{
		AppName:       "agents registry",
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		ServerHeader:  "agents registry",
		Views:         html.New("./views", ".html"),

		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
				"error":  err.Error(),
			}).Error("Error handling request")
			return c.Status(500).SendString("Internal Server Error")
		},
	})

	// Middleware pour le logging
	app.Use(func(c *fiber.Ctx) error {
		// Health check en debug pour éviter le spam
		if c.Path() == "/health" {
			log.Debug("Health check")
			return c.Next()
		}

		log.WithFields(logrus.Fields{
			"path":   c.Path(),
			"method": c.Method(),
			"route":  c.Route().Path,
			"params": c.AllParams(),
		}).Info("Incoming request")

		return c.Next()
	})

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	// Créer le middleware de rate limiting
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(discoveryService, log)

	log.WithField("backup", cfg.Backup).Info("Backup configuration")

	// Routes Portal Interface
	app.Get("/", catalogHandler.DisplayHome)
	app.Get("/config", configHandler.GetConfig)
	app.Get("/backup/status", backupHandler.GetBackupStatus)

	// Discovery routes
	app.Get("/search", rateLimitMiddleware.Limit("search"), discoveryHandler.HandleSearch)
	app.Get("/trending", rateLimitMiddleware.Limit("trending"), discoveryHandler.HandleTrending)
	app.Post("/trending/refresh", discoveryHandler.HandleRefreshTrending)

	// Catalog routes
	app.Get("/agents/:name/latest", rateLimitMiddleware.Limit("latest"), catalogHandler.HandleLatest)

	// Counter routes
	app.Post("/agents/:id/view", rateLimitMiddleware.Limit("view"), counterHandler.HandleView)
	app.Post("/agents/:id/download", rateLimitMiddleware.Limit("download"), counterHandler.HandleDownload)

	// Routes Backup
	if backupService != nil {
		app.Post("/backup", backupHandler.HandleBackup)
		app.Post("/restore", backupHandler.HandleRestore)
	}

	// Démarrage du serveur
	log.WithField("port", cfg.Server.Port).Info("Starting server")

	setupHTTPServer(app, cfg.Server.Port, log)
}
