package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/dynamisinc/cobra-poc-sub007/api"
	"github.com/dynamisinc/cobra-poc-sub007/api/routes"
	"github.com/dynamisinc/cobra-poc-sub007/config"
	"github.com/dynamisinc/cobra-poc-sub007/internal/cache"
	"github.com/dynamisinc/cobra-poc-sub007/internal/db"
	"github.com/dynamisinc/cobra-poc-sub007/internal/messagebus"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
	"github.com/dynamisinc/cobra-poc-sub007/internal/search"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

var (
	// Serve command flags
	disableNewRelic bool
	serverPort      int
	gracefulTimeout int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the API server handling events, operational periods,
checklists, and chat messages.

The server respects the configuration in config.yaml or specified via the
--config flag. It will gracefully shut down on receiving SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&disableNewRelic, "disable-newrelic", false, "Disable New Relic monitoring")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "Server port (overrides config file)")
	serveCmd.Flags().IntVar(&gracefulTimeout, "graceful-timeout", 30, "Graceful shutdown timeout in seconds")
}

// connectWithRetry connects to the database with exponential backoff
func connectWithRetry(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var conn *gorm.DB
	var err error

	maxRetries := 5
	retryInterval := time.Second

	for i := 0; i < maxRetries; i++ {
		log.WithField("attempt", i+1).Info("Connecting to database...")
		conn, err = db.Connect(cfg)
		if err == nil {
			return conn, nil
		}

		log.WithFields(logrus.Fields{
			"error":         err.Error(),
			"retry_attempt": i + 1,
			"max_retries":   maxRetries,
		}).Error("Failed to connect to database, retrying...")

		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2
		}
	}

	return nil, err
}

// startServer initializes and starts the API server
func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if serverPort > 0 {
		cfg.Server.Port = serverPort
	}

	log.WithFields(logrus.Fields{
		"port":             cfg.Server.Port,
		"newrelic_enabled": cfg.NewRelic.Enabled && !disableNewRelic,
	}).Info("Initializing service components...")

	conn, err := connectWithRetry(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Info("Successfully connected to database")

	log.Info("Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		log.Info("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis connection")
		}
	}()

	var bus messagebus.Client
	if cfg.ServiceBus.ConnectionString != "" {
		log.Info("Connecting to message bus...")
		bus, err = messagebus.NewClient(&cfg.ServiceBus)
		if err != nil {
			log.Fatalf("Failed to connect to message bus: %v", err)
		}
		defer func() {
			log.Info("Closing message bus connection...")
			if err := bus.Close(context.Background()); err != nil {
				log.WithError(err).Error("Error closing message bus connection")
			}
		}()
	} else {
		log.Warn("Message bus connection string not configured, updates will not be published")
	}

	var indexer search.Indexer
	if cfg.Elastic.Enabled {
		log.Info("Connecting to Elasticsearch...")
		elasticClient, err := search.NewElasticClient(cfg.Elastic)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Elasticsearch client, continuing without search")
		} else {
			indexer = elasticClient
		}
	}

	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && !disableNewRelic {
		log.Info("Initializing New Relic monitoring...")
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Warnf("Failed to initialize New Relic: %v", err)
			nrApp = nil
		}
	}

	log.Info("Initializing repositories...")
	eventRepo := repository.NewEventRepository(conn)
	periodRepo := repository.NewPeriodRepository(conn)
	templateRepo := repository.NewTemplateRepository(conn)
	checklistRepo := repository.NewChecklistRepository(conn)
	chatRepo := repository.NewChatRepository(conn)
	settingRepo := repository.NewSettingRepository(conn)

	log.Info("Initializing service layer...")
	svcs := routes.Services{
		Events:    service.NewEventService(eventRepo),
		Periods:   service.NewPeriodService(periodRepo, redisClient, log),
		Templates: service.NewTemplateService(templateRepo),
		Checklists: service.NewChecklistService(
			checklistRepo,
			periodRepo,
			templateRepo,
			redisClient,
			bus,
			cfg.ServiceBus.UpdateQueue,
			log,
		),
		Chat:     service.NewChatService(chatRepo, bus, indexer, cfg.ServiceBus.UpdateQueue, log),
		Settings: service.NewSettingService(settingRepo),
	}

	log.Info("Initializing API server...")
	server := api.NewServer(cfg, log, nrApp, svcs)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-stop
	log.Infof("Received signal %s, shutting down gracefully...", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(gracefulTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("Server shutdown error: %v", err)
	}

	log.Info("Server shutdown complete")
}
