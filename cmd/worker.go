package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dynamisinc/cobra-poc-sub007/config"
	"github.com/dynamisinc/cobra-poc-sub007/internal/cache"
	"github.com/dynamisinc/cobra-poc-sub007/internal/messagebus"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
	"github.com/dynamisinc/cobra-poc-sub007/internal/search"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long: `Starts the background worker that ingests bridged chat messages
from the inbound queue and periodically reconciles checklist progress
counters against their item state.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	conn, err := connectWithRetry(&cfg.Database)
	if err != nil {
		return err
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	bus, err := messagebus.NewClient(&cfg.ServiceBus)
	if err != nil {
		return err
	}
	defer bus.Close(context.Background())

	var indexer search.Indexer
	if cfg.Elastic.Enabled {
		elasticClient, err := search.NewElasticClient(cfg.Elastic)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Elasticsearch client, continuing without search")
		} else {
			indexer = elasticClient
		}
	}

	periodRepo := repository.NewPeriodRepository(conn)
	templateRepo := repository.NewTemplateRepository(conn)
	checklistRepo := repository.NewChecklistRepository(conn)
	chatRepo := repository.NewChatRepository(conn)

	checklists := service.NewChecklistService(
		checklistRepo,
		periodRepo,
		templateRepo,
		redisClient,
		bus,
		cfg.ServiceBus.UpdateQueue,
		log,
	)
	chat := service.NewChatService(chatRepo, bus, indexer, cfg.ServiceBus.UpdateQueue, log)

	// Bridge queue consumer
	g.Go(func() error {
		log.WithField("queue", cfg.ServiceBus.BridgeQueue).Info("Starting bridge queue consumer")
		return consumeBridgeMessages(ctx, bus, chat, cfg)
	})

	// Progress reconciliation job
	g.Go(func() error {
		log.WithField("interval", cfg.Worker.ReconcileInterval).Info("Starting progress reconciliation job")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.ReconcileInterval),
			gocron.NewTask(func() {
				repaired, err := checklists.ReconcileProgress(ctx)
				if err != nil {
					log.WithError(err).Error("Failed to reconcile checklist progress")
					return
				}
				if repaired > 0 {
					log.WithField("repaired", repaired).Info("Reconciled checklist progress")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()
		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.WithError(err).Error("Worker error")
		return err
	}

	log.Info("Worker shutting down gracefully")
	return nil
}

// consumeBridgeMessages pulls bridged chat messages off the inbound
// queue and hands them to the chat service. Messages that fail to parse
// are completed rather than abandoned so a poison message cannot wedge
// the queue.
func consumeBridgeMessages(ctx context.Context, bus messagebus.Client, chat service.ChatService, cfg *config.Config) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		messages, err := bus.ReceiveMessages(ctx, cfg.ServiceBus.BridgeQueue, cfg.Worker.ReceiveBatchSize)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Error("Failed to receive bridge messages")
			if messagebus.IsDisconnectionError(err) {
				time.Sleep(5 * time.Second)
			}
			continue
		}

		if len(messages) == 0 {
			continue
		}

		for _, msg := range messages {
			processBridgeMessage(ctx, chat, msg)
		}
	}
}

func processBridgeMessage(ctx context.Context, chat service.ChatService, msg messagebus.Message) {
	content, err := msg.GetMessage()
	if err != nil {
		log.WithError(err).Warn("Dropping unparseable bridge message")
		if err := msg.Complete(ctx); err != nil {
			log.WithError(err).Error("Failed to complete bridge message")
		}
		return
	}

	raw, err := json.Marshal(content)
	if err != nil {
		log.WithError(err).Warn("Dropping unparseable bridge message")
		_ = msg.Complete(ctx)
		return
	}

	var bridged service.BridgeMessage
	if err := json.Unmarshal(raw, &bridged); err != nil {
		log.WithError(err).Warn("Dropping malformed bridge message")
		_ = msg.Complete(ctx)
		return
	}

	if _, err := chat.IngestBridgeMessage(ctx, &bridged); err != nil {
		log.WithError(err).WithField("external_id", bridged.ExternalID).
			Error("Failed to ingest bridge message")
		if err := msg.Reject(ctx); err != nil {
			log.WithError(err).Error("Failed to abandon bridge message")
		}
		return
	}

	if err := msg.Complete(ctx); err != nil {
		log.WithError(err).Error("Failed to complete bridge message")
	}
}
