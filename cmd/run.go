package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"registrar/application"
	"registrar/bot"
	"registrar/config"
	"registrar/database"
	"registrar/events"
	"registrar/infrastructure"
	"registrar/observability"
	"registrar/queue"
	"registrar/repository"
	"registrar/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	SetupLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting registrar bot...")

	// Initialize storage
	log.Info("Connecting to database...")
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	store, err := repository.Open(ctx, databaseURL, cfg.AutoMigrate)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		log.Info("Closing database connection...")
		if err := store.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()
	log.WithField("driver", store.Driver).Info("Database connection established successfully")

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.New(registry)

	// Initialize event bus
	eventBus := events.NewBus()

	if cfg.NATSURL != "" {
		log.Info("Connecting to NATS...")
		natsClient := infrastructure.NewNATSClient(cfg.NATSURL)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		infrastructure.NewNATSEventForwarder(natsClient, infrastructure.NewEventSubjectMapper()).Attach(eventBus)
		log.Info("Domain events will be forwarded to NATS")
	}

	// Initialize services
	guildConfigService := service.NewGuildConfigService(store.GuildConfigs)
	registrationService := service.NewRegistrationService(store.Registrations)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	chat := discordBot.ChatClient()

	// Initialize message handling
	messageQueue := queue.New(cfg.QueueCapacity)
	processor := application.NewProcessor(guildConfigService, registrationService, chat, eventBus, metrics)
	commands := application.NewCommandHandler(guildConfigService, chat, eventBus, metrics)
	dispatcher := application.NewDispatcher(commands, processor, messageQueue, cfg.QueueEnqueueTimeout, metrics)

	if err := discordBot.Start(dispatcher); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}
	defer func() {
		log.Info("Closing Discord connection...")
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}()
	log.Info("Discord bot started successfully")

	g, gctx := errgroup.WithContext(ctx)

	if cfg.DebugAPIAddr != "" {
		router := bot.NewDebugRouter(discordBot, registry)
		g.Go(func() error {
			return bot.RunDebugAPI(gctx, cfg.DebugAPIAddr, router)
		})
	}

	g.Go(func() error {
		log.WithField("queue_capacity", messageQueue.Cap()).Info("Bot is running, waiting for messages...")
		<-gctx.Done()
		log.Info("Shutting down bot...")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// Anything left behind by an interrupted callback is processed before shutdown
	if n := dispatcher.Drain(context.Background()); n > 0 {
		log.WithField("count", n).Info("Processed remaining queued messages")
	}

	log.Info("Shutdown completed")
	return nil
}
