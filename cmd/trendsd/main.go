// cmd/trendsd/main.go

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/adapter/storage"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/adapter/trends"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/config"
	logging "github.com/KibzGithub7407/kenya-trends-automation/internal/infra/log"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/server"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/service/automation"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/service/compose"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/service/publish"
)

const (
	modeOnce     = "once"
	modeSchedule = "schedule"
)

func main() {
	runOnce := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Load environment variables from .env when present
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)

	mode := resolveRunMode(*runOnce, cfg.RunMode)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the trend source
	source := trends.NewGoogleClient(trends.GoogleClientConfig{
		Language:       cfg.Trends.Language,
		TimezoneOffset: cfg.Trends.TimezoneOffset,
		Timeout:        cfg.Trends.RequestTimeout,
	}, logger)

	// Initialize the composition stack
	chooser := compose.NewRandChooser()
	selector, err := compose.NewTemplateSelector(cfg.Content.Templates, chooser)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid template configuration")
	}

	composer := compose.NewComposer(
		compose.NewContextBuilder(),
		selector,
		chooser,
		compose.ComposerConfig{
			MaxPosts:        cfg.Content.MaxPosts,
			HashtagsPerPost: cfg.Content.HashtagsPerPost,
			Hashtags:        cfg.Content.Hashtags,
		},
		logger,
	)

	// Initialize storage adapters
	processedStore := storage.NewProcessedLogStore(cfg.Storage.ProcessedLogPath, logger)
	archive := storage.NewRunArchive(cfg.Storage.DataDir)

	// Initialize publishers
	dispatcher := publish.NewDispatcher(buildPublishers(cfg.Publish, logger), cfg.Publish.PostsPerRun, logger)

	// Connect to the event bus when configured
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer natsConn.Close()
	}

	// Initialize the automation service
	service := automation.NewService(
		source,
		composer,
		processedStore,
		archive,
		dispatcher,
		natsConn,
		automation.Config{
			Region:          cfg.Trends.Region,
			MaxKeywords:     cfg.Trends.MaxKeywords,
			InterestBatch:   cfg.Trends.InterestBatch,
			RelatedKeywords: cfg.Trends.RelatedKeywords,
			Interval:        cfg.Scheduler.Interval,
			RunAtStart:      cfg.Scheduler.RunAtStart,
			EventsTopic:     cfg.NATS.EventsTopic,
		},
		logger,
	)

	if mode == modeOnce {
		if _, err := service.RunOnce(ctx); err != nil {
			logger.Error().Err(err).Msg("run failed")
			os.Exit(1)
		}
		return
	}

	// Scheduled mode: start the run loop
	if err := service.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start automation service")
	}

	// Start HTTP server when enabled
	var httpServer *server.Server
	if cfg.Server.Enabled {
		httpServer = server.NewServer(
			cfg.Server,
			service,
			archive,
			natsConn,
			fmt.Sprintf("%s.post.generated", cfg.NATS.EventsTopic),
			logger,
		)

		go func() {
			logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting HTTP server")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal().Err(err).Msg("HTTP server error")
			}
		}()
	}

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown
	logger.Info().Msg("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
		}
	}

	if err := service.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("automation service shutdown error")
	}

	logger.Info().Msg("shutdown complete")
}

// resolveRunMode picks the run mode from the flag, configuration, or an
// interactive prompt when attached to a terminal.
func resolveRunMode(runOnce bool, configured string) string {
	if runOnce {
		return modeOnce
	}

	switch strings.ToLower(configured) {
	case modeOnce:
		return modeOnce
	case modeSchedule:
		return modeSchedule
	}

	if stdinIsTerminal() {
		return promptRunMode()
	}

	return modeSchedule
}

// promptRunMode asks the operator to choose between a single run and the
// scheduler loop.
func promptRunMode() string {
	fmt.Println("Choose mode:")
	fmt.Println("1. Run once")
	fmt.Println("2. Run with scheduler")
	fmt.Print("Enter (1 or 2): ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(answer) == "2" {
		return modeSchedule
	}
	return modeOnce
}

// stdinIsTerminal reports whether stdin is attached to a terminal
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// buildPublishers assembles the platform publishers. Without complete
// credentials or with publishing disabled, every platform is a dry-run
// publisher.
func buildPublishers(cfg config.PublishConfig, logger zerolog.Logger) []publish.Publisher {
	publishers := []publish.Publisher{}

	creds := publish.TwitterCredentials{
		APIKey:       cfg.TwitterAPIKey,
		APISecret:    cfg.TwitterAPISecret,
		AccessToken:  cfg.TwitterAccessToken,
		AccessSecret: cfg.TwitterAccessSecret,
	}

	if cfg.Enabled && creds.Complete() {
		twitterPublisher, err := publish.NewTwitterPublisher(creds)
		if err != nil {
			logger.Warn().Err(err).Msg("falling back to dry-run twitter publisher")
			publishers = append(publishers, publish.NewLogPublisher("twitter", logger))
		} else {
			publishers = append(publishers, twitterPublisher)
		}
	} else {
		publishers = append(publishers, publish.NewLogPublisher("twitter", logger))
	}

	// Facebook and LinkedIn dispatch is simulated
	publishers = append(publishers, publish.NewLogPublisher("facebook", logger))
	publishers = append(publishers, publish.NewLogPublisher("linkedin", logger))

	return publishers
}

// initNATS connects to the NATS event bus
func initNATS(cfg config.NATSConfig, logger zerolog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
