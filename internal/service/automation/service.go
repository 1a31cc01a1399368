// internal/service/automation/service.go

package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/trend"
)

// Composer builds posts from a trend snapshot
type Composer interface {
	Compose(snapshot trend.Snapshot) []post.Post
}

// ProcessedStore persists the advisory processed-keywords log
type ProcessedStore interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Save(ctx context.Context, keywords map[string]struct{}) error
}

// Archive persists per-run output documents
type Archive interface {
	Write(ctx context.Context, result post.RunResult) (string, error)
}

// Dispatcher sends a run's posts to the configured platforms
type Dispatcher interface {
	Dispatch(ctx context.Context, posts []post.Post)
}

// Config contains configuration for the automation service
type Config struct {
	Region          string
	MaxKeywords     int
	InterestBatch   int
	RelatedKeywords int
	Interval        time.Duration
	RunAtStart      bool
	EventsTopic     string
}

// Service orchestrates the fetch -> compose -> archive -> dispatch pipeline
type Service struct {
	source       trend.Source
	composer     Composer
	store        ProcessedStore
	archive      Archive
	dispatcher   Dispatcher
	eventBus     *nats.Conn
	config       Config
	logger       zerolog.Logger
	postHandlers []func(post.Post) error

	mu      sync.RWMutex
	lastRun *post.RunResult

	// runMu serializes pipeline runs; a triggered run and a scheduler tick
	// must never execute concurrently
	runMu sync.Mutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new automation service. eventBus may be nil when no
// event bus is configured.
func NewService(
	source trend.Source,
	composer Composer,
	store ProcessedStore,
	archive Archive,
	dispatcher Dispatcher,
	eventBus *nats.Conn,
	config Config,
	logger zerolog.Logger,
) *Service {
	return &Service{
		source:     source,
		composer:   composer,
		store:      store,
		archive:    archive,
		dispatcher: dispatcher,
		eventBus:   eventBus,
		config:     config,
		logger:     logger.With().Str("component", "automation").Logger(),
	}
}

// RegisterPostHandler registers a callback invoked for every generated post
func (s *Service) RegisterPostHandler(handler func(post.Post) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postHandlers = append(s.postHandlers, handler)
}

// Start begins the scheduled run loop
func (s *Service) Start(ctx context.Context) error {
	if s.config.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	return nil
}

// Stop gracefully stops the scheduled run loop
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	// Wait for the loop to finish with a timeout
	c := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerRun starts a run in the background. The run is tracked so Stop
// waits for it to finish.
func (s *Service) TriggerRun() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSafely(context.Background())
	}()
}

// LatestRun returns the most recent run result, or nil before the first run
func (s *Service) LatestRun() *post.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastRun
}

// runLoop runs the pipeline on a fixed interval
func (s *Service) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunAtStart {
		s.runSafely(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSafely(ctx)
		}
	}
}

// runSafely executes one run, recovering from unexpected panics so the
// scheduler continues to the next tick.
func (s *Service) runSafely(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("run aborted by unexpected panic")
		}
	}()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("run failed")
	}
}

// RunOnce executes a single pipeline run. Overlapping calls are serialized:
// a triggered run waits for an in-flight scheduler tick and vice versa.
func (s *Service) RunOnce(ctx context.Context) (post.RunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := time.Now().UTC()
	s.logger.Info().Str("region", s.config.Region).Msg("starting trends run")

	// Step 1: fetch trending searches; upstream failure degrades to no data
	keywords, err := s.source.FetchTrending(ctx, s.config.Region)
	if err != nil {
		s.logger.Warn().Err(err).Msg("trend source unavailable, continuing with no keywords")
		keywords = nil
	}
	if s.config.MaxKeywords > 0 && len(keywords) > s.config.MaxKeywords {
		keywords = keywords[:s.config.MaxKeywords]
	}
	s.logger.Info().Int("count", len(keywords)).Msg("fetched trending keywords")

	// Step 2: interest scores for the leading keywords
	interest := map[string]int{}
	if len(keywords) > 0 {
		batch := keywords
		if s.config.InterestBatch > 0 && len(batch) > s.config.InterestBatch {
			batch = batch[:s.config.InterestBatch]
		}

		interest, err = s.source.FetchInterest(ctx, batch, s.config.Region)
		if err != nil {
			s.logger.Warn().Err(err).Msg("interest data unavailable")
			interest = map[string]int{}
		}
	}

	// Step 3: related queries for the top keywords
	related := map[string]trend.RelatedQueries{}
	relatedCount := len(keywords)
	if s.config.RelatedKeywords > 0 && relatedCount > s.config.RelatedKeywords {
		relatedCount = s.config.RelatedKeywords
	}
	for _, keyword := range keywords[:relatedCount] {
		queries, err := s.source.FetchRelated(ctx, keyword, s.config.Region)
		if err != nil {
			s.logger.Warn().Err(err).Str("keyword", keyword).Msg("related queries unavailable")
			continue
		}
		related[keyword] = queries
	}

	// Step 4: load the processed log. The log is advisory: it is read and
	// reported, but does not filter this run's keywords.
	processed, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not load processed log")
		processed = map[string]struct{}{}
	}
	s.logger.Debug().Int("previously_processed", len(processed)).Msg("loaded processed log")

	// Step 5: compose posts
	snapshot := trend.Snapshot{
		Region:    s.config.Region,
		FetchedAt: started,
		Keywords:  keywords,
		Interest:  interest,
		Related:   related,
	}
	posts := s.composer.Compose(snapshot)
	s.logger.Info().Int("count", len(posts)).Msg("generated posts")

	result := post.RunResult{
		ID:               uuid.New().String(),
		Timestamp:        started,
		Region:           s.config.Region,
		TrendingKeywords: keywords,
		InterestData:     interest,
		RelatedQueries:   related,
		GeneratedPosts:   posts,
	}

	// Step 6: archive the run, including empty ones
	if path, err := s.archive.Write(ctx, result); err != nil {
		s.logger.Error().Err(err).Msg("failed to archive run result")
	} else {
		s.logger.Info().Str("path", path).Msg("run result archived")
	}

	// Step 7: dispatch posts
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, posts)
	}

	// Step 8: per-post events and handlers
	for _, p := range posts {
		if err := s.publishPostEvent(p); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish post event")
		}
		s.callPostHandlers(p)
	}

	// Step 9: overwrite the processed log with this run's keywords
	processedNow := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		processedNow[p.Keyword] = struct{}{}
	}
	if err := s.store.Save(ctx, processedNow); err != nil {
		s.logger.Error().Err(err).Msg("failed to save processed log")
	}

	s.mu.Lock()
	s.lastRun = &result
	s.mu.Unlock()

	if err := s.publishRunEvent(result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish run event")
	}

	s.logger.Info().
		Dur("elapsed", time.Since(started)).
		Int("posts", len(posts)).
		Msg("run completed")

	return result, nil
}

// runEvent is the payload published when a run completes
type runEvent struct {
	ID        string    `json:"id"`
	Region    string    `json:"region"`
	Timestamp time.Time `json:"timestamp"`
	Keywords  int       `json:"keywords"`
	Posts     int       `json:"posts"`
}

// publishRunEvent publishes a run-completed event to the event bus
func (s *Service) publishRunEvent(result post.RunResult) error {
	if s.eventBus == nil {
		return nil
	}

	data, err := json.Marshal(runEvent{
		ID:        result.ID,
		Region:    result.Region,
		Timestamp: result.Timestamp,
		Keywords:  len(result.TrendingKeywords),
		Posts:     len(result.GeneratedPosts),
	})
	if err != nil {
		return fmt.Errorf("marshaling run event: %w", err)
	}

	topic := fmt.Sprintf("%s.run.completed", s.config.EventsTopic)
	return s.eventBus.Publish(topic, data)
}

// publishPostEvent publishes a post-generated event to the event bus
func (s *Service) publishPostEvent(p post.Post) error {
	if s.eventBus == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling post event: %w", err)
	}

	topic := fmt.Sprintf("%s.post.generated", s.config.EventsTopic)
	return s.eventBus.Publish(topic, data)
}

// callPostHandlers calls all registered post handlers
func (s *Service) callPostHandlers(p post.Post) {
	s.mu.RLock()
	handlers := make([]func(post.Post) error, len(s.postHandlers))
	copy(handlers, s.postHandlers)
	s.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(p); err != nil {
			s.logger.Warn().Err(err).Str("keyword", p.Keyword).Msg("post handler failed")
		}
	}
}
