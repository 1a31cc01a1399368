// internal/service/publish/publisher.go

package publish

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
)

// Publisher dispatches a post's content to a social platform
type Publisher interface {
	// Name returns the platform name
	Name() string

	// Post publishes the content to the platform
	Post(ctx context.Context, content string) error
}

// LogPublisher is a dry-run publisher that only logs what it would post
type LogPublisher struct {
	platform string
	logger   zerolog.Logger
}

// NewLogPublisher creates a dry-run publisher for a platform
func NewLogPublisher(platform string, logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{
		platform: platform,
		logger:   logger.With().Str("component", "publisher").Str("platform", platform).Logger(),
	}
}

// Name returns the platform name
func (p *LogPublisher) Name() string {
	return p.platform
}

// Post logs the content instead of dispatching it
func (p *LogPublisher) Post(ctx context.Context, content string) error {
	preview := content
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	p.logger.Info().Str("content", preview).Msg("would post")
	return nil
}

// Dispatcher fans a run's top posts out to all configured publishers
type Dispatcher struct {
	publishers  []Publisher
	postsPerRun int
	logger      zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given publishers. postsPerRun
// caps how many of a run's posts are dispatched; zero disables dispatch.
func NewDispatcher(publishers []Publisher, postsPerRun int, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		publishers:  publishers,
		postsPerRun: postsPerRun,
		logger:      logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch sends up to postsPerRun posts to every publisher. Individual
// failures are logged and never abort the run.
func (d *Dispatcher) Dispatch(ctx context.Context, posts []post.Post) {
	if d.postsPerRun <= 0 || len(d.publishers) == 0 {
		return
	}

	if len(posts) > d.postsPerRun {
		posts = posts[:d.postsPerRun]
	}

	for _, p := range posts {
		for _, publisher := range d.publishers {
			if err := publisher.Post(ctx, p.Content); err != nil {
				d.logger.Error().Err(err).
					Str("platform", publisher.Name()).
					Str("keyword", p.Keyword).
					Msg("failed to publish post")
				continue
			}
			d.logger.Info().
				Str("platform", publisher.Name()).
				Str("keyword", p.Keyword).
				Msg("post published")
		}
	}
}
