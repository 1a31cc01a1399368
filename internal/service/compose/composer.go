// internal/service/compose/composer.go

package compose

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/trend"
)

const (
	keywordPlaceholder = "{keyword}"
	contextPlaceholder = "{context}"

	// Posts target multiple platforms until per-platform dispatch decides
	defaultPlatform = "multiple"
)

// ComposerConfig contains configuration for the post composer
type ComposerConfig struct {
	MaxPosts        int
	HashtagsPerPost int
	Hashtags        []string
}

// Composer turns a trend snapshot into templated social media posts
type Composer struct {
	contexts *ContextBuilder
	selector *TemplateSelector
	chooser  Chooser
	config   ComposerConfig
	logger   zerolog.Logger
	now      func() time.Time
}

// NewComposer creates a new post composer
func NewComposer(
	contexts *ContextBuilder,
	selector *TemplateSelector,
	chooser Chooser,
	config ComposerConfig,
	logger zerolog.Logger,
) *Composer {
	return &Composer{
		contexts: contexts,
		selector: selector,
		chooser:  chooser,
		config:   config,
		logger:   logger.With().Str("component", "composer").Logger(),
		now:      time.Now,
	}
}

// Compose builds up to MaxPosts posts from the snapshot's keywords, in
// source order. An empty keyword list yields an empty result, never an
// error; a template missing a required placeholder skips that one post.
func (c *Composer) Compose(snapshot trend.Snapshot) []post.Post {
	keywords := snapshot.Keywords
	if c.config.MaxPosts > 0 && len(keywords) > c.config.MaxPosts {
		keywords = keywords[:c.config.MaxPosts]
	}

	posts := make([]post.Post, 0, len(keywords))
	for _, keyword := range keywords {
		context := c.contexts.Build(keyword, snapshot.Interest, snapshot.Related[keyword])
		category, template := c.selector.Select()

		content, err := renderTemplate(template, keyword, context)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("keyword", keyword).
				Str("category", string(category)).
				Msg("skipping post with unusable template")
			continue
		}

		hashtags := sampleHashtags(c.config.Hashtags, c.config.HashtagsPerPost, c.chooser)
		if len(hashtags) > 0 {
			content += " " + strings.Join(hashtags, " ")
		}

		posts = append(posts, post.Post{
			ID:             uuid.New().String(),
			Content:        content,
			Keyword:        keyword,
			Category:       category,
			Platform:       defaultPlatform,
			CreatedAt:      c.now(),
			CharacterCount: utf8.RuneCountInString(content),
		})
	}

	return posts
}

// renderTemplate substitutes the keyword and context placeholders. Templates
// lacking either placeholder are rejected.
func renderTemplate(template, keyword, context string) (string, error) {
	if !strings.Contains(template, keywordPlaceholder) {
		return "", fmt.Errorf("template missing %s placeholder", keywordPlaceholder)
	}
	if !strings.Contains(template, contextPlaceholder) {
		return "", fmt.Errorf("template missing %s placeholder", contextPlaceholder)
	}

	replacer := strings.NewReplacer(keywordPlaceholder, keyword, contextPlaceholder, context)
	return replacer.Replace(template), nil
}

// sampleHashtags draws n hashtags from the pool without replacement
func sampleHashtags(pool []string, n int, chooser Chooser) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}

	// Partial Fisher-Yates over a copy of the pool
	candidates := make([]string, len(pool))
	copy(candidates, pool)

	sampled := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + chooser.Choose(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		sampled = append(sampled, candidates[i])
	}

	return sampled
}
