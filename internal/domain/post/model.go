// internal/domain/post/model.go

package post

import (
	"time"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/trend"
)

// Category selects a template pool for a post
type Category string

// Defined post categories
const (
	CategoryTrending    Category = "trending"
	CategoryEducational Category = "educational"
	CategoryEngagement  Category = "engagement"
	CategoryNews        Category = "news"
)

// Categories returns the defined categories in stable order
func Categories() []Category {
	return []Category{CategoryTrending, CategoryEducational, CategoryEngagement, CategoryNews}
}

// Post is a composed social media post; never mutated after creation
type Post struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Keyword        string    `json:"keyword"`
	Category       Category  `json:"template_type"`
	Platform       string    `json:"platform"`
	CreatedAt      time.Time `json:"timestamp"`
	CharacterCount int       `json:"character_count"`
}

// RunResult is the output document of one pipeline run
type RunResult struct {
	ID               string                          `json:"id"`
	Timestamp        time.Time                       `json:"timestamp"`
	Region           string                          `json:"region"`
	TrendingKeywords []string                        `json:"trending_keywords"`
	InterestData     map[string]int                  `json:"interest_data"`
	RelatedQueries   map[string]trend.RelatedQueries `json:"related_queries"`
	GeneratedPosts   []Post                          `json:"generated_posts"`
}

// ProcessedLog is the persisted record of keywords already processed
type ProcessedLog struct {
	ProcessedKeywords []string  `json:"processed_keywords"`
	LastUpdated       time.Time `json:"last_updated"`
}
