// internal/service/compose/templates.go

package compose

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
)

// Chooser abstracts the "choose one of N" capability so selection can be
// made deterministic in tests.
type Chooser interface {
	// Choose returns an index in [0, n)
	Choose(n int) int
}

// randChooser is the default pseudo-random chooser. A single instance is
// shared by the selector and composer and runs can overlap in-process, so
// access to the underlying source is serialized.
type randChooser struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandChooser creates a time-seeded chooser safe for concurrent use
func NewRandChooser() Chooser {
	return &randChooser{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Choose returns a uniformly random index in [0, n)
func (c *randChooser) Choose(n int) int {
	if n <= 1 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.Intn(n)
}

// TemplateSelector picks a category and a template from configured pools
type TemplateSelector struct {
	pools      map[post.Category][]string
	categories []post.Category
	chooser    Chooser
}

// NewTemplateSelector creates a selector over the given category -> pool
// mapping. Every defined category must have at least one template.
func NewTemplateSelector(pools map[string][]string, chooser Chooser) (*TemplateSelector, error) {
	converted := make(map[post.Category][]string, len(pools))
	for name, pool := range pools {
		if len(pool) == 0 {
			return nil, fmt.Errorf("template pool for category %q is empty", name)
		}
		converted[post.Category(name)] = pool
	}

	if len(converted[post.CategoryTrending]) == 0 {
		return nil, fmt.Errorf("template pool for category %q is required", post.CategoryTrending)
	}

	// Stable category order so chooser indices are reproducible
	categories := make([]post.Category, 0, len(converted))
	for category := range converted {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	return &TemplateSelector{
		pools:      converted,
		categories: categories,
		chooser:    chooser,
	}, nil
}

// PoolFor returns the template pool for a category. Unrecognized categories
// deterministically fall back to the trending pool.
func (s *TemplateSelector) PoolFor(category post.Category) []string {
	if pool, ok := s.pools[category]; ok {
		return pool
	}
	return s.pools[post.CategoryTrending]
}

// Select picks a category uniformly from the defined set, then a template
// uniformly from its pool.
func (s *TemplateSelector) Select() (post.Category, string) {
	category := s.categories[s.chooser.Choose(len(s.categories))]
	pool := s.PoolFor(category)
	return category, pool[s.chooser.Choose(len(pool))]
}
