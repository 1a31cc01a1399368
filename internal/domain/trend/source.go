// internal/domain/trend/source.go

package trend

import (
	"context"
)

// Source supplies trending keywords and auxiliary signal for a region.
// Implementations wrap an upstream trends API; callers treat empty results
// as "no data", never as a fatal condition.
type Source interface {
	// FetchTrending returns the ranked trending keywords for a region
	FetchTrending(ctx context.Context, region string) ([]string, error)

	// FetchInterest returns relative search interest (0-100) per keyword
	// for the most recent observed time bucket
	FetchInterest(ctx context.Context, keywords []string, region string) (map[string]int, error)

	// FetchRelated returns ranked related searches for a keyword
	FetchRelated(ctx context.Context, keyword string, region string) (RelatedQueries, error)
}
