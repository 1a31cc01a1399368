// internal/domain/trend/model.go

package trend

import (
	"time"
)

// RelatedQuery is a single related search suggestion for a keyword
type RelatedQuery struct {
	Query string `json:"query"`
	Value int    `json:"value"`
}

// RelatedQueries holds ranked related searches for a keyword
type RelatedQueries struct {
	Top    []RelatedQuery `json:"top"`
	Rising []RelatedQuery `json:"rising"`
}

// IsEmpty reports whether no related searches are present
func (r RelatedQueries) IsEmpty() bool {
	return len(r.Top) == 0 && len(r.Rising) == 0
}

// Snapshot is the trend data gathered for a region in a single run
type Snapshot struct {
	Region    string                    `json:"region"`
	FetchedAt time.Time                 `json:"fetched_at"`
	Keywords  []string                  `json:"keywords"`
	Interest  map[string]int            `json:"interest"`
	Related   map[string]RelatedQueries `json:"related"`
}
