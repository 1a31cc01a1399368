// internal/service/compose/context.go

package compose

import (
	"fmt"
	"strings"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/trend"
)

// Tier phrases keyed to interest score thresholds
const (
	peakInterestPhrase    = "Search interest is at its peak!"
	growingInterestPhrase = "Growing rapidly in search trends."
	momentumPhrase        = "Gaining momentum in search interest."

	fallbackContext = "Stay updated with the latest trends!"
)

// ContextBuilder derives a short descriptive phrase for a trending keyword
type ContextBuilder struct {
}

// NewContextBuilder creates a new context builder
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

// Build produces the context phrase for a keyword. Absent interest scores
// and empty related queries simply skip their phrase; the result falls back
// to a static phrase when nothing was emitted.
func (b *ContextBuilder) Build(keyword string, interest map[string]int, related trend.RelatedQueries) string {
	var parts []string

	if score, ok := interest[keyword]; ok {
		switch {
		case score > 80:
			parts = append(parts, peakInterestPhrase)
		case score > 50:
			parts = append(parts, growingInterestPhrase)
		default:
			parts = append(parts, momentumPhrase)
		}
	}

	if len(related.Top) > 0 && related.Top[0].Query != "" {
		parts = append(parts, fmt.Sprintf("Related searches include '%s'", related.Top[0].Query))
	}

	if len(parts) == 0 {
		return fallbackContext
	}

	return strings.Join(parts, " ")
}
