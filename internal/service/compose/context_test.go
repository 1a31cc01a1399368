// internal/service/compose/context_test.go

package compose

import (
	"strings"
	"testing"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/trend"
)

func TestBuildTierPhraseByThreshold(t *testing.T) {
	builder := NewContextBuilder()

	cases := []struct {
		name  string
		score int
		want  string
	}{
		{"peak tier", 95, peakInterestPhrase},
		{"peak boundary stays growing", 80, growingInterestPhrase},
		{"growing tier", 60, growingInterestPhrase},
		{"momentum tier", 10, momentumPhrase},
		{"zero score still momentum", 0, momentumPhrase},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := builder.Build("NTSA", map[string]int{"NTSA": tc.score}, trend.RelatedQueries{})
			if got != tc.want {
				t.Fatalf("score %d: got %q, want %q", tc.score, got, tc.want)
			}
		})
	}
}

func TestBuildOmitsTierPhraseWithoutScore(t *testing.T) {
	builder := NewContextBuilder()

	got := builder.Build("NTSA", map[string]int{"KCSE 2024": 90}, trend.RelatedQueries{})

	if got != fallbackContext {
		t.Fatalf("expected fallback context, got %q", got)
	}
}

func TestBuildAppendsFirstTopRelatedQuery(t *testing.T) {
	builder := NewContextBuilder()
	related := trend.RelatedQueries{
		Top: []trend.RelatedQuery{
			{Query: "ntsa portal", Value: 100},
			{Query: "ntsa booking", Value: 70},
		},
	}

	got := builder.Build("NTSA", map[string]int{"NTSA": 85}, related)

	mustContain(t, got, peakInterestPhrase)
	mustContain(t, got, "Related searches include 'ntsa portal'")
	if strings.Contains(got, "ntsa booking") {
		t.Fatalf("only the first top query should be mentioned, got %q", got)
	}
}

func TestBuildRelatedOnlyWithoutScore(t *testing.T) {
	builder := NewContextBuilder()
	related := trend.RelatedQueries{Top: []trend.RelatedQuery{{Query: "harambee stars fixtures"}}}

	got := builder.Build("Harambee Stars", nil, related)

	if got != "Related searches include 'harambee stars fixtures'" {
		t.Fatalf("unexpected context: %q", got)
	}
}

func TestBuildFallsBackOnEmptyInputs(t *testing.T) {
	builder := NewContextBuilder()

	got := builder.Build("NTSA", nil, trend.RelatedQueries{})

	if got != fallbackContext {
		t.Fatalf("expected fallback context, got %q", got)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	builder := NewContextBuilder()
	interest := map[string]int{"NTSA": 85}
	related := trend.RelatedQueries{Top: []trend.RelatedQuery{{Query: "ntsa portal"}}}

	first := builder.Build("NTSA", interest, related)
	second := builder.Build("NTSA", interest, related)

	if first != second {
		t.Fatalf("expected identical output, got %q then %q", first, second)
	}
}

func mustContain(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Fatalf("expected %q to contain %q", s, substr)
	}
}
