// internal/adapter/trends/google_test.go

package trends

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const xssiPrefix = ")]}',\n"

func testClient(t *testing.T, handler http.Handler) *GoogleClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGoogleClient(GoogleClientConfig{
		Language:       "en-KE",
		TimezoneOffset: 180,
		Timeout:        2 * time.Second,
	}, zerolog.Nop())
	client.BaseURL = server.URL

	return client
}

func TestFetchTrendingParsesDailyTrends(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trends/api/dailytrends", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("geo"); got != "KE" {
			t.Errorf("expected geo=KE, got %q", got)
		}
		fmt.Fprint(w, xssiPrefix+`{
			"default": {
				"trendingSearchesDays": [
					{"trendingSearches": [
						{"title": {"query": "NTSA"}},
						{"title": {"query": ""}},
						{"title": {"query": "KCSE 2024"}}
					]},
					{"trendingSearches": [
						{"title": {"query": "Harambee Stars"}}
					]}
				]
			}
		}`)
	})

	client := testClient(t, mux)
	keywords, err := client.FetchTrending(context.Background(), "KE")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	want := []string{"NTSA", "KCSE 2024", "Harambee Stars"}
	if len(keywords) != len(want) {
		t.Fatalf("expected %d keywords, got %v", len(want), keywords)
	}
	for i, keyword := range want {
		if keywords[i] != keyword {
			t.Fatalf("keyword %d: got %q, want %q", i, keywords[i], keyword)
		}
	}
}

func TestFetchTrendingCapsAtTen(t *testing.T) {
	searches := ""
	for i := 0; i < 15; i++ {
		if i > 0 {
			searches += ","
		}
		searches += fmt.Sprintf(`{"title": {"query": "keyword %d"}}`, i)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/trends/api/dailytrends", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, xssiPrefix+`{"default": {"trendingSearchesDays": [{"trendingSearches": [%s]}]}}`, searches)
	})

	client := testClient(t, mux)
	keywords, err := client.FetchTrending(context.Background(), "KE")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(keywords) != 10 {
		t.Fatalf("expected 10 keywords, got %d", len(keywords))
	}
}

func TestFetchInterestResolvesWidgetAndReadsLatestBucket(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trends/api/explore", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, xssiPrefix+`{
			"widgets": [
				{"id": "TIMESERIES", "token": "ts-token", "request": {"resolution": "DAY"}},
				{"id": "RELATED_QUERIES", "token": "rq-token", "request": {}}
			]
		}`)
	})
	mux.HandleFunc("/trends/api/widgetdata/multiline", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "ts-token" {
			t.Errorf("expected timeseries token, got %q", got)
		}
		fmt.Fprint(w, xssiPrefix+`{
			"default": {
				"timelineData": [
					{"time": "1718400000", "value": [10, 20]},
					{"time": "1718486400", "value": [85, 42]}
				]
			}
		}`)
	})

	client := testClient(t, mux)
	interest, err := client.FetchInterest(context.Background(), []string{"NTSA", "KCSE 2024"}, "KE")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if interest["NTSA"] != 85 {
		t.Fatalf("expected latest bucket value 85 for NTSA, got %d", interest["NTSA"])
	}
	if interest["KCSE 2024"] != 42 {
		t.Fatalf("expected latest bucket value 42 for KCSE 2024, got %d", interest["KCSE 2024"])
	}
}

func TestFetchInterestEmptyKeywordsSkipsRequests(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))

	interest, err := client.FetchInterest(context.Background(), nil, "KE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(interest) != 0 {
		t.Fatalf("expected empty map, got %v", interest)
	}
}

func TestFetchRelatedSplitsTopAndRising(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trends/api/explore", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, xssiPrefix+`{
			"widgets": [
				{"id": "RELATED_QUERIES", "token": "rq-token", "request": {}}
			]
		}`)
	})
	mux.HandleFunc("/trends/api/widgetdata/relatedsearches", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, xssiPrefix+`{
			"default": {
				"rankedList": [
					{"rankedKeyword": [
						{"query": "ntsa portal", "value": 100},
						{"query": "ntsa booking", "value": 70}
					]},
					{"rankedKeyword": [
						{"query": "ntsa news today", "value": 250}
					]}
				]
			}
		}`)
	})

	client := testClient(t, mux)
	related, err := client.FetchRelated(context.Background(), "NTSA", "KE")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(related.Top) != 2 || related.Top[0].Query != "ntsa portal" {
		t.Fatalf("unexpected top queries: %v", related.Top)
	}
	if len(related.Rising) != 1 || related.Rising[0].Query != "ntsa news today" {
		t.Fatalf("unexpected rising queries: %v", related.Rising)
	}
}

func TestFetchRelatedMissingWidgetErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trends/api/explore", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, xssiPrefix+`{"widgets": [{"id": "TIMESERIES", "token": "ts", "request": {}}]}`)
	})

	client := testClient(t, mux)
	if _, err := client.FetchRelated(context.Background(), "NTSA", "KE"); err == nil {
		t.Fatal("expected error when related queries widget is missing")
	}
}

func TestFetchTrendingNonOKStatusErrors(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	if _, err := client.FetchTrending(context.Background(), "KE"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestStripXSSIPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`)]}',` + "\n" + `{"a":1}`, `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{`)]}',[1,2]`, `[1,2]`},
		{``, ``},
	}

	for _, tc := range cases {
		if got := string(stripXSSIPrefix([]byte(tc.in))); got != tc.want {
			t.Fatalf("stripXSSIPrefix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
