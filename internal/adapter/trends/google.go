// internal/adapter/trends/google.go

package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/trend"
)

const (
	defaultBaseURL = "https://trends.google.com"

	// Upstream caps interest-over-time payloads at five keywords
	maxInterestKeywords = 5

	// Trending searches are truncated to the top ten
	maxTrendingKeywords = 10

	timeseriesWidgetID = "TIMESERIES"
	relatedWidgetID    = "RELATED_QUERIES"
)

// GoogleClientConfig contains configuration for the Google Trends client
type GoogleClientConfig struct {
	Language       string
	TimezoneOffset int
	Timeout        time.Duration
}

// GoogleClient fetches trending data from the unofficial Google Trends API
type GoogleClient struct {
	BaseURL    string
	HTTPClient *http.Client
	config     GoogleClientConfig
	logger     zerolog.Logger
}

var _ trend.Source = (*GoogleClient)(nil)

// NewGoogleClient creates a new Google Trends client
func NewGoogleClient(config GoogleClientConfig, logger zerolog.Logger) *GoogleClient {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &GoogleClient{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
		logger: logger.With().Str("component", "google_trends").Logger(),
	}
}

// dailyTrendsResponse mirrors the dailytrends endpoint payload
type dailyTrendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

// exploreResponse mirrors the explore endpoint payload
type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

// multilineResponse mirrors the widgetdata/multiline endpoint payload
type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Time      string `json:"time"`
			Value     []int  `json:"value"`
			IsPartial bool   `json:"isPartial"`
		} `json:"timelineData"`
	} `json:"default"`
}

// relatedSearchesResponse mirrors the widgetdata/relatedsearches endpoint payload
type relatedSearchesResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []struct {
				Query string `json:"query"`
				Value int    `json:"value"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

// FetchTrending returns the top trending searches for a region
func (c *GoogleClient) FetchTrending(ctx context.Context, region string) ([]string, error) {
	params := url.Values{}
	params.Set("hl", c.config.Language)
	params.Set("tz", fmt.Sprintf("%d", c.config.TimezoneOffset))
	params.Set("geo", region)

	body, err := c.get(ctx, "/trends/api/dailytrends", params)
	if err != nil {
		return nil, fmt.Errorf("fetching trending searches: %w", err)
	}

	var resp dailyTrendsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing trending searches: %w", err)
	}

	var keywords []string
	for _, day := range resp.Default.TrendingSearchesDays {
		for _, search := range day.TrendingSearches {
			if search.Title.Query == "" {
				continue
			}
			keywords = append(keywords, search.Title.Query)
			if len(keywords) >= maxTrendingKeywords {
				return keywords, nil
			}
		}
	}

	return keywords, nil
}

// FetchInterest returns the latest interest-over-time bucket for keywords
func (c *GoogleClient) FetchInterest(ctx context.Context, keywords []string, region string) (map[string]int, error) {
	if len(keywords) == 0 {
		return map[string]int{}, nil
	}
	if len(keywords) > maxInterestKeywords {
		keywords = keywords[:maxInterestKeywords]
	}

	widget, err := c.exploreWidget(ctx, keywords, region, timeseriesWidgetID)
	if err != nil {
		return nil, fmt.Errorf("resolving timeseries widget: %w", err)
	}

	params := url.Values{}
	params.Set("hl", c.config.Language)
	params.Set("tz", fmt.Sprintf("%d", c.config.TimezoneOffset))
	params.Set("req", string(widget.Request))
	params.Set("token", widget.Token)

	body, err := c.get(ctx, "/trends/api/widgetdata/multiline", params)
	if err != nil {
		return nil, fmt.Errorf("fetching interest data: %w", err)
	}

	var resp multilineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing interest data: %w", err)
	}

	if len(resp.Default.TimelineData) == 0 {
		return map[string]int{}, nil
	}

	// Latest observed bucket; values align with the keyword order
	latest := resp.Default.TimelineData[len(resp.Default.TimelineData)-1]

	interest := make(map[string]int, len(keywords))
	for i, keyword := range keywords {
		if i < len(latest.Value) {
			interest[keyword] = latest.Value[i]
		}
	}

	return interest, nil
}

// FetchRelated returns ranked related searches for a keyword
func (c *GoogleClient) FetchRelated(ctx context.Context, keyword string, region string) (trend.RelatedQueries, error) {
	widget, err := c.exploreWidget(ctx, []string{keyword}, region, relatedWidgetID)
	if err != nil {
		return trend.RelatedQueries{}, fmt.Errorf("resolving related queries widget: %w", err)
	}

	params := url.Values{}
	params.Set("hl", c.config.Language)
	params.Set("tz", fmt.Sprintf("%d", c.config.TimezoneOffset))
	params.Set("req", string(widget.Request))
	params.Set("token", widget.Token)

	body, err := c.get(ctx, "/trends/api/widgetdata/relatedsearches", params)
	if err != nil {
		return trend.RelatedQueries{}, fmt.Errorf("fetching related queries: %w", err)
	}

	var resp relatedSearchesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return trend.RelatedQueries{}, fmt.Errorf("parsing related queries: %w", err)
	}

	var related trend.RelatedQueries
	for i, ranked := range resp.Default.RankedList {
		queries := make([]trend.RelatedQuery, 0, len(ranked.RankedKeyword))
		for _, rk := range ranked.RankedKeyword {
			queries = append(queries, trend.RelatedQuery{Query: rk.Query, Value: rk.Value})
		}

		// The first ranked list is "top", the second is "rising"
		switch i {
		case 0:
			related.Top = queries
		case 1:
			related.Rising = queries
		}
	}

	return related, nil
}

// exploreWidget resolves the widget token required by the widgetdata endpoints
func (c *GoogleClient) exploreWidget(ctx context.Context, keywords []string, region string, widgetID string) (*exploreWidget, error) {
	type comparisonItem struct {
		Keyword string `json:"keyword"`
		Geo     string `json:"geo"`
		Time    string `json:"time"`
	}

	items := make([]comparisonItem, 0, len(keywords))
	for _, keyword := range keywords {
		items = append(items, comparisonItem{Keyword: keyword, Geo: region, Time: "now 7-d"})
	}

	reqPayload, err := json.Marshal(map[string]interface{}{
		"comparisonItem": items,
		"category":       0,
		"property":       "",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling explore request: %w", err)
	}

	params := url.Values{}
	params.Set("hl", c.config.Language)
	params.Set("tz", fmt.Sprintf("%d", c.config.TimezoneOffset))
	params.Set("req", string(reqPayload))

	body, err := c.get(ctx, "/trends/api/explore", params)
	if err != nil {
		return nil, fmt.Errorf("fetching explore widgets: %w", err)
	}

	var resp exploreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing explore widgets: %w", err)
	}

	for _, widget := range resp.Widgets {
		if widget.ID == widgetID {
			return &exploreWidget{Token: widget.Token, Request: widget.Request}, nil
		}
	}

	return nil, fmt.Errorf("widget %s not present in explore response", widgetID)
}

// exploreWidget is a resolved widget token plus its upstream request payload
type exploreWidget struct {
	Token   string
	Request json.RawMessage
}

// get performs a GET request and strips the XSSI prefix from the response
func (c *GoogleClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends API returned status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return stripXSSIPrefix(body), nil
}

// stripXSSIPrefix removes the )]}' guard Google prepends to JSON responses
func stripXSSIPrefix(body []byte) []byte {
	if i := bytes.IndexAny(body, "{["); i > 0 {
		return body[i:]
	}
	return body
}
