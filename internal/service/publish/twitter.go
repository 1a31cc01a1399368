// internal/service/publish/twitter.go

package publish

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dghubble/oauth1"
	twitter "github.com/g8rswimmer/go-twitter/v2"
)

const twitterHost = "https://api.twitter.com"

// TwitterCredentials holds OAuth1 user-context credentials
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four credentials are present
func (c TwitterCredentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// oauth1Authorizer satisfies the go-twitter authorizer interface. The
// underlying oauth1 transport signs each request, so nothing is added here.
type oauth1Authorizer struct{}

// Add is a no-op; signing happens in the HTTP client transport
func (oauth1Authorizer) Add(req *http.Request) {}

// TwitterPublisher posts content to Twitter via API v2
type TwitterPublisher struct {
	client *twitter.Client
}

var _ Publisher = (*TwitterPublisher)(nil)

// NewTwitterPublisher creates a publisher using OAuth1 user-context auth
func NewTwitterPublisher(creds TwitterCredentials) (*TwitterPublisher, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("twitter credentials are incomplete")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterPublisher{
		client: &twitter.Client{
			Authorizer: oauth1Authorizer{},
			Client:     httpClient,
			Host:       twitterHost,
		},
	}, nil
}

// Name returns the platform name
func (p *TwitterPublisher) Name() string {
	return "twitter"
}

// Post creates a tweet with the given content
func (p *TwitterPublisher) Post(ctx context.Context, content string) error {
	if _, err := p.client.CreateTweet(ctx, twitter.CreateTweetRequest{Text: content}); err != nil {
		return fmt.Errorf("creating tweet: %w", err)
	}
	return nil
}
