// internal/service/publish/publisher_test.go

package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
)

// recordingPublisher counts posts and optionally fails every call
type recordingPublisher struct {
	platform string
	err      error
	posted   []string
}

func (p *recordingPublisher) Name() string {
	return p.platform
}

func (p *recordingPublisher) Post(ctx context.Context, content string) error {
	if p.err != nil {
		return p.err
	}
	p.posted = append(p.posted, content)
	return nil
}

func testPosts(contents ...string) []post.Post {
	posts := make([]post.Post, 0, len(contents))
	for _, content := range contents {
		posts = append(posts, post.Post{Content: content, Keyword: content})
	}
	return posts
}

func TestDispatchFansOutToAllPublishers(t *testing.T) {
	twitter := &recordingPublisher{platform: "twitter"}
	facebook := &recordingPublisher{platform: "facebook"}

	dispatcher := NewDispatcher([]Publisher{twitter, facebook}, 5, zerolog.Nop())
	dispatcher.Dispatch(context.Background(), testPosts("one", "two"))

	if len(twitter.posted) != 2 || len(facebook.posted) != 2 {
		t.Fatalf("expected 2 posts per platform, got twitter=%d facebook=%d",
			len(twitter.posted), len(facebook.posted))
	}
}

func TestDispatchCapsPostsPerRun(t *testing.T) {
	twitter := &recordingPublisher{platform: "twitter"}

	dispatcher := NewDispatcher([]Publisher{twitter}, 2, zerolog.Nop())
	dispatcher.Dispatch(context.Background(), testPosts("one", "two", "three", "four"))

	if len(twitter.posted) != 2 {
		t.Fatalf("expected dispatch capped at 2, got %d", len(twitter.posted))
	}
	if twitter.posted[0] != "one" || twitter.posted[1] != "two" {
		t.Fatalf("expected the leading posts, got %v", twitter.posted)
	}
}

func TestDispatchZeroPostsPerRunDisablesDispatch(t *testing.T) {
	twitter := &recordingPublisher{platform: "twitter"}

	dispatcher := NewDispatcher([]Publisher{twitter}, 0, zerolog.Nop())
	dispatcher.Dispatch(context.Background(), testPosts("one"))

	if len(twitter.posted) != 0 {
		t.Fatalf("expected no dispatch, got %v", twitter.posted)
	}
}

func TestDispatchIsolatesPublisherFailures(t *testing.T) {
	broken := &recordingPublisher{platform: "twitter", err: errors.New("rate limited")}
	working := &recordingPublisher{platform: "facebook"}

	dispatcher := NewDispatcher([]Publisher{broken, working}, 5, zerolog.Nop())
	dispatcher.Dispatch(context.Background(), testPosts("one", "two"))

	if len(working.posted) != 2 {
		t.Fatalf("healthy publisher should receive all posts, got %d", len(working.posted))
	}
}

func TestLogPublisherNeverFails(t *testing.T) {
	publisher := NewLogPublisher("twitter", zerolog.Nop())

	if publisher.Name() != "twitter" {
		t.Fatalf("unexpected platform name %q", publisher.Name())
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	if err := publisher.Post(context.Background(), string(long)); err != nil {
		t.Fatalf("dry-run publisher must not fail: %v", err)
	}
}

func TestTwitterCredentialsComplete(t *testing.T) {
	full := TwitterCredentials{
		APIKey:       "k",
		APISecret:    "s",
		AccessToken:  "t",
		AccessSecret: "as",
	}
	if !full.Complete() {
		t.Fatal("expected complete credentials")
	}

	partial := full
	partial.AccessSecret = ""
	if partial.Complete() {
		t.Fatal("expected incomplete credentials")
	}
	if (TwitterCredentials{}).Complete() {
		t.Fatal("expected empty credentials to be incomplete")
	}
}
