package release

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/MacroPower/xgoimages/pkg/http"
)

// DefaultFeedURL is the upstream feed listing the current stable releases.
const DefaultFeedURL = "https://go.dev/dl/?mode=json"

// Fetcher retrieves and validates the release feed.
type Fetcher struct {
	client *http.Client
	url    string
}

// NewFetcher returns a [Fetcher] reading the feed at feedURL through client.
// An empty feedURL selects [DefaultFeedURL].
func NewFetcher(client *http.Client, feedURL string) *Fetcher {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}

	return &Fetcher{client: client, url: feedURL}
}

// Fetch downloads the feed and decodes it. It fails with [ErrFetch] on a
// transport error or non-2xx status, [ErrParse] on a malformed body, and
// [ErrUnexpectedReleaseCount] unless exactly [ExpectedReleases] releases are
// listed.
func (f *Fetcher) Fetch(ctx context.Context) (*Feed, error) {
	slog.Debug("fetching release feed", slog.String("url", f.url))

	body, status, err := f.client.Get(ctx, f.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrFetch, f.url, status)
	}

	feed, err := Parse(body)
	if err != nil {
		return nil, err
	}

	slog.Debug("fetched release feed",
		slog.Any("versions", feed.Versions()),
		slog.Int("bytes", len(body)),
	)

	return feed, nil
}

// Parse decodes a raw feed body and checks the release count.
func Parse(body []byte) (*Feed, error) {
	var releases []Release
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if len(releases) != ExpectedReleases {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedReleaseCount, len(releases), ExpectedReleases)
	}

	return &Feed{Raw: body, Releases: releases}, nil
}
