package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	neturl "net/url"
	"time"
)

// Doer is the interface for making HTTP requests.
// See [*net/http.Client] for an implementation.
type Doer interface {
	Do(req *nethttp.Request) (*nethttp.Response, error)
}

type Client struct {
	http Doer
}

// NewClient returns a [Client] backed by a [nethttp.Client] with the given
// timeout. A zero timeout means no timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &nethttp.Client{Timeout: timeout},
	}
}

// NewClientWithDoer returns a [Client] that sends requests through d.
func NewClientWithDoer(d Doer) *Client {
	return &Client{http: d}
}

// Get issues a GET request and returns the full response body along with the
// response status code. A non-2xx status is not an error at this level.
func (c *Client) Get(ctx context.Context, url string) ([]byte, int, error) {
	urlParsed, err := neturl.Parse(url)
	if err != nil {
		return nil, 0, fmt.Errorf("parse url: %w", err)
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, urlParsed.String(), nethttp.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create http request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			slog.Error("close http response body",
				slog.String("url", url),
				slog.Any("err", err),
			)
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return bodyBytes, resp.StatusCode, nil
}
