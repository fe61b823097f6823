package http_test

import (
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xgoimages/pkg/http"
)

type MockDoer struct {
	DoFunc func(req *nethttp.Request) (*nethttp.Response, error)
}

func (m *MockDoer) Do(req *nethttp.Request) (*nethttp.Response, error) {
	return m.DoFunc(req)
}

func TestClientGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodGet, r.Method)

		w.WriteHeader(nethttp.StatusTeapot)
		_, err := w.Write([]byte("short and stout"))
		assert.NoError(t, err)
	}))
	t.Cleanup(server.Close)

	c := http.NewClient(time.Second)

	body, status, err := c.Get(t.Context(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusTeapot, status)
	assert.Equal(t, "short and stout", string(body))
}

func TestClientGetErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		doer     *MockDoer
		url      string
		contains string
	}{
		"bad url": {
			url:      "://nope",
			doer:     &MockDoer{},
			contains: "parse url",
		},
		"transport error": {
			url: "https://example.com/feed",
			doer: &MockDoer{
				DoFunc: func(_ *nethttp.Request) (*nethttp.Response, error) {
					return nil, errors.New("connection refused")
				},
			},
			contains: "connection refused",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := http.NewClientWithDoer(tc.doer)

			_, _, err := c.Get(t.Context(), tc.url)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestClientGetWithDoer(t *testing.T) {
	t.Parallel()

	c := http.NewClientWithDoer(&MockDoer{
		DoFunc: func(req *nethttp.Request) (*nethttp.Response, error) {
			assert.Equal(t, "https://example.com/feed", req.URL.String())

			return &nethttp.Response{
				StatusCode: nethttp.StatusOK,
				Body:       io.NopCloser(strings.NewReader("[]")),
			}, nil
		},
	})

	body, status, err := c.Get(t.Context(), "https://example.com/feed")
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "[]", string(body))
}
