package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xgoimages/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  slog.Level
		err   error
	}{
		"debug":   {input: "debug", want: slog.LevelDebug},
		"upper":   {input: "WARN", want: slog.LevelWarn},
		"warning": {input: "warning", want: slog.LevelWarn},
		"error":   {input: "error", want: slog.LevelError},
		"empty":   {input: "", want: slog.LevelInfo},
		"unknown": {input: "loud", want: slog.LevelInfo, err: log.ErrUnknownLevel},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		format   string
		contains string
	}{
		"json":   {format: "json", contains: `"msg":"hello"`},
		"logfmt": {format: "logfmt", contains: "msg=hello"},
		"text":   {format: "text", contains: "hello"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			h, err := log.CreateHandlerWithStrings(buf, "info", tc.format)
			require.NoError(t, err)

			logger := slog.New(h)
			logger.Debug("hidden")
			logger.Info("hello", "key", "value")

			assert.Contains(t, buf.String(), tc.contains)
			assert.NotContains(t, buf.String(), "hidden")
		})
	}
}

func TestCreateHandlerWithStringsErrors(t *testing.T) {
	t.Parallel()

	_, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, "info", "xml")
	require.ErrorIs(t, err, log.ErrUnknownFormat)

	_, err = log.CreateHandlerWithStrings(&bytes.Buffer{}, "nope", "json")
	require.ErrorIs(t, err, log.ErrUnknownLevel)
}
