package config_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/xgoimages/pkg/config"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://go.dev/dl/?mode=json", cfg.FeedURL)
	assert.Equal(t, []string{"amd64", "arm64"}, cfg.Arches)
	assert.Equal(t, "docker", cfg.OutputDir)
	assert.Equal(t, "go-latest", cfg.LatestDir)
	assert.Equal(t, ".golang_version", cfg.VersionFile)
	assert.Equal(t, ".golang_hash", cfg.HashFile)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestUnmarshalYAMLBytes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		check func(t *testing.T, cfg *config.Config)
		err   bool
	}{
		"empty": {
			input: "\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.Default(), cfg)
			},
		},
		"overlay": {
			input: "arches: [arm64]\noutputDir: out\ntimeout: 30s\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, []string{"arm64"}, cfg.Arches)
				assert.Equal(t, "out", cfg.OutputDir)
				assert.Equal(t, 30*time.Second, cfg.Timeout)
				assert.Equal(t, "toolchain", cfg.BaseImage)
			},
		},
		"unknown key": {
			input: "outputdirectory: out\n",
			err:   true,
		},
		"malformed": {
			input: "arches: [\n",
			err:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			err := cfg.UnmarshalYAMLBytes([]byte(tc.input))
			if tc.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		mutate func(cfg *config.Config)
		want   []string
	}{
		"bad feed url": {
			mutate: func(cfg *config.Config) { cfg.FeedURL = "not a url" },
			want:   []string{"feedURL"},
		},
		"no arches": {
			mutate: func(cfg *config.Config) { cfg.Arches = nil },
			want:   []string{"arches: must not be empty"},
		},
		"duplicate arches": {
			mutate: func(cfg *config.Config) { cfg.Arches = []string{"amd64", "amd64"} },
			want:   []string{`duplicate architecture "amd64"`},
		},
		"nested latest dir": {
			mutate: func(cfg *config.Config) { cfg.LatestDir = "a/b" },
			want:   []string{"latestDir"},
		},
		"several problems": {
			mutate: func(cfg *config.Config) {
				cfg.OS = ""
				cfg.OutputDir = ""
				cfg.Timeout = -time.Second
			},
			want: []string{"os: must not be empty", "outputDir: must not be empty", "timeout"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, config.ErrInvalidConfig)

			for _, w := range tc.want {
				assert.ErrorContains(t, err, w)
			}
		})
	}
}

//nolint:paralleltest // Uses t.Setenv.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xgoimages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputDir: from-file\nlatestDir: latest\n"), 0o600))

	t.Setenv("XGOIMAGES_OUTPUT_DIR", "from-env")
	t.Setenv("XGOIMAGES_ARCHES", "arm64,amd64")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OutputDir)
	assert.Equal(t, "latest", cfg.LatestDir)
	assert.Equal(t, []string{"arm64", "amd64"}, cfg.Arches)
	assert.Equal(t, "linux", cfg.OS)
}

//nolint:paralleltest // Uses t.Setenv.
func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("XGOIMAGES_TIMEOUT", "soon")

	_, err := config.Load("")
	require.ErrorIs(t, err, config.ErrLoadConfig)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, config.ErrLoadConfig)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteSchema(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, config.WriteSchema(buf))

	var schema struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))

	assert.Equal(t, "xgoimages configuration", schema.Title)
	assert.Contains(t, schema.Properties, "feedURL")
	assert.Contains(t, schema.Properties, "arches")
	assert.Contains(t, schema.Properties, "timeout")
}
