// Package config loads the xgoimages configuration.
//
// Values are resolved in increasing order of precedence: built-in defaults,
// an optional YAML file, then XGOIMAGES_* environment variables. Command-line
// flags are applied on top by the CLI.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/invopop/jsonschema"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/MacroPower/xgoimages/pkg/dockerfile"
	"github.com/MacroPower/xgoimages/pkg/matrix"
	"github.com/MacroPower/xgoimages/pkg/release"
	"github.com/MacroPower/xgoimages/pkg/state"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "XGOIMAGES"

var (
	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig indicates the configuration could not be read.
	ErrLoadConfig = errors.New("load config")
)

// Config is the configuration shared by all commands.
type Config struct {
	// FeedURL is the release feed to read.
	FeedURL string `envconfig:"FEED_URL" json:"feedURL,omitempty" yaml:"feedURL,omitempty"`
	// DownloadBaseURL is prefixed to release filenames in generated Dockerfiles.
	DownloadBaseURL string `envconfig:"DOWNLOAD_BASE_URL" json:"downloadBaseURL,omitempty" yaml:"downloadBaseURL,omitempty"`
	// OS selects release files by operating system.
	OS string `envconfig:"OS" json:"os,omitempty" yaml:"os,omitempty"`
	// Arches selects release files by architecture. The first entry is the
	// default TARGETARCH of generated Dockerfiles.
	Arches []string `envconfig:"ARCHES" json:"arches,omitempty" yaml:"arches,omitempty"`
	// OutputDir is the directory Dockerfile directories are generated in.
	OutputDir string `envconfig:"OUTPUT_DIR" json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	// BaseImage is the image concrete Dockerfiles build from.
	BaseImage string `envconfig:"BASE_IMAGE" json:"baseImage,omitempty" yaml:"baseImage,omitempty"`
	// LatestImage is the published image repository the latest Dockerfile
	// points at.
	LatestImage string `envconfig:"LATEST_IMAGE" json:"latestImage,omitempty" yaml:"latestImage,omitempty"`
	// LatestDir is the directory name of the latest Dockerfile, relative to
	// OutputDir.
	LatestDir string `envconfig:"LATEST_DIR" json:"latestDir,omitempty" yaml:"latestDir,omitempty"`
	// Bootstrap is the instruction that installs the downloaded toolchain.
	Bootstrap string `envconfig:"BOOTSTRAP" json:"bootstrap,omitempty" yaml:"bootstrap,omitempty"`
	// VersionFile holds the comma-separated release versions.
	VersionFile string `envconfig:"VERSION_FILE" json:"versionFile,omitempty" yaml:"versionFile,omitempty"`
	// HashFile holds the digest of the last fetched feed.
	HashFile string `envconfig:"HASH_FILE" json:"hashFile,omitempty" yaml:"hashFile,omitempty"`
	// BasePrefix is the path prefix of the shared base image sources.
	BasePrefix string `envconfig:"BASE_PREFIX" json:"basePrefix,omitempty" yaml:"basePrefix,omitempty"`
	// MatrixName is the name of the CI matrix entry.
	MatrixName string `envconfig:"MATRIX_NAME" json:"matrixName,omitempty" yaml:"matrixName,omitempty"`
	// Timeout bounds the feed request. Zero disables the timeout.
	Timeout time.Duration `envconfig:"TIMEOUT" json:"timeout,omitempty" jsonschema:"type=string" yaml:"timeout,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FeedURL:         release.DefaultFeedURL,
		DownloadBaseURL: dockerfile.DefaultDownloadBaseURL,
		OS:              "linux",
		Arches:          []string{"amd64", "arm64"},
		OutputDir:       "docker",
		BaseImage:       dockerfile.DefaultBaseImage,
		LatestImage:     dockerfile.DefaultLatestImage,
		LatestDir:       "go-latest",
		Bootstrap:       dockerfile.DefaultBootstrap,
		VersionFile:     state.DefaultVersionFile,
		HashFile:        state.DefaultHashFile,
		BasePrefix:      matrix.DefaultBasePrefix,
		MatrixName:      matrix.DefaultName,
		Timeout:         time.Minute,
	}
}

// Load resolves the configuration from the defaults, the YAML file at path
// (skipped when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304 path comes from the command line.
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}

		if err := cfg.UnmarshalYAMLBytes(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UnmarshalYAMLBytes overlays the YAML document in data onto c. Unknown keys
// are rejected.
func (c *Config) UnmarshalYAMLBytes(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}

	return nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var merr error

	if _, err := url.ParseRequestURI(c.FeedURL); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("feedURL: %w", err))
	}
	if _, err := url.ParseRequestURI(c.DownloadBaseURL); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("downloadBaseURL: %w", err))
	}
	if c.OS == "" {
		merr = multierror.Append(merr, errors.New("os: must not be empty"))
	}
	if len(c.Arches) == 0 {
		merr = multierror.Append(merr, errors.New("arches: must not be empty"))
	}

	seen := map[string]bool{}
	for _, a := range c.Arches {
		switch {
		case a == "":
			merr = multierror.Append(merr, errors.New("arches: empty architecture"))
		case seen[a]:
			merr = multierror.Append(merr, fmt.Errorf("arches: duplicate architecture %q", a))
		}
		seen[a] = true
	}

	for _, f := range []struct{ name, value string }{
		{"outputDir", c.OutputDir},
		{"baseImage", c.BaseImage},
		{"latestImage", c.LatestImage},
		{"latestDir", c.LatestDir},
		{"bootstrap", c.Bootstrap},
		{"versionFile", c.VersionFile},
		{"hashFile", c.HashFile},
		{"basePrefix", c.BasePrefix},
		{"matrixName", c.MatrixName},
	} {
		if f.value == "" {
			merr = multierror.Append(merr, fmt.Errorf("%s: must not be empty", f.name))
		}
	}

	if strings.ContainsAny(c.LatestDir, `/\`) {
		merr = multierror.Append(merr, fmt.Errorf("latestDir: %q must be a single path element", c.LatestDir))
	}
	if c.Timeout < 0 {
		merr = multierror.Append(merr, fmt.Errorf("timeout: %s must not be negative", c.Timeout))
	}

	if merr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, merr)
	}

	return nil
}

// WriteSchema writes the JSON Schema of the configuration file to w.
func WriteSchema(w io.Writer) error {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	s := r.Reflect(&Config{})
	s.Title = "xgoimages configuration"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}
