// Package generator produces the toolchain Dockerfiles for the current
// upstream releases and records what it saw.
//
// A run fetches the release feed, plans every Dockerfile in memory, and only
// then touches the filesystem. Any fetch, parse, count or file-selection
// failure therefore leaves the output directory and state files untouched.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/MacroPower/xgoimages/pkg/dockerfile"
	"github.com/MacroPower/xgoimages/pkg/paths"
	"github.com/MacroPower/xgoimages/pkg/release"
	"github.com/MacroPower/xgoimages/pkg/state"
	"github.com/MacroPower/xgoimages/pkg/tracing"
)

const (
	DefaultOS        = "linux"
	DefaultOutputDir = "docker"
	DefaultLatestDir = "go-latest"
)

// DefaultArches are the architectures selected when none are configured.
var DefaultArches = []string{"amd64", "arm64"}

// FeedSource returns the current release feed.
type FeedSource interface {
	Fetch(ctx context.Context) (*release.Feed, error)
}

// StateSaver persists the result of a run.
type StateSaver interface {
	Save(st state.State) error
}

// Options configures a [Generator]. Empty fields take their defaults.
type Options struct {
	// OS selects release files by operating system.
	OS string
	// Arches selects release files by architecture, in Dockerfile order.
	Arches []string
	// OutputDir is the directory Dockerfile directories are created in.
	OutputDir string
	// LatestDir is the directory name of the latest pointer, relative to
	// OutputDir.
	LatestDir string
	// Tracer times the steps of a run. Defaults to a [tracing.LoggingTracer]
	// on the default logger.
	Tracer tracing.Tracer
}

// Generator writes the Dockerfiles for a release feed.
type Generator struct {
	feed     FeedSource
	renderer *dockerfile.Renderer
	state    StateSaver
	opts     Options
}

// New returns a [Generator].
func New(feed FeedSource, renderer *dockerfile.Renderer, saver StateSaver, opts Options) *Generator {
	if opts.OS == "" {
		opts.OS = DefaultOS
	}
	if len(opts.Arches) == 0 {
		opts.Arches = DefaultArches
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.LatestDir == "" {
		opts.LatestDir = DefaultLatestDir
	}
	if opts.Tracer == nil {
		opts.Tracer = tracing.NewLoggingTracer(nil)
	}

	return &Generator{
		feed:     feed,
		renderer: renderer,
		state:    saver,
		opts:     opts,
	}
}

// Artifact is a single generated Dockerfile.
type Artifact struct {
	// Dir is the directory the Dockerfile is written to.
	Dir string
	// Path is the full path of the Dockerfile.
	Path string
	// Content is the rendered Dockerfile.
	Content []byte
}

// Result summarizes a run.
type Result struct {
	// Versions are the release versions in feed order.
	Versions []string
	// Hash is the digest of the fetched feed.
	Hash string
	// Latest is the release the latest pointer refers to.
	Latest release.Version
	// Artifacts are the Dockerfiles written, in write order.
	Artifacts []Artifact
}

// Run fetches the feed, writes all Dockerfiles and saves the state.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	span := g.opts.Tracer.StartSpan("fetch")
	feed, err := g.feed.Fetch(ctx)
	span.Finish()

	if err != nil {
		return nil, err
	}

	span = g.opts.Tracer.StartSpan("plan")
	res, err := g.Plan(feed)
	span.Finish()

	if err != nil {
		return nil, err
	}

	span = g.opts.Tracer.StartSpan("write")
	span.SetAttr("artifacts", len(res.Artifacts))
	err = g.write(res.Artifacts)
	span.Finish()

	if err != nil {
		return nil, err
	}

	if err := g.state.Save(state.State{Versions: res.Versions, Hash: res.Hash}); err != nil {
		return nil, err
	}

	slog.Info("saved state",
		slog.String("versions", state.JoinVersions(res.Versions)),
		slog.String("hash", res.Hash),
	)

	return res, nil
}

// Plan renders every Dockerfile for feed without writing anything.
func (g *Generator) Plan(feed *release.Feed) (*Result, error) {
	res := &Result{
		Versions: feed.Versions(),
		Hash:     feed.Digest(),
	}

	for _, r := range feed.Releases {
		files := make([]release.File, 0, len(g.opts.Arches))
		for _, arch := range g.opts.Arches {
			f, err := r.FileFor(g.opts.OS, arch)
			if err != nil {
				return nil, err
			}

			files = append(files, f)
		}

		v := release.Normalize(r.Version)

		concrete, err := g.renderer.Concrete(v, files)
		if err != nil {
			return nil, err
		}

		wildcard, err := g.renderer.Wildcard(v)
		if err != nil {
			return nil, err
		}

		res.Artifacts = append(res.Artifacts,
			g.artifact(v.Concrete, concrete),
			g.artifact(v.Wildcard, wildcard),
		)
	}

	newest, err := release.Newest(feed.Releases)
	if err != nil {
		return nil, err
	}

	res.Latest = release.Normalize(newest.Version)

	latest, err := g.renderer.Latest(res.Latest)
	if err != nil {
		return nil, err
	}

	res.Artifacts = append(res.Artifacts, g.artifact(g.opts.LatestDir, latest))

	return res, nil
}

func (g *Generator) artifact(name string, content []byte) Artifact {
	dir := filepath.Join(g.opts.OutputDir, name)

	return Artifact{
		Dir:     dir,
		Path:    filepath.Join(dir, dockerfile.Filename),
		Content: content,
	}
}

func (g *Generator) write(artifacts []Artifact) error {
	if err := ensureDir(g.opts.OutputDir); err != nil {
		return err
	}

	for _, a := range artifacts {
		if err := ensureDir(a.Dir); err != nil {
			return err
		}

		if err := paths.WriteFileAtomic(a.Path, a.Content, 0o644); err != nil {
			return fmt.Errorf("write dockerfile: %w", err)
		}

		slog.Debug("wrote dockerfile", slog.String("path", a.Path))
	}

	return nil
}

func ensureDir(dir string) error {
	created, err := paths.EnsureDir(dir)
	if err != nil {
		return err
	}

	if !created {
		slog.Info("directory already exists", slog.String("dir", dir))
	}

	return nil
}
