// Package dockerfile renders the generated toolchain Dockerfiles.
//
// Three kinds of Dockerfile are produced:
//
//   - concrete: one per release, building on the shared toolchain base image
//     and exporting the download URL and checksum of the release archive for
//     each supported architecture;
//   - wildcard: one per major.minor line, building on the concrete image;
//   - latest: a pointer to the published wildcard image of the newest line.
//
// Rendering is deterministic, so re-rendering unchanged inputs yields
// byte-identical output.
package dockerfile

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/MacroPower/xgoimages/pkg/release"
)

const (
	DefaultBaseImage       = "toolchain"
	DefaultLatestImage     = "techknowlogick/xgo"
	DefaultDownloadBaseURL = "https://dl.google.com/go/"
	DefaultBootstrap       = "$BOOTSTRAP_PURE"

	// Filename is the name every generated Dockerfile is written as.
	Filename = "Dockerfile"
)

var (
	// ErrRender indicates a template failed to render.
	ErrRender = errors.New("render dockerfile")

	// ErrNoFiles indicates a concrete Dockerfile was requested without any
	// release files.
	ErrNoFiles = errors.New("no release files")
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Options configures a [Renderer]. Empty fields take their defaults.
type Options struct {
	// BaseImage is the image concrete Dockerfiles build from.
	BaseImage string
	// LatestImage is the published image repository the latest Dockerfile
	// points at.
	LatestImage string
	// DownloadBaseURL is prefixed to release filenames.
	DownloadBaseURL string
	// Bootstrap is the instruction that installs the downloaded toolchain.
	Bootstrap string
}

// Renderer renders Dockerfiles from the embedded templates.
type Renderer struct {
	tmpl *template.Template
	opts Options
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.BaseImage == "" {
		opts.BaseImage = DefaultBaseImage
	}
	if opts.LatestImage == "" {
		opts.LatestImage = DefaultLatestImage
	}
	if opts.DownloadBaseURL == "" {
		opts.DownloadBaseURL = DefaultDownloadBaseURL
	}
	if opts.Bootstrap == "" {
		opts.Bootstrap = DefaultBootstrap
	}

	tmpl, err := template.New("dockerfile").
		Option("missingkey=error").
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: parse templates: %w", ErrRender, err)
	}

	return &Renderer{tmpl: tmpl, opts: opts}, nil
}

type archData struct {
	Name   string
	URL    string
	SHA256 string
}

type concreteData struct {
	BaseImage   string
	DefaultArch string
	Digits      string
	Bootstrap   string
	Arches      []archData
	MultiArch   bool
}

// Concrete renders the Dockerfile for a single release. files holds one
// release file per target architecture; the first one is the default
// architecture. With more than one file, the download is selected at build
// time from the TARGETARCH build argument.
func (r *Renderer) Concrete(v release.Version, files []release.File) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, v.Raw)
	}

	data := concreteData{
		BaseImage:   r.opts.BaseImage,
		DefaultArch: files[0].Arch,
		Digits:      v.Digits(),
		Bootstrap:   r.opts.Bootstrap,
		MultiArch:   len(files) > 1,
	}
	for _, f := range files {
		data.Arches = append(data.Arches, archData{
			Name:   f.Arch,
			URL:    r.DownloadURL(f),
			SHA256: f.SHA256,
		})
	}

	return r.execute("concrete.Dockerfile.tmpl", data)
}

// Wildcard renders the Dockerfile for a major.minor line, building on the
// concrete image of v.
func (r *Renderer) Wildcard(v release.Version) ([]byte, error) {
	return r.execute("wildcard.Dockerfile.tmpl", struct{ Concrete string }{
		Concrete: v.Concrete,
	})
}

// Latest renders the latest pointer Dockerfile for v.
func (r *Renderer) Latest(v release.Version) ([]byte, error) {
	return r.execute("latest.Dockerfile.tmpl", struct{ Image, Wildcard string }{
		Image:    r.opts.LatestImage,
		Wildcard: v.Wildcard,
	})
}

// DownloadURL returns the download location of f.
func (r *Renderer) DownloadURL(f release.File) string {
	return strings.TrimSuffix(r.opts.DownloadBaseURL, "/") + "/" + f.Filename
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := r.tmpl.ExecuteTemplate(buf, name, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}

	return buf.Bytes(), nil
}
