// Package matrix builds the CI job matrix for the toolchain images.
//
// The matrix is emitted as a single JSON document and consumed by the CI
// orchestrator as a dynamic job matrix:
//
//	{"fail-fast": false, "matrix": {"include": [{"name": "golang versions",
//	 "golang_version_1": "go1.21.3", "golang_version_2": "go1.20.10"}]}}
package matrix

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	DefaultName       = "golang versions"
	DefaultBasePrefix = "docker/base"

	// Versions is the number of release versions a matrix is built from.
	Versions = 2
)

// ErrUnexpectedVersionCount indicates the matrix was given other than
// [Versions] versions.
var ErrUnexpectedVersionCount = errors.New("unexpected number of versions")

// Descriptor is the top-level matrix document.
type Descriptor struct {
	FailFast bool   `json:"fail-fast"`
	Matrix   Matrix `json:"matrix"`
}

// Matrix holds the matrix entries.
type Matrix struct {
	Include []Include `json:"include"`
}

// Include is a single matrix entry.
type Include struct {
	Name           string `json:"name"`
	GolangVersion1 string `json:"golang_version_1"`
	GolangVersion2 string `json:"golang_version_2"`
	// BaseChanged is only set when the entry reports base image changes.
	BaseChanged *bool `json:"base_changed,omitempty"`
}

// Options configures [New].
type Options struct {
	// Name of the matrix entry. Defaults to [DefaultName].
	Name string
	// BaseChanged is reported in the entry when non-nil.
	BaseChanged *bool
}

// New builds a [Descriptor] from the versions in the version state, newest
// first.
func New(versions []string, opts Options) (*Descriptor, error) {
	if len(versions) != Versions {
		return nil, fmt.Errorf("%w: got %d (%q), want %d",
			ErrUnexpectedVersionCount, len(versions), strings.Join(versions, ","), Versions)
	}

	name := opts.Name
	if name == "" {
		name = DefaultName
	}

	return &Descriptor{
		FailFast: false,
		Matrix: Matrix{
			Include: []Include{{
				Name:           name,
				GolangVersion1: versions[0],
				GolangVersion2: versions[1],
				BaseChanged:    opts.BaseChanged,
			}},
		},
	}, nil
}

// BaseChanged reports whether any of the changed paths is under prefix.
func BaseChanged(changed []string, prefix string) bool {
	for _, p := range changed {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}

	return false
}

// Write encodes d as a single JSON document followed by a newline.
func Write(w io.Writer, d *Descriptor) error {
	if err := json.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("encode matrix: %w", err)
	}

	return nil
}
