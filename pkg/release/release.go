package release

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrFetch indicates the feed could not be retrieved.
	ErrFetch = errors.New("fetch release feed")

	// ErrParse indicates the feed body was not a valid release list.
	ErrParse = errors.New("parse release feed")

	// ErrUnexpectedReleaseCount indicates the feed did not list exactly
	// [ExpectedReleases] releases.
	ErrUnexpectedReleaseCount = errors.New("unexpected number of releases")

	// ErrFileNotFound indicates a release has no file for a requested
	// OS and architecture.
	ErrFileNotFound = errors.New("release file not found")

	// ErrInvalidVersion indicates a version string could not be ordered.
	ErrInvalidVersion = errors.New("invalid version")
)

// ExpectedReleases is the number of stable releases the feed must list.
const ExpectedReleases = 2

// Release is a single entry of the release feed.
type Release struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
	Files   []File `json:"files"`
}

// File is a distribution file published for a [Release].
type File struct {
	Filename string `json:"filename"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Version  string `json:"version"`
	SHA256   string `json:"sha256"`
	Kind     string `json:"kind"`
}

// FileFor returns the first file matching goos and goarch.
func (r Release) FileFor(goos, goarch string) (File, error) {
	for _, f := range r.Files {
		if f.OS == goos && f.Arch == goarch {
			return f, nil
		}
	}

	return File{}, fmt.Errorf("%w: %s has no %s/%s file", ErrFileNotFound, r.Version, goos, goarch)
}

// Feed is the decoded release feed together with the raw body it was decoded
// from.
type Feed struct {
	Raw      []byte
	Releases []Release
}

// Versions returns the upstream version strings in feed order.
func (f *Feed) Versions() []string {
	versions := make([]string, 0, len(f.Releases))
	for _, r := range f.Releases {
		versions = append(versions, r.Version)
	}

	return versions
}

// Digest returns the hex-encoded sha256 of the raw feed body.
func (f *Feed) Digest() string {
	return Digest(f.Raw)
}

// Digest returns the hex-encoded sha256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}
