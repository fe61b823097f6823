package release

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	patchSuffix      = regexp.MustCompile(`\.\d+$`)
	prereleaseSuffix = regexp.MustCompile(`^(\d+(?:\.\d+)*)([a-z]+\d*)$`)
)

// Version holds the image names derived from an upstream version string.
type Version struct {
	// Raw is the upstream version, e.g. "go1.21.3".
	Raw string
	// Concrete is the image name for this exact release, e.g. "go-1.21.3".
	Concrete string
	// Wildcard is the image name for the major.minor line, e.g. "go-1.21.x".
	Wildcard string
}

// Normalize derives a [Version] from an upstream version string. "go1" is
// rewritten to "go-1"; a version without a patch component gets ".0" for its
// concrete name.
func Normalize(raw string) Version {
	v := strings.ReplaceAll(raw, "go1", "go-1")

	if strings.Count(v, ".") > 1 {
		return Version{
			Raw:      raw,
			Concrete: v,
			Wildcard: patchSuffix.ReplaceAllString(v, ".x"),
		}
	}

	return Version{
		Raw:      raw,
		Concrete: v + ".0",
		Wildcard: v + ".x",
	}
}

// Digits returns the concrete version without its "go-" prefix and dots,
// e.g. "1213" for "go-1.21.3".
func (v Version) Digits() string {
	return strings.ReplaceAll(strings.TrimPrefix(v.Concrete, "go-"), ".", "")
}

// Semver parses an upstream version string such as "go1.21.3" or "go1.22rc1".
func Semver(raw string) (*semver.Version, error) {
	s := strings.TrimPrefix(raw, "go")
	if m := prereleaseSuffix.FindStringSubmatch(s); m != nil {
		s = m[1] + "-" + m[2]
	}

	sv, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidVersion, raw, err)
	}

	return sv, nil
}

// Newest returns the release with the highest version, independent of the
// order releases are given in.
func Newest(releases []Release) (Release, error) {
	if len(releases) == 0 {
		return Release{}, fmt.Errorf("%w: no releases", ErrUnexpectedReleaseCount)
	}

	var (
		newest   Release
		newestSV *semver.Version
	)

	for _, r := range releases {
		sv, err := Semver(r.Version)
		if err != nil {
			return Release{}, err
		}

		if newestSV == nil || sv.GreaterThan(newestSV) {
			newest = r
			newestSV = sv
		}
	}

	return newest, nil
}
