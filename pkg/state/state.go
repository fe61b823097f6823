// Package state persists what the release generator last saw, so that later
// jobs (such as the CI matrix generator) can act on it without refetching.
//
// The state is two small files, each replaced wholesale on save:
//
//   - the version file, a comma-separated list of release versions;
//   - the hash file, the hex digest of the last fetched feed body.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/MacroPower/xgoimages/pkg/paths"
)

const (
	DefaultVersionFile = ".golang_version"
	DefaultHashFile    = ".golang_hash"
)

// ErrStateNotFound indicates the version file does not exist.
var ErrStateNotFound = errors.New("state not found")

// State is the persisted result of a generator run.
type State struct {
	// Versions are the release versions in feed order.
	Versions []string
	// Hash is the hex digest of the raw release feed.
	Hash string
}

// Store reads and writes [State] to a pair of files.
type Store struct {
	VersionFile string
	HashFile    string
}

// NewStore returns a [Store] using the given files. Empty names select
// [DefaultVersionFile] and [DefaultHashFile].
func NewStore(versionFile, hashFile string) *Store {
	if versionFile == "" {
		versionFile = DefaultVersionFile
	}
	if hashFile == "" {
		hashFile = DefaultHashFile
	}

	return &Store{VersionFile: versionFile, HashFile: hashFile}
}

// Load reads the state. A missing version file is [ErrStateNotFound]; a
// missing hash file leaves [State.Hash] empty.
func (s *Store) Load() (State, error) {
	versions, err := os.ReadFile(s.VersionFile)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, fmt.Errorf("%w: %s", ErrStateNotFound, s.VersionFile)
	}
	if err != nil {
		return State{}, fmt.Errorf("read %s: %w", s.VersionFile, err)
	}

	st := State{Versions: SplitVersions(string(versions))}

	hash, err := os.ReadFile(s.HashFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no hash state", slog.String("file", s.HashFile))
	case err != nil:
		return State{}, fmt.Errorf("read %s: %w", s.HashFile, err)
	default:
		st.Hash = strings.TrimSpace(string(hash))
	}

	return st, nil
}

// Save replaces both state files.
func (s *Store) Save(st State) error {
	if err := paths.WriteFileAtomic(s.HashFile, []byte(st.Hash), 0o644); err != nil {
		return fmt.Errorf("save hash state: %w", err)
	}

	if err := paths.WriteFileAtomic(s.VersionFile, []byte(JoinVersions(st.Versions)), 0o644); err != nil {
		return fmt.Errorf("save version state: %w", err)
	}

	return nil
}

// JoinVersions serializes versions for the version file.
func JoinVersions(versions []string) string {
	return strings.Join(versions, ",")
}

// SplitVersions parses the content of a version file. Surrounding whitespace,
// including a trailing newline, is ignored.
func SplitVersions(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return parts
}
