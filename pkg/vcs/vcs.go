// Package vcs inspects the git repository the generators run in.
package vcs

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/MacroPower/xgoimages/pkg/paths"
)

// ErrOpenRepository indicates the git repository could not be opened.
var ErrOpenRepository = errors.New("open repository")

// Repository is a git repository checkout.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository enclosing path.
func Open(path string) (*Repository, error) {
	root, err := paths.FindRepoRoot(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenRepository, err)
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenRepository, root, err)
	}

	return &Repository{repo: repo, root: root}, nil
}

// Root returns the top-level directory of the checkout.
func (r *Repository) Root() string {
	return r.root
}

// ChangedFiles returns the slash-separated paths changed by the HEAD commit
// relative to each of its parents, sorted and without duplicates. For a
// commit without parents, every file in its tree is returned.
func (r *Repository) ChangedFiles() ([]string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", head.Hash(), err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("read tree of %s: %w", commit.Hash, err)
	}

	changed := map[string]struct{}{}

	if commit.NumParents() == 0 {
		err = tree.Files().ForEach(func(f *object.File) error {
			changed[f.Name] = struct{}{}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list files of %s: %w", commit.Hash, err)
		}
	}

	err = commit.Parents().ForEach(func(parent *object.Commit) error {
		parentTree, err := parent.Tree()
		if err != nil {
			return fmt.Errorf("read tree of %s: %w", parent.Hash, err)
		}

		changes, err := parentTree.Diff(tree)
		if err != nil {
			return fmt.Errorf("diff %s..%s: %w", parent.Hash, commit.Hash, err)
		}

		for _, c := range changes {
			if c.From.Name != "" {
				changed[c.From.Name] = struct{}{}
			}
			if c.To.Name != "" {
				changed[c.To.Name] = struct{}{}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(changed))
	for f := range changed {
		files = append(files, f)
	}

	sort.Strings(files)

	slog.Debug("changed files",
		slog.String("commit", commit.Hash.String()),
		slog.Int("count", len(files)),
	)

	return files, nil
}
