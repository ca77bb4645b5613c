package gitx

import (
	"errors"
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrNotARepository reports that a path does not name a git working directory.
var ErrNotARepository = errors.New("not a git repository")

// Repo wraps an opened git working directory.
type Repo struct {
	root string
	repo *git.Repository
}

// Open validates that path names a git repository and opens it. A missing
// directory or a directory without git metadata yields ErrNotARepository.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotARepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Repo{root: path, repo: repo}, nil
}

// Root returns the path the repository was opened with.
func (r *Repo) Root() string {
	return r.root
}

// RecentCommits returns the subjects of up to n commits reachable from HEAD,
// newest first. A repository without commits yields nil.
func (r *Repo) RecentCommits(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	head, err := r.repo.Head()
	if err != nil {
		// Unborn HEAD: no history to offer as style reference.
		return nil, nil
	}
	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		subjects = append(subjects, strings.SplitN(c.Message, "\n", 2)[0])
		if len(subjects) >= n {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// Commit stages all tracked changes and records them with the given message.
func (r *Repo) Commit(message string) error {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return errors.New("commit message cannot be empty")
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}
	if _, err := wt.Commit(msg, &git.CommitOptions{}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
