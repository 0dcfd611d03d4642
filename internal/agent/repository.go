package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/danielpatrickdp/agit/internal/changeset"
)

// maxContentBytes caps how much of a file is diffed. Larger files are
// announced without content lines.
const maxContentBytes = 1 << 20

// #region repository

// Author identifies the agent's commits.
type Author struct {
	Name  string
	Email string
}

// Repository is a git working tree the agent watches and commits into.
type Repository struct {
	repo   *git.Repository
	wt     *git.Worktree
	root   string
	author Author
	remote string
}

// OpenRepository opens the repository containing path.
func OpenRepository(path string, author Author, remote string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	if remote == "" {
		remote = git.DefaultRemoteName
	}
	return &Repository{
		repo:   repo,
		wt:     wt,
		root:   wt.Filesystem.Root(),
		author: author,
		remote: remote,
	}, nil
}

// Root is the working tree's top-level directory.
func (r *Repository) Root() string {
	return r.root
}

// #endregion repository

// #region perceive

// Perceive renders the working tree's uncommitted changes as change-set text.
func (r *Repository) Perceive(ctx context.Context) (string, error) {
	records, err := r.Changes(ctx)
	if err != nil {
		return "", err
	}
	return changeset.Format(records), nil
}

// Changes lists uncommitted changes, sorted by path, with added and removed
// lines computed against HEAD. Unchanged and ignored files are skipped.
func (r *Repository) Changes(ctx context.Context) ([]changeset.Record, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	head, err := r.headCommit()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(status))
	for p := range status {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	records := make([]changeset.Record, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kind, ok := classifyStatus(status[p])
		if !ok {
			continue
		}
		rec := changeset.Record{Path: p, Kind: kind}

		var before, after string
		if kind != changeset.KindNew {
			before = r.headContent(head, p)
		}
		if kind != changeset.KindDeleted {
			after = r.worktreeContent(p)
		}
		rec.Added, rec.Removed = lineDiff(before, after)
		records = append(records, rec)
	}
	return records, nil
}

func classifyStatus(fs *git.FileStatus) (changeset.Kind, bool) {
	switch {
	case fs.Worktree == git.Deleted || fs.Staging == git.Deleted:
		return changeset.KindDeleted, true
	case fs.Worktree == git.Untracked || fs.Staging == git.Added:
		return changeset.KindNew, true
	case fs.Worktree == git.Modified || fs.Staging == git.Modified,
		fs.Staging == git.Renamed, fs.Staging == git.Copied:
		return changeset.KindModified, true
	default:
		return "", false
	}
}

func (r *Repository) headCommit() (*object.Commit, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}
	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("head commit: %w", err)
	}
	return c, nil
}

func (r *Repository) headContent(head *object.Commit, path string) string {
	if head == nil {
		return ""
	}
	f, err := head.File(path)
	if err != nil || f.Size > maxContentBytes {
		return ""
	}
	if bin, err := f.IsBinary(); err != nil || bin {
		return ""
	}
	s, err := f.Contents()
	if err != nil {
		return ""
	}
	return s
}

func (r *Repository) worktreeContent(path string) string {
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(path)))
	if err != nil || len(data) > maxContentBytes || bytes.IndexByte(data, 0) >= 0 {
		return ""
	}
	return string(data)
}

// lineDiff returns the lines only in after and the lines only in before.
func lineDiff(before, after string) (added, removed []string) {
	if before == after {
		return nil, nil
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added = append(added, splitLines(d.Text)...)
		case diffmatchpatch.DiffDelete:
			removed = append(removed, splitLines(d.Text)...)
		}
	}
	return added, removed
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// #endregion perceive

// #region commit

// Commit stages every change, including deletions, and commits it.
func (r *Repository) Commit(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("stage: %w", err)
	}
	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  r.author.Name,
			Email: r.author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash.String(), nil
}

// Push sends the current branch to the configured remote with the git CLI,
// so the user's credential helpers and SSH agent apply.
func (r *Repository) Push(ctx context.Context) error {
	ref, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("head: %w", err)
	}
	cmd := exec.CommandContext(ctx, "git", "-C", r.root, "push", r.remote, ref.Name().Short())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("push %s: %w: %s", ref.Name().Short(), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// #endregion commit
