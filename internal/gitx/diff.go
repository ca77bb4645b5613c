package gitx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Change is one modified file in the working tree together with its raw
// unified diff against the index.
type Change struct {
	Path string
	Diff string
}

// diffLinePrefixes are the leading tokens of diff lines worth sending to the
// model. Plain context lines, blank lines and binary notices are dropped to
// shrink the payload.
var diffLinePrefixes = []string{
	"+",
	"-",
	"@@",
	"diff --git",
	"---",
	"+++",
	"index ",
}

// ModifiedFiles lists files with unstaged modifications relative to the
// index. Untracked files are excluded. go-git reports status as a map, so
// paths are sorted to keep the report order stable across runs.
func (r *Repo) ModifiedFiles() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Worktree == git.Unmodified || st.Worktree == git.Untracked {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// FileDiff returns the unified diff between the index and the working tree
// for a single file. go-git cannot produce index-to-worktree unified diffs,
// so this shells out to the git CLI.
func (r *Repo) FileDiff(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", r.root, "diff", "--", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git diff %s: %v\n%s", path, err, stderr.String())
	}
	return stdout.String(), nil
}

// Changes collects the raw per-file diffs for every modified file. A file
// whose diff cannot be retrieved is skipped with a warning on warn;
// collection continues with the remaining files.
func (r *Repo) Changes(ctx context.Context, warn io.Writer) ([]Change, error) {
	files, err := r.ModifiedFiles()
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, f := range files {
		diff, err := r.FileDiff(ctx, f)
		if err != nil {
			fmt.Fprintf(warn, "Warning: Could not get diff for %s: %v\n", f, err)
			continue
		}
		changes = append(changes, Change{Path: f, Diff: diff})
	}
	return changes, nil
}

// FilterDiffLines keeps only the diff lines that carry change information.
func FilterDiffLines(diff string) []string {
	var kept []string
	for _, line := range strings.Split(strings.ReplaceAll(diff, "\r\n", "\n"), "\n") {
		for _, p := range diffLinePrefixes {
			if strings.HasPrefix(line, p) {
				kept = append(kept, line)
				break
			}
		}
	}
	return kept
}

// Bundle joins the filtered per-file blocks, separated by a blank line. Each
// block starts with a "File: <path>" line. Files whose diff filters down to
// nothing contribute no block; no blocks at all yield the empty string.
func Bundle(changes []Change) string {
	var blocks []string
	for _, ch := range changes {
		lines := FilterDiffLines(ch.Diff)
		if len(lines) == 0 {
			continue
		}
		blocks = append(blocks, "File: "+ch.Path+"\n"+strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
