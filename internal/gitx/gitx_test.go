package gitx

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestFilterDiffLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "keeps change lines and headers",
			in: strings.Join([]string{
				"diff --git a/main.go b/main.go",
				"index 1234567..89abcde 100644",
				"--- a/main.go",
				"+++ b/main.go",
				"@@ -1,3 +1,4 @@",
				" package main",
				"+import \"fmt\"",
				"-var unused int",
				"",
				"Binary files a/img.png and b/img.png differ",
			}, "\n"),
			want: []string{
				"diff --git a/main.go b/main.go",
				"index 1234567..89abcde 100644",
				"--- a/main.go",
				"+++ b/main.go",
				"@@ -1,3 +1,4 @@",
				"+import \"fmt\"",
				"-var unused int",
			},
		},
		{
			name: "context only yields nothing",
			in:   " ctx line one\n ctx line two\n\n",
			want: nil,
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDiffLines(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d: %q", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBundleOrderAndOmission(t *testing.T) {
	changes := []Change{
		{Path: "b.go", Diff: "+added b\n"},
		{Path: "skip.txt", Diff: " context only\n"},
		{Path: "a.go", Diff: "-removed a\n"},
	}

	bundle := Bundle(changes)
	blocks := strings.Split(bundle, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %q", len(blocks), bundle)
	}
	if !strings.HasPrefix(blocks[0], "File: b.go\n") {
		t.Errorf("block 0 = %q, want File: b.go first", blocks[0])
	}
	if !strings.HasPrefix(blocks[1], "File: a.go\n") {
		t.Errorf("block 1 = %q, want File: a.go second", blocks[1])
	}
	if strings.Contains(bundle, "skip.txt") {
		t.Error("file with no retained lines should contribute no block")
	}
}

func TestBundleEmpty(t *testing.T) {
	if got := Bundle(nil); got != "" {
		t.Errorf("Bundle(nil) = %q, want empty", got)
	}
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	if err != ErrNotARepository {
		t.Errorf("Open(plain dir) = %v, want ErrNotARepository", err)
	}

	_, err = Open(filepath.Join(t.TempDir(), "missing"))
	if err != ErrNotARepository {
		t.Errorf("Open(missing dir) = %v, want ErrNotARepository", err)
	}
}

func TestOpenRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() = %v, want nil", err)
	}
	if repo.Root() != dir {
		t.Errorf("Root() = %q, want %q", repo.Root(), dir)
	}
}

// initTestRepo creates a repository with one committed file.
func initTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	writeFile(t, dir, "a.txt", "line one\nline two\n")
	commitAll(t, repo, "initial")
	return dir, repo
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func commitAll(t *testing.T, repo *git.Repository, msg string) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatal(err)
	}
	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	if _, err := wt.Commit(msg, &git.CommitOptions{Author: sig}); err != nil {
		t.Fatal(err)
	}
}

func TestModifiedFiles(t *testing.T) {
	dir, _ := initTestRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "a.txt", "line one\nchanged\n")
	writeFile(t, dir, "untracked.txt", "new\n")

	files, err := repo.ModifiedFiles()
	if err != nil {
		t.Fatalf("ModifiedFiles() = %v", err)
	}
	if len(files) != 1 || files[0] != "a.txt" {
		t.Errorf("ModifiedFiles() = %v, want [a.txt]", files)
	}
}

func TestModifiedFilesClean(t *testing.T) {
	dir, _ := initTestRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	files, err := repo.ModifiedFiles()
	if err != nil {
		t.Fatalf("ModifiedFiles() = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("ModifiedFiles() = %v, want none", files)
	}
}

func TestRecentCommits(t *testing.T) {
	dir, gr := initTestRepo(t)
	writeFile(t, dir, "a.txt", "second\n")
	commitAll(t, gr, "feat: second change\n\nbody text")

	repo, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	subjects, err := repo.RecentCommits(5)
	if err != nil {
		t.Fatalf("RecentCommits() = %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("got %d subjects, want 2: %v", len(subjects), subjects)
	}
	if subjects[0] != "feat: second change" {
		t.Errorf("subjects[0] = %q, want first line of newest commit", subjects[0])
	}

	one, err := repo.RecentCommits(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 {
		t.Errorf("RecentCommits(1) returned %d subjects", len(one))
	}
}

func TestRecentCommitsEmptyRepo(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatal(err)
	}
	repo, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	subjects, err := repo.RecentCommits(5)
	if err != nil || subjects != nil {
		t.Errorf("RecentCommits on empty repo = %v, %v; want nil, nil", subjects, err)
	}
}

func TestChanges(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git CLI not installed")
	}

	dir, _ := initTestRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "a.txt", "line one\nline changed\nline three\n")

	changes, err := repo.Changes(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("Changes() = %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	if changes[0].Path != "a.txt" {
		t.Errorf("Path = %q, want a.txt", changes[0].Path)
	}
	if !strings.Contains(changes[0].Diff, "+line changed") {
		t.Errorf("diff missing added line: %q", changes[0].Diff)
	}
	if !strings.Contains(changes[0].Diff, "-line two") {
		t.Errorf("diff missing removed line: %q", changes[0].Diff)
	}
}
