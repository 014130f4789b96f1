package churn

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/linegauge/internal/vcs"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func initGitRepo(t *testing.T, path string) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(path, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	return repo
}

func writeFileAndCommit(t *testing.T, repo *git.Repository, repoPath, filename, content, author string, when time.Time) {
	t.Helper()

	filePath := filepath.Join(repoPath, filename)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", filename, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", filename, err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := w.Add(filename); err != nil {
		t.Fatalf("Failed to add file %s: %v", filename, err)
	}

	_, err = w.Commit("update "+filename, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: author + "@example.com",
			When:  when,
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

func TestBuild_Summaries(t *testing.T) {
	dir := t.TempDir()
	repo := initGitRepo(t, dir)

	writeFileAndCommit(t, repo, dir, "a.go", "one\ntwo\n", "alice", base)
	writeFileAndCommit(t, repo, dir, "a.go", "one\ntwo\nthree\n", "bob", base.Add(36*time.Hour))
	writeFileAndCommit(t, repo, dir, "pkg/b.go", "x\n", "alice", base.Add(48*time.Hour))
	writeFileAndCommit(t, repo, dir, "a.go", "one\n", "alice", base.Add(72*time.Hour))

	var ticks int
	ix, err := Build(context.Background(), dir, WithProgress(func() { ticks++ }))
	require.NoError(t, err)
	assert.Equal(t, 4, ticks)
	assert.Equal(t, 2, ix.Len())

	a, ok := ix.Summary(filepath.Join(dir, "a.go"))
	require.True(t, ok)
	assert.Equal(t, 3, a.CommitCount)
	assert.Equal(t, 3, a.LinesAdded)
	assert.Equal(t, 2, a.LinesDeleted)
	assert.Equal(t, 2, a.AuthorCount)
	assert.True(t, a.FirstCommit.Equal(base))
	assert.True(t, a.LastCommit.Equal(base.Add(72*time.Hour)))
	assert.InDelta(t, 1.0, a.ChurnRate, 1e-9)

	b, ok := ix.Summary(filepath.Join(dir, "pkg", "b.go"))
	require.True(t, ok)
	assert.Equal(t, 1, b.CommitCount)
	assert.Zero(t, b.ChurnRate, "a single commit spans less than a day")
}

func TestBuild_SummaryIsCopy(t *testing.T) {
	dir := t.TempDir()
	repo := initGitRepo(t, dir)
	writeFileAndCommit(t, repo, dir, "a.go", "one\n", "alice", base)

	ix, err := Build(context.Background(), dir)
	require.NoError(t, err)

	s, ok := ix.Summary(filepath.Join(dir, "a.go"))
	require.True(t, ok)
	s.CommitCount = 99

	again, _ := ix.Summary(filepath.Join(dir, "a.go"))
	assert.Equal(t, 1, again.CommitCount)
}

func TestBuild_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo := initGitRepo(t, dir)
	writeFileAndCommit(t, repo, dir, "sub/c.py", "pass\n", "carol", base)

	ix, err := Build(context.Background(), filepath.Join(dir, "sub"))
	require.NoError(t, err)

	_, ok := ix.Summary(filepath.Join(dir, "sub", "c.py"))
	assert.True(t, ok)
}

func TestIndex_UnknownPaths(t *testing.T) {
	dir := t.TempDir()
	repo := initGitRepo(t, dir)
	writeFileAndCommit(t, repo, dir, "a.go", "one\n", "alice", base)

	ix, err := Build(context.Background(), dir)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
	}{
		{"untracked file", filepath.Join(dir, "new.go")},
		{"outside repository", filepath.Join(t.TempDir(), "a.go")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := ix.Summary(tt.path)
			assert.False(t, ok)
			assert.Nil(t, s)
		})
	}
}

func TestBuild_NotARepository(t *testing.T) {
	_, err := Build(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestBuild_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	repo := initGitRepo(t, dir)
	writeFileAndCommit(t, repo, dir, "a.go", "one\n", "alice", base)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeRepo struct {
	commits []vcs.Commit
	err     error
}

func (r fakeRepo) Root() string { return "/fake" }

func (r fakeRepo) Walk(ctx context.Context, since *time.Time, fn func(vcs.Commit) error) error {
	if r.err != nil {
		return r.err
	}
	for _, c := range r.commits {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func openerFor(repo vcs.Repository, err error) vcs.Opener {
	return vcs.OpenerFunc(func(string) (vcs.Repository, error) { return repo, err })
}

func TestBuild_OpenerErrors(t *testing.T) {
	_, err := Build(context.Background(), "/fake", WithOpener(openerFor(nil, errors.New("not a git repository"))))
	assert.ErrorContains(t, err, "not a git repository")

	_, err = Build(context.Background(), "/fake", WithOpener(openerFor(fakeRepo{err: errors.New("log error")}, nil)))
	assert.ErrorContains(t, err, "log error")
}

func TestBuild_FoldsFakeHistory(t *testing.T) {
	repo := fakeRepo{commits: []vcs.Commit{
		{AuthorEmail: "b@x", When: base.Add(48 * time.Hour), Changes: []vcs.FileChange{{Path: "lib/a.rb", Added: 4, Deleted: 1}}},
		{AuthorEmail: "a@x", When: base, Changes: []vcs.FileChange{
			{Path: "lib/a.rb", Added: 10},
			{Path: "lib/b.rb", Added: 2},
		}},
	}}

	ix, err := Build(context.Background(), "/fake", WithOpener(openerFor(repo, nil)))
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())

	a, ok := ix.Summary("/fake/lib/a.rb")
	require.True(t, ok)
	assert.Equal(t, 2, a.CommitCount)
	assert.Equal(t, 14, a.LinesAdded)
	assert.Equal(t, 1, a.LinesDeleted)
	assert.Equal(t, 2, a.AuthorCount)
	assert.Equal(t, base, a.FirstCommit)
	assert.Equal(t, base.Add(48*time.Hour), a.LastCommit)
	assert.InDelta(t, 1.0, a.ChurnRate, 1e-9)

	_, ok = ix.Summary("/elsewhere/lib/a.rb")
	assert.False(t, ok)
}
