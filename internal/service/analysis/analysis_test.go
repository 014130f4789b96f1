package analysis

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/linegauge/internal/vcs"
	"github.com/panbanda/linegauge/pkg/analyzer/score"
	"github.com/panbanda/linegauge/pkg/config"
	"github.com/panbanda/linegauge/pkg/models"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// commitAll stages rel and commits it at when.
func commitAll(t *testing.T, repo *git.Repository, rel string, when time.Time) {
	t.Helper()
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(rel)
	require.NoError(t, err)
	_, err = w.Commit("update "+rel, &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: when},
	})
	require.NoError(t, err)
}

const branchy = "if (a) {\n  b();\n} else {\n  c();\n}\n"

func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	writeFile(t, dir, "src/main.c", branchy)
	commitAll(t, repo, "src/main.c", start)
	writeFile(t, dir, "src/main.c", branchy+"// TODO: split\n")
	commitAll(t, repo, "src/main.c", start.Add(48*time.Hour))

	writeFile(t, dir, "src/untracked.py", "x = 1\n")
	writeFile(t, dir, "node_modules/dep/index.js", "module.exports = 1\n")
	return dir
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.Color = false
	return cfg
}

func TestDiscoverAndAnalyze(t *testing.T) {
	dir := setupRepo(t)
	var logs bytes.Buffer
	svc := New(WithConfig(testConfig()), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	files, err := svc.Discover([]string{dir})
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var total, ticks, commits int
	res, err := svc.AnalyzeMetrics(context.Background(), files, MetricsOptions{
		RepoPath:      dir,
		OnChurnCommit: func() { commits++ },
		OnStart:       func(n int) { total = n },
		OnProgress:    func() { ticks++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, commits, "one tick per commit in history")

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 2, total, "node_modules excluded by default globs")
	assert.Equal(t, 2, ticks)

	byName := map[string]models.FileMetrics{}
	for _, m := range res.Files {
		byName[m.FileName] = m
	}
	require.Contains(t, byName, "main.c")
	require.Contains(t, byName, "untracked.py")

	main := byName["main.c"]
	require.NotNil(t, main.Churn)
	assert.Equal(t, 2, main.Churn.CommitCount)
	assert.InDelta(t, 1.0, main.Churn.ChurnRate, 1e-9)
	assert.Greater(t, main.RiskScore, 0.0)
	assert.Contains(t, main.Findings, "Line 6: Contains TODO")

	untracked := byName["untracked.py"]
	assert.Nil(t, untracked.Churn)
	assert.Zero(t, untracked.RiskScore)

	assert.Equal(t, 1, res.Summary.FilesWithRisk)
}

func TestAnalyzeWithoutRepository(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.c", branchy)

	var logs bytes.Buffer
	svc := New(WithConfig(testConfig()), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	res, err := svc.AnalyzeMetrics(context.Background(), []string{file}, MetricsOptions{RepoPath: dir})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Nil(t, res.Files[0].Churn)
	assert.Contains(t, logs.String(), "no git repository")
}

func TestAnalyzeChurnFailureWarns(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.c", branchy)

	var logs bytes.Buffer
	broken := vcs.OpenerFunc(func(string) (vcs.Repository, error) { return nil, errors.New("corrupt pack") })
	svc := New(WithConfig(testConfig()), WithOpener(broken), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	res, err := svc.AnalyzeMetrics(context.Background(), []string{file}, MetricsOptions{RepoPath: dir})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].HasRisk())
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "corrupt pack")
}

func TestAnalyzeNoChurnAndParallelOverride(t *testing.T) {
	dir := setupRepo(t)
	svc := New(WithConfig(testConfig()))
	files, err := svc.Discover([]string{dir})
	require.NoError(t, err)

	parallel := true
	res, err := svc.AnalyzeMetrics(context.Background(), files, MetricsOptions{
		RepoPath: dir,
		NoChurn:  true,
		Parallel: &parallel,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	for _, m := range res.Files {
		assert.Nil(t, m.Churn)
	}
}

func TestAnalyzeFindingsFromConfig(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.txt", "// TODO\n"+strings.Repeat("x", 50)+"\n")

	cfg := testConfig()
	cfg.Churn.Enabled = false
	cfg.Findings.Secrets = false
	cfg.Findings.MaxLineLength = 40

	res, err := New(WithConfig(cfg)).AnalyzeMetrics(context.Background(), []string{file}, MetricsOptions{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, []string{"Line 1: Contains TODO", "Line 2: Exceeds 40 chars"}, res.Files[0].Findings)

	cfg.Findings.Violations = false
	res, err = New(WithConfig(cfg)).AnalyzeMetrics(context.Background(), []string{file}, MetricsOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Files[0].Findings)
}

func TestAnalyzeRiskWeightsFromConfig(t *testing.T) {
	dir := setupRepo(t)
	file := filepath.Join(dir, "src", "main.c")

	cfg := testConfig()
	cfg.Risk = config.RiskConfig{Churn: 1}

	res, err := New(WithConfig(cfg)).AnalyzeMetrics(context.Background(), []string{file}, MetricsOptions{RepoPath: dir})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	m := res.Files[0]
	require.True(t, m.HasRisk())

	churnOnly := score.New(score.WithWeights(score.Weights{Churn: 1}))
	want := churnOnly.Risk(score.RiskInputs{
		Cyclomatic:  m.ComplexitySeed,
		ChurnRate:   m.Churn.ChurnRate,
		Duplication: m.DuplicationPercentage,
		Coverage:    m.TestCoverage,
	})
	assert.InDelta(t, want, m.RiskScore, 1e-9)
	assert.InDelta(t, score.NormalizeChurn(m.Churn.ChurnRate), m.RiskScore, 1e-9)
}

func TestAnalyzeExternalAndCache(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "pkg/a.c", branchy)

	cfg := testConfig()
	cfg.Churn.Enabled = false
	cfg.External.Coverage = map[string]float64{"pkg/a.c": 75}
	cfg.External.Duplication = map[string]float64{"a.c": 12.5}
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = filepath.Join(dir, ".cache")

	svc := New(WithConfig(cfg))
	first, err := svc.AnalyzeMetrics(context.Background(), []string{file}, MetricsOptions{})
	require.NoError(t, err)
	require.Len(t, first.Files, 1)
	assert.Equal(t, 75.0, first.Files[0].TestCoverage)
	assert.Equal(t, 12.5, first.Files[0].DuplicationPercentage)

	entries, err := filepath.Glob(filepath.Join(cfg.Cache.Dir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	second, err := svc.AnalyzeMetrics(context.Background(), []string{file}, MetricsOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
}

func TestAnalyzeInvalidMaxFileSize(t *testing.T) {
	cfg := testConfig()
	cfg.Scan.MaxFileSize = "lots"
	_, err := New(WithConfig(cfg)).AnalyzeMetrics(context.Background(), nil, MetricsOptions{})
	assert.Error(t, err)
}

func TestAnalyzeNothingToAnalyze(t *testing.T) {
	cfg := testConfig()
	cfg.Churn.Enabled = false
	res, err := New(WithConfig(cfg)).AnalyzeMetrics(context.Background(), nil, MetricsOptions{})
	require.NoError(t, err)
	assert.True(t, res.NothingToAnalyze)
}

func TestFindDuplicates(t *testing.T) {
	dir := t.TempDir()
	block := "alpha()\nbeta()\ngamma()\n"
	a := writeFile(t, dir, "a.c", block+"one()\n")
	b := writeFile(t, dir, "b.c", "two()\n"+block)
	minified := writeFile(t, dir, "c.min.js", block)

	svc := New(WithConfig(testConfig()))
	var total int
	report, err := svc.FindDuplicates([]string{a, b, minified}, DuplicateOptions{OnStart: func(n int) { total = n }})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	assert.Equal(t, 2, report.TotalFilesScanned)
	require.Len(t, report.Blocks, 1)
	assert.Equal(t, 2, report.Blocks[0].Count)
	assert.Equal(t, "alpha()\nbeta()\ngamma()", report.Blocks[0].Text)
}

func TestDiscoverMissingPath(t *testing.T) {
	svc := New(WithConfig(testConfig()))
	_, err := svc.Discover([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)

	var de *DiscoverError
	assert.ErrorAs(t, err, &de)
}
