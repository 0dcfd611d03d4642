package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/agit/internal/changeset"
	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/gate"
)

// #region fakes

type fakeWorkspace struct {
	text      string
	perceiveE error
	commitE   error
	pushE     error
	commits   []string
	pushes    int
}

func (f *fakeWorkspace) Perceive(context.Context) (string, error) { return f.text, f.perceiveE }

func (f *fakeWorkspace) Commit(_ context.Context, msg string) (string, error) {
	if f.commitE != nil {
		return "", f.commitE
	}
	f.commits = append(f.commits, msg)
	return "abc123", nil
}

func (f *fakeWorkspace) Push(context.Context) error {
	f.pushes++
	return f.pushE
}

type fakeScorer struct {
	verdict  engine.Verdict
	recorded []string
	recordE  error
}

func (f *fakeScorer) Evaluate(context.Context, string) (engine.Verdict, error) {
	return f.verdict, nil
}

func (f *fakeScorer) Record(_ context.Context, _ engine.Verdict, msg string) error {
	f.recorded = append(f.recorded, msg)
	return f.recordE
}

// #endregion fakes

// #region step-tests

func TestStep_IdleOnEmptyWorkspace(t *testing.T) {
	ws := &fakeWorkspace{text: "  \n"}
	sc := &fakeScorer{}

	res, err := New(ws, sc, Config{}, nil).Step(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Idle)
	assert.Equal(t, gate.ActionWait, res.Action())
	assert.Empty(t, ws.commits)
}

func TestStep_CommitRecordsAndPushes(t *testing.T) {
	ws := &fakeWorkspace{text: "MODIFIED: a.go\n+x\n"}
	sc := &fakeScorer{verdict: engine.Verdict{Action: gate.ActionCommit, Message: "✨ feat: update a.go [10:00]", Score: 0.9, FileCount: 1}}

	res, err := New(ws, sc, Config{AutoPush: true}, nil).Step(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "abc123", res.CommitHash)
	assert.True(t, res.Pushed)
	assert.Equal(t, []string{"✨ feat: update a.go [10:00]"}, ws.commits)
	assert.Equal(t, ws.commits, sc.recorded)
}

func TestStep_PushFailureKeepsCommit(t *testing.T) {
	ws := &fakeWorkspace{text: "MODIFIED: a.go\n", pushE: errors.New("no remote")}
	sc := &fakeScorer{verdict: engine.Verdict{Action: gate.ActionCommit, Message: "m"}}

	res, err := New(ws, sc, Config{AutoPush: true}, nil).Step(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "abc123", res.CommitHash)
	assert.False(t, res.Pushed)
	assert.Error(t, res.PushErr)
	assert.Len(t, sc.recorded, 1)
}

func TestStep_CommitFailureIsReturned(t *testing.T) {
	ws := &fakeWorkspace{text: "MODIFIED: a.go\n", commitE: errors.New("locked index")}
	sc := &fakeScorer{verdict: engine.Verdict{Action: gate.ActionCommit, Message: "m"}}

	_, err := New(ws, sc, Config{}, nil).Step(context.Background())

	require.Error(t, err)
	assert.Empty(t, sc.recorded)
}

func TestStep_NonCommitActionsTouchNothing(t *testing.T) {
	for _, action := range []string{gate.ActionGhost, gate.ActionSplit, gate.ActionWait} {
		t.Run(action, func(t *testing.T) {
			ws := &fakeWorkspace{text: "MODIFIED: a.go\n"}
			sc := &fakeScorer{verdict: engine.Verdict{Action: action}}

			res, err := New(ws, sc, Config{AutoPush: true}, nil).Step(context.Background())

			require.NoError(t, err)
			assert.Equal(t, action, res.Action())
			assert.Empty(t, ws.commits)
			assert.Zero(t, ws.pushes)
			assert.Empty(t, sc.recorded)
		})
	}
}

func TestStep_PerceiveError(t *testing.T) {
	ws := &fakeWorkspace{perceiveE: errors.New("not a repo")}

	_, err := New(ws, &fakeScorer{}, Config{}, nil).Step(context.Background())

	require.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ws := &fakeWorkspace{text: ""}
	ctx, cancel := context.WithCancel(context.Background())
	steps := 0

	err := New(ws, &fakeScorer{}, Config{}, nil).Run(ctx, time.Millisecond, func(StepResult, error) {
		steps++
		if steps == 3 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, steps)
}

// #endregion step-tests

// #region repository-tests

func initRepo(t *testing.T) (string, *Repository) {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	repo, err := OpenRepository(dir, Author{Name: "agit", Email: "agit@localhost"}, "")
	require.NoError(t, err)
	return dir, repo
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestRepository_PerceiveEmpty(t *testing.T) {
	_, repo := initRepo(t)

	text, err := repo.Perceive(context.Background())

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRepository_LifeCycle(t *testing.T) {
	dir, repo := initRepo(t)
	ctx := context.Background()

	writeFile(t, dir, "src/a.go", "package a\n\nfunc A() int { return 1 }\n")
	records, err := repo.Changes(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, changeset.KindNew, records[0].Kind)
	assert.Equal(t, "src/a.go", records[0].Path)
	assert.Equal(t, []string{"package a", "", "func A() int { return 1 }"}, records[0].Added)

	hash, err := repo.Commit(ctx, "first")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	text, err := repo.Perceive(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)

	writeFile(t, dir, "src/a.go", "package a\n\nfunc A() int { return 2 }\n")
	records, err = repo.Changes(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, changeset.KindModified, records[0].Kind)
	assert.Equal(t, []string{"func A() int { return 2 }"}, records[0].Added)
	assert.Equal(t, []string{"func A() int { return 1 }"}, records[0].Removed)

	_, err = repo.Commit(ctx, "second")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "src/a.go")))
	records, err = repo.Changes(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, changeset.KindDeleted, records[0].Kind)
	assert.Len(t, records[0].Removed, 3)
}

func TestRepository_PushWithoutRemoteFails(t *testing.T) {
	dir, repo := initRepo(t)
	ctx := context.Background()
	writeFile(t, dir, "a.txt", "x\n")
	_, err := repo.Commit(ctx, "first")
	require.NoError(t, err)

	assert.Error(t, repo.Push(ctx))
}

func TestAgent_EndToEndCommit(t *testing.T) {
	dir, repo := initRepo(t)
	cfg := engine.DefaultConfig()
	cfg.Gate.CommitThreshold = 0
	cfg.Gate.GhostThreshold = 0
	cfg.Gate.VetoOnAnalyzerSplit = false
	scorer := engine.New(cfg, nil, nil)

	writeFile(t, dir, "src/main.rs", "/// Total\nfn total(items: Vec<i32>) -> i32 {\n    items.iter().sum()\n}\n")
	writeFile(t, dir, "src/main_test.rs", "#[test]\nfn test_total() {\n    assert_eq!(total(vec![1]), 1);\n}\n")

	res, err := New(repo, Local(scorer), Config{}, nil).Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, gate.ActionCommit, res.Action())
	assert.NotEmpty(t, res.CommitHash)
	assert.Equal(t, 2, res.Verdict.FileCount)
	assert.Contains(t, res.Verdict.Message, "test: update 2 files")

	require.Len(t, scorer.History(), 1)
	text, err := repo.Perceive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestLineDiff(t *testing.T) {
	added, removed := lineDiff("a\nb\nc\n", "a\nB\nc\nd\n")
	assert.Equal(t, []string{"B", "d"}, added)
	assert.Equal(t, []string{"b"}, removed)

	added, removed = lineDiff("same\n", "same\n")
	assert.Nil(t, added)
	assert.Nil(t, removed)
}

// #endregion repository-tests
