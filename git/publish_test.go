package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goasutlor/flexideploy/logstream"
)

type fakeRepos struct {
	created []string
	err     error
}

func (f *fakeRepos) CreateRepo(ctx context.Context, name string) error {
	f.created = append(f.created, name)
	return f.err
}

// scriptRunner records every git invocation and fails the ones whose joined
// args match a scripted failure.
type scriptRunner struct {
	calls    [][]string
	failures map[string]string // args prefix -> stderr
}

func (s *scriptRunner) run(dir string, args ...string) (string, string, error) {
	s.calls = append(s.calls, args)
	joined := strings.Join(args, " ")
	for prefix, stderr := range s.failures {
		if strings.HasPrefix(joined, prefix) {
			return "", stderr, errors.New("exit status 1")
		}
	}
	return "", "", nil
}

func (s *scriptRunner) count(prefix string) int {
	n := 0
	for _, call := range s.calls {
		if strings.HasPrefix(strings.Join(call, " "), prefix) {
			n++
		}
	}
	return n
}

func newPublisher(r *scriptRunner, repos *fakeRepos) (*Publisher, *logstream.Broadcaster) {
	logs := logstream.New()
	return &Publisher{Run: r.run, Repos: repos, Logs: logs}, logs
}

func params() Params {
	return Params{
		Dir:         "/tmp/staged/demo",
		ProjectName: "demo",
		Username:    "alice",
		Token:       "T",
		Repository:  "alice/demo",
	}
}

func drainText(logs *logstream.Broadcaster) string {
	var b strings.Builder
	for _, e := range logs.DrainAll() {
		if line, ok := e.(logstream.Line); ok {
			b.WriteString(line.Message)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func TestPublishHappyPath(t *testing.T) {
	r := &scriptRunner{}
	repos := &fakeRepos{}
	p, _ := newPublisher(r, repos)

	require.NoError(t, p.Publish(context.Background(), params()))

	want := [][]string{
		{"init"},
		{"config", "init.defaultBranch", "main"},
		{"add", "."},
		{"config", "user.name", "alice"},
		{"config", "user.email", "alice@users.noreply.github.com"},
		{"branch", "-M", "main"},
		{"pull", "origin", "main", "--allow-unrelated-histories"},
		{"push", "-u", "origin", "main"},
	}
	var got [][]string
	for _, call := range r.calls {
		if call[0] != "commit" && call[0] != "remote" {
			got = append(got, call)
		}
	}
	assert.Equal(t, want, got)
	assert.Empty(t, repos.created)
}

func TestPublishCommitMessageCarriesVersionNote(t *testing.T) {
	r := &scriptRunner{}
	p, _ := newPublisher(r, &fakeRepos{})
	pr := params()
	pr.VersionNote = "fix startup crash"

	require.NoError(t, p.Publish(context.Background(), pr))

	var msg string
	for _, call := range r.calls {
		if call[0] == "commit" {
			msg = call[2]
		}
	}
	assert.Contains(t, msg, "Deploy demo via Flexible Deploy Tool")
	assert.Contains(t, msg, "Changes: fix startup crash")
}

func TestPublishEmbedsTokenInRemote(t *testing.T) {
	r := &scriptRunner{}
	p, _ := newPublisher(r, &fakeRepos{})

	require.NoError(t, p.Publish(context.Background(), params()))

	var remote string
	for _, call := range r.calls {
		if call[0] == "remote" {
			remote = call[3]
		}
	}
	assert.Equal(t, "https://T@github.com/alice/demo.git", remote)
}

func TestPublishInitFailureAborts(t *testing.T) {
	r := &scriptRunner{failures: map[string]string{"init": "boom"}}
	p, _ := newPublisher(r, &fakeRepos{})

	err := p.Publish(context.Background(), params())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize git")
	assert.Zero(t, r.count("push"), "no push after a fatal init")
}

func TestPushRejectedRetriesForceExactlyOnce(t *testing.T) {
	r := &scriptRunner{failures: map[string]string{
		"push -u origin main": "! [rejected] main -> main (non-fast-forward)",
	}}
	// the force push matches the same prefix, so it fails too
	repos := &fakeRepos{}
	p, logs := newPublisher(r, repos)

	require.NoError(t, p.Publish(context.Background(), params()))

	assert.Equal(t, 1, r.count("push -u origin main --force"))
	// plain push, force push, retry after repo creation
	assert.Equal(t, 3, r.count("push"))
	assert.Equal(t, []string{"demo"}, repos.created)
	assert.Contains(t, drainText(logs), "git push -u origin main")
}

func TestPushForceSucceedsSkipsRepoCreation(t *testing.T) {
	// fail only the first plain push, then let everything succeed
	r := &scriptRunner{}
	first := true
	run := func(dir string, args ...string) (string, string, error) {
		if strings.Join(args, " ") == "push -u origin main" && first {
			first = false
			r.calls = append(r.calls, args)
			return "", "! [rejected] (fetch first)", errors.New("exit status 1")
		}
		return r.run(dir, args...)
	}
	repos := &fakeRepos{}
	logs := logstream.New()
	p := &Publisher{Run: run, Repos: repos, Logs: logs}

	require.NoError(t, p.Publish(context.Background(), params()))
	assert.Equal(t, 1, r.count("push -u origin main --force"))
	assert.Empty(t, repos.created, "force push success must not create the repository")
}

func TestPushPlainFailureWithoutRejectionSkipsLadder(t *testing.T) {
	r := &scriptRunner{failures: map[string]string{
		"push -u origin main": "fatal: unable to access: network down",
	}}
	repos := &fakeRepos{}
	p, logs := newPublisher(r, repos)

	require.NoError(t, p.Publish(context.Background(), params()))
	assert.Zero(t, r.count("push -u origin main --force"))
	assert.Empty(t, repos.created)
	assert.Contains(t, drainText(logs), "Push failed, but deployment continues")
}

func TestPushRepoCreationFailureStillContinues(t *testing.T) {
	r := &scriptRunner{failures: map[string]string{
		"push -u origin main": "! [rejected]",
	}}
	repos := &fakeRepos{err: errors.New("403 forbidden")}
	p, logs := newPublisher(r, repos)

	require.NoError(t, p.Publish(context.Background(), params()))
	assert.Contains(t, drainText(logs), "Repository creation failed, but deployment continues")
}
