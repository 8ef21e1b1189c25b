// Package pipeline sequences a deployment: validate the request, stage the
// project into a clean tree, publish it to github, then build and push the
// container image. Every failure is converted to log events; nothing
// propagates to the caller, whose only view of the run is the log stream.
package pipeline

import (
	"context"
	"os"
	"runtime/debug"
	"strings"

	"github.com/goasutlor/flexideploy/docker"
	"github.com/goasutlor/flexideploy/git"
	"github.com/goasutlor/flexideploy/logstream"
	"github.com/goasutlor/flexideploy/model"
	"github.com/goasutlor/flexideploy/stage"
)

// Outcome is a stage's declared failure policy: Continue moves to the next
// stage, Abort terminates the run.
type Outcome int

const (
	Continue Outcome = iota
	Abort
)

// GitHub is the slice of the API the pipeline needs.
type GitHub interface {
	AuthenticatedUser(ctx context.Context) (string, error)
	RepoExists(ctx context.Context, fullName string) error
	CreateRepo(ctx context.Context, name string) error
}

// Pipeline runs one deployment at a time on a background goroutine spawned
// by the endpoint that triggers it. Concurrent runs are not serialized;
// their output interleaves on the shared broadcaster.
type Pipeline struct {
	Logs   *logstream.Broadcaster
	GitHub GitHub
	GitRun git.Runner
	Docker *docker.Builder

	// Getwd resolves empty source paths; defaults to os.Getwd
	Getwd func() (string, error)
	// StagingRoot is the parent for temp staging directories; empty means
	// the system default
	StagingRoot string
}

// New wires a pipeline with the default working-directory resolver.
func New(logs *logstream.Broadcaster, gh GitHub, run git.Runner, builder *docker.Builder) *Pipeline {
	return &Pipeline{Logs: logs, GitHub: gh, GitRun: run, Docker: builder, Getwd: os.Getwd}
}

// Run executes the whole pipeline. It never returns an error: any failure,
// including a panic anywhere below, ends as a terminal failure event on the
// log stream.
func (p *Pipeline) Run(ctx context.Context, req model.DeployRequest) {
	defer func() {
		if r := recover(); r != nil {
			p.Logs.Appendf("❌ Deployment error: %v", r)
			p.Logs.Appendf("🔍 Error details: %s", debug.Stack())
			p.Logs.Finish(false)
		}
	}()

	stages := []func(context.Context, *model.DeployRequest) Outcome{
		p.validate,
		p.authenticate,
		p.validateRepo,
		p.validateProjectDir,
		p.stageAndPublish,
		p.buildImage,
	}
	for _, run := range stages {
		if run(ctx, &req) == Abort {
			p.Logs.Finish(false)
			return
		}
	}
	p.Logs.Finish(true)
}

func (p *Pipeline) validate(_ context.Context, req *model.DeployRequest) Outcome {
	p.Logs.Append("🚀 Starting Flexible Deploy Tool...")
	p.Logs.Append("⏳ This may take a few minutes...")
	p.Logs.Append("📋 STEP 1: Validating inputs...")
	p.Logs.Progress("validate", 0)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"project_name", req.ProjectName},
		{"github_username", req.GithubUsername},
		{"github_token", req.GithubToken},
		{"selected_repository", req.Repository},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		p.Logs.Appendf("❌ Missing required parameters: %s", strings.Join(missing, ", "))
		return Abort
	}

	path := strings.TrimSpace(req.ProjectPath)
	if path == "" || path == "." {
		cwd, err := p.Getwd()
		if err != nil {
			p.Logs.Appendf("❌ Cannot resolve current directory: %v", err)
			return Abort
		}
		path = cwd
		p.Logs.Appendf("📁 Using current directory: %s", path)
	}
	req.ProjectPath = path

	p.Logs.Appendf("✅ Project: %s", req.ProjectName)
	p.Logs.Appendf("✅ Path: %s", req.ProjectPath)
	p.Logs.Appendf("✅ Repository: %s", req.Repository)
	p.Logs.Append("⏳ Proceeding to next step...")
	return Continue
}

func (p *Pipeline) authenticate(ctx context.Context, req *model.DeployRequest) Outcome {
	p.Logs.Append("🔐 STEP 2: Authenticating with GitHub...")
	p.Logs.Append("⏳ Connecting to GitHub API...")

	login, err := p.GitHub.AuthenticatedUser(ctx)
	if err != nil {
		p.Logs.Appendf("❌ GitHub connection error: %v", err)
		return Abort
	}
	p.Logs.Appendf("✅ Authenticated as: %s", login)
	return Continue
}

func (p *Pipeline) validateRepo(ctx context.Context, req *model.DeployRequest) Outcome {
	p.Logs.Append("📁 STEP 3: Validating repository...")
	p.Logs.Append("⏳ Checking repository access...")

	if err := p.GitHub.RepoExists(ctx, req.Repository); err != nil {
		p.Logs.Appendf("❌ Repository not found: %s", req.Repository)
		return Abort
	}
	p.Logs.Appendf("✅ Repository accessible: %s", req.Repository)
	return Continue
}

func (p *Pipeline) validateProjectDir(_ context.Context, req *model.DeployRequest) Outcome {
	p.Logs.Append("📂 STEP 4: Validating project...")
	p.Logs.Append("⏳ Checking project directory...")

	if _, err := os.Stat(req.ProjectPath); err != nil {
		p.Logs.Appendf("❌ Project directory not found: %s", req.ProjectPath)
		return Abort
	}
	p.Logs.Appendf("✅ Project directory exists: %s", req.ProjectPath)
	return Continue
}

// stageAndPublish owns the staging directory: it is created here and
// reclaimed on every exit path before the docker stage runs, which builds
// from the original project directory.
func (p *Pipeline) stageAndPublish(ctx context.Context, req *model.DeployRequest) Outcome {
	p.Logs.Append("🔄 STEP 5: Performing deployment operations...")

	tempRoot, err := os.MkdirTemp(p.StagingRoot, "flexideploy-")
	if err != nil {
		p.Logs.Appendf("❌ Failed to create temporary directory: %v", err)
		return Abort
	}
	defer os.RemoveAll(tempRoot)
	p.Logs.Appendf("📁 Created temporary directory: %s", tempRoot)

	staged, err := stage.Stage(req.ProjectPath, tempRoot, req.ProjectName, p.Logs)
	if err != nil {
		p.Logs.Appendf("❌ Failed to copy files: %v", err)
		return Abort
	}
	p.Logs.Progress("stage_files", 20)

	publisher := &git.Publisher{Run: p.GitRun, Repos: p.GitHub, Logs: p.Logs}
	if err := publisher.Publish(ctx, git.Params{
		Dir:         staged,
		ProjectName: req.ProjectName,
		Username:    req.GithubUsername,
		Token:       req.GithubToken,
		Repository:  req.Repository,
		VersionNote: req.VersionNote,
	}); err != nil {
		p.Logs.Appendf("❌ %v", err)
		return Abort
	}
	return Continue
}

func (p *Pipeline) buildImage(ctx context.Context, req *model.DeployRequest) Outcome {
	if err := p.Docker.BuildAndPush(ctx, req.ProjectPath, *req); err != nil {
		p.Logs.Appendf("❌ %v", err)
		return Abort
	}
	return Continue
}
