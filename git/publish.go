package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/goasutlor/flexideploy/constants"
	"github.com/goasutlor/flexideploy/logstream"
)

// RepoCreator creates the target repository on github when every push
// attempt has been rejected.
type RepoCreator interface {
	CreateRepo(ctx context.Context, name string) error
}

// Publisher turns a staged directory into a fresh git history and pushes it
// to the target repository. Because the tool may be re-run against a
// repository it already populated, the push tolerates "remote already has
// unrelated or newer history" via a force-push and create-repo fallback
// chain.
type Publisher struct {
	Run   Runner
	Repos RepoCreator
	Logs  *logstream.Broadcaster
}

// Params carries everything Publish needs.
type Params struct {
	// Dir is the staged project directory the new history is built in
	Dir         string
	ProjectName string
	Username    string
	Token       string
	// Repository is the push target as "owner/repo"
	Repository  string
	VersionNote string
}

// Publish runs the init/add/config/commit/remote sequence and then the push
// ladder. A failure before the push aborts the whole run and is returned as
// an error; push failure is only logged, so that a docker build can still be
// attempted afterwards.
func (p *Publisher) Publish(ctx context.Context, params Params) error {
	if err := p.initRepo(params); err != nil {
		return err
	}
	if err := p.commit(params); err != nil {
		return err
	}
	p.push(ctx, params)
	p.Logs.Appendf("🌐 Repository URL: https://github.com/%s", params.Repository)
	return nil
}

func (p *Publisher) initRepo(params Params) error {
	p.Logs.Append("🔧 Initializing Git repository...")
	if _, e, err := p.Run(params.Dir, "init"); err != nil {
		return fmt.Errorf("failed to initialize git: %v (%s)", err, e)
	}
	if _, e, err := p.Run(params.Dir, "config", "init.defaultBranch", constants.DefaultBranch); err != nil {
		return fmt.Errorf("failed to set default branch: %v (%s)", err, e)
	}
	p.Logs.Append("✅ Git repository initialized with main branch")

	p.Logs.Append("📝 Adding files to Git...")
	if _, e, err := p.Run(params.Dir, "add", "."); err != nil {
		return fmt.Errorf("failed to add files: %v (%s)", err, e)
	}
	p.Logs.Append("✅ Files added to Git")
	p.Logs.Progress("git_setup", 40)

	p.Logs.Append("👤 Configuring Git user...")
	email := fmt.Sprintf("%s@users.noreply.github.com", params.Username)
	if _, e, err := p.Run(params.Dir, "config", "user.name", params.Username); err != nil {
		return fmt.Errorf("failed to configure git user: %v (%s)", err, e)
	}
	if _, e, err := p.Run(params.Dir, "config", "user.email", email); err != nil {
		return fmt.Errorf("failed to configure git user: %v (%s)", err, e)
	}
	p.Logs.Append("✅ Git user configured")
	return nil
}

func (p *Publisher) commit(params Params) error {
	p.Logs.Append("💾 Committing files...")
	message := fmt.Sprintf("Deploy %s via Flexible Deploy Tool", params.ProjectName)
	if params.VersionNote != "" {
		message += fmt.Sprintf("\n\nChanges: %s", params.VersionNote)
	}
	if _, e, err := p.Run(params.Dir, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit files: %v (%s)", err, e)
	}
	p.Logs.Append("✅ Files committed")

	p.Logs.Append("🔗 Adding remote repository...")
	remoteURL := fmt.Sprintf("https://%s@github.com/%s.git", params.Token, params.Repository)
	if _, e, err := p.Run(params.Dir, "remote", "add", "origin", remoteURL); err != nil {
		return fmt.Errorf("failed to add remote: %v (%s)", err, e)
	}
	p.Logs.Append("✅ Remote repository added")
	return nil
}

// push walks the fallback ladder: plain push, then force push when the
// remote rejected us, then create the repository and push once more. Every
// rung failing still leaves the run alive.
func (p *Publisher) push(ctx context.Context, params Params) {
	p.Logs.Append("📤 Pushing code to GitHub...")

	if _, e, err := p.Run(params.Dir, "branch", "-M", constants.DefaultBranch); err != nil {
		p.Logs.Appendf("📝 Could not switch branch: %v (%s)", err, e)
	} else {
		p.Logs.Append("✅ Switched to main branch")
	}

	// best-effort sync so a populated remote is less likely to reject us
	p.Logs.Append("🔄 Syncing with remote repository...")
	p.Run(params.Dir, "pull", "origin", constants.DefaultBranch, "--allow-unrelated-histories")

	p.Logs.Append("📤 Pushing to GitHub...")
	_, stderr, err := p.Run(params.Dir, "push", "-u", "origin", constants.DefaultBranch)
	if err == nil {
		p.pushed()
		return
	}

	if !rejected(stderr) {
		p.hint()
		return
	}

	p.Logs.Append("📝 Remote has newer commits, using force push...")
	if _, _, err := p.Run(params.Dir, "push", "-u", "origin", constants.DefaultBranch, "--force"); err == nil {
		p.Logs.Append("✅ Code pushed to GitHub successfully (force pushed)!")
		p.Logs.Progress("git_push", 60)
		return
	}

	p.Logs.Append("📝 Force push failed, trying to create repository...")
	name := params.Repository[strings.LastIndex(params.Repository, "/")+1:]
	if err := p.Repos.CreateRepo(ctx, name); err != nil {
		p.Logs.Append("📝 Repository creation failed, but deployment continues...")
		p.Logs.Append("💡 You can create the repository manually on GitHub")
		return
	}

	p.Logs.Append("✅ Repository created/exists, trying push again...")
	if _, _, err := p.Run(params.Dir, "push", "-u", "origin", constants.DefaultBranch); err == nil {
		p.pushed()
		return
	}
	p.hint()
}

func (p *Publisher) pushed() {
	p.Logs.Append("✅ Code pushed to GitHub successfully!")
	p.Logs.Progress("git_push", 60)
}

func (p *Publisher) hint() {
	p.Logs.Append("📝 Push failed, but deployment continues...")
	p.Logs.Append("💡 You can manually push later using: git push -u origin main")
}

func rejected(stderr string) bool {
	return strings.Contains(stderr, "non-fast-forward") || strings.Contains(stderr, "rejected")
}
