// Package scanner finds deployable projects on disk using the same
// heuristics the dashboard has always shown: marker files identify the
// project type, and a directory counts as a project when it carries any of
// an app entrypoint, a requirements file, a Dockerfile or a git repository.
package scanner

import (
	"os"
	"path/filepath"
	"sort"

	gogit "gopkg.in/src-d/go-git.v4"

	"github.com/goasutlor/flexideploy/logstream"
	"github.com/goasutlor/flexideploy/model"
)

var skipDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"node_modules": true,
	".venv":        true,
	".vscode":      true,
	".idea":        true,
}

func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

func hasGit(dir string) bool {
	_, err := gogit.PlainOpen(dir)
	return err == nil
}

func projectType(dir string) string {
	switch {
	case fileExists(dir, "app.py"):
		return "flask"
	case fileExists(dir, "package.json"):
		return "nodejs"
	case fileExists(dir, "pom.xml"):
		return "java"
	case fileExists(dir, "Cargo.toml"):
		return "rust"
	case fileExists(dir, "go.mod"):
		return "go"
	case fileExists(dir, "Dockerfile"):
		return "docker"
	}
	return "unknown"
}

func inspect(dir, parent string) (model.ProjectInfo, bool) {
	info := model.ProjectInfo{
		Name:            filepath.Base(dir),
		Path:            dir,
		Type:            projectType(dir),
		HasGit:          hasGit(dir),
		HasApp:          fileExists(dir, "app.py"),
		HasRequirements: fileExists(dir, "requirements.txt"),
		HasDockerfile:   fileExists(dir, "Dockerfile"),
		SubProjects:     []model.ProjectInfo{},
		Parent:          parent,
	}
	isProject := info.HasApp || info.HasRequirements || info.HasDockerfile || info.HasGit
	return info, isProject
}

// Detect scans a directory for projects: the directory itself, its
// immediate children, and one level of sub-projects below those.
func Detect(dir string, logs *logstream.Broadcaster) []model.ProjectInfo {
	logs.Appendf("🔍 Scanning directory: %s", dir)

	if _, err := os.Stat(dir); err != nil {
		logs.Appendf("❌ Directory does not exist: %s", dir)
		return nil
	}

	var projects []model.ProjectInfo
	if root, ok := inspect(dir, ""); ok {
		projects = append(projects, root)
		logs.Appendf("✅ Found project in root: %s (%s)", root.Name, root.Type)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logs.Appendf("❌ Error detecting projects: %v", err)
		return projects
	}
	logs.Appendf("📁 Found %d items in directory", len(entries))

	for _, entry := range entries {
		if !entry.IsDir() || skipDirs[entry.Name()] {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		info, ok := inspect(child, "")
		info.SubProjects = subProjects(child, entry.Name())
		if ok {
			projects = append(projects, info)
			logs.Appendf("✅ Found project: %s (%s)", info.Name, info.Type)
		}
	}

	logs.Appendf("📊 Total projects found: %d", len(projects))
	return projects
}

func subProjects(dir, parent string) []model.ProjectInfo {
	subs := []model.ProjectInfo{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return subs
	}
	for _, entry := range entries {
		if !entry.IsDir() || skipDirs[entry.Name()] {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if fileExists(sub, "app.py") || fileExists(sub, "package.json") || fileExists(sub, "Dockerfile") {
			info, _ := inspect(sub, parent)
			subs = append(subs, info)
		}
	}
	return subs
}

// DetectNearby scans the working directory and its parent, sorted so the
// most deployable-looking projects come first.
func DetectNearby(logs *logstream.Broadcaster) ([]model.ProjectInfo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	projects := Detect(cwd, logs)
	if parent := filepath.Dir(cwd); parent != cwd {
		projects = append(projects, Detect(parent, logs)...)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return score(projects[i]) > score(projects[j])
	})
	return projects, nil
}

func score(p model.ProjectInfo) int {
	s := 0
	if p.HasGit {
		s |= 8
	}
	if p.HasApp {
		s |= 4
	}
	if p.HasRequirements {
		s |= 2
	}
	if p.HasDockerfile {
		s |= 1
	}
	return s
}
