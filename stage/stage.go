// Package stage prepares an isolated copy of a project tree for publishing.
// The copy excludes version-control metadata, and any file left mid-merge is
// rewritten to keep the HEAD side of every conflict block so a project can
// still be deployed.
package stage

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/src-d/go-billy.v4/osfs"

	"github.com/goasutlor/flexideploy/filesystem"
	"github.com/goasutlor/flexideploy/logstream"
)

var skipDirs = map[string]bool{".git": true}

// textLike reports whether a file is worth sweeping for conflict markers.
func textLike(name string) bool {
	if name == "Dockerfile" {
		return true
	}
	switch filepath.Ext(name) {
	case ".py", ".go", ".js", ".ts", ".txt", ".md":
		return true
	}
	return false
}

// Stage copies sourceDir into destRoot/projectName, skipping version-control
// metadata, then sweeps the copy for three-way merge markers. The returned
// path is the staged project directory. Sweep failures on individual files
// are logged as warnings and do not fail staging.
func Stage(sourceDir, destRoot, projectName string, logs *logstream.Broadcaster) (string, error) {
	destFs := osfs.New(destRoot)

	// a previous run may have left a partial copy under the same name
	if info, err := destFs.Lstat(projectName); err == nil && info.IsDir() {
		if err := filesystem.Remove(projectName, destFs); err != nil {
			return "", err
		}
	}

	if err := filesystem.Copy(sourceDir, projectName, destFs, skipDirs); err != nil {
		return "", err
	}

	staged := filepath.Join(destRoot, projectName)
	sweep(staged, logs)
	logs.Append("📋 Files copied and cleaned to temporary directory")
	return staged, nil
}

func sweep(root string, logs *logstream.Broadcaster) {
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !textLike(info.Name()) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logs.Appendf("⚠️ Warning: Could not clean file %s: %v", info.Name(), err)
			return nil
		}
		if !hasConflictMarkers(string(content)) {
			return nil
		}
		logs.Appendf("🧹 Cleaning merge conflicts in %s", info.Name())
		cleaned := CleanConflicts(string(content))
		if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
			logs.Appendf("⚠️ Warning: Could not clean file %s: %v", info.Name(), err)
			return nil
		}
		logs.Appendf("✅ Cleaned %s", info.Name())
		return nil
	})
}

func hasConflictMarkers(content string) bool {
	return strings.Contains(content, "<<<<<<< HEAD") ||
		strings.Contains(content, "\n=======") ||
		strings.Contains(content, ">>>>>>> ")
}

// CleanConflicts rewrites content keeping only the HEAD ("ours") side of
// every three-way merge conflict block. It is idempotent: content without
// markers passes through unchanged.
func CleanConflicts(content string) string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	skip := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "<<<<<<<"):
			skip = false
		case strings.HasPrefix(line, "======="):
			skip = true
		case strings.HasPrefix(line, ">>>>>>>"):
			skip = false
		case !skip:
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
