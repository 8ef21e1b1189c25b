package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/goasutlor/flexideploy/constants"
	"github.com/goasutlor/flexideploy/docker"
	"github.com/goasutlor/flexideploy/model"
)

const workspaceMount = "/workspace"

// BrowseFolder lists the regular files of a directory for the folder
// browser.
func BrowseFolder(dir string) ([]model.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := []model.FileInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, model.FileInfo{
			Name:     entry.Name(),
			Path:     filepath.Join(dir, entry.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	return files, nil
}

// Drives returns the roots offered by the folder browser: CUSTOM_DRIVES
// when set, the windows drive list on windows, common unix roots otherwise.
func Drives(run runnerFunc) []string {
	if custom := viper.GetString(constants.CustomDrivesEnvVar); custom != "" {
		return strings.Split(custom, ",")
	}
	if runtime.GOOS == "windows" {
		return windowsDrives(run)
	}
	return []string{"/", "/home", "/mnt", "/opt"}
}

type runnerFunc func(name string, args ...string) (string, error)

func windowsDrives(run runnerFunc) []string {
	out, err := run("wmic", "logicaldisk", "get", "caption")
	if err != nil {
		return nil
	}
	var drives []string
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for _, line := range lines[1:] { // skip header
		if d := strings.TrimSpace(line); d != "" {
			drives = append(drives, d)
		}
	}
	return drives
}

// MapContainerPath rewrites a user-supplied browse path when the dashboard
// runs inside a container: host windows paths land where the operator is
// told to mount their project tree.
func MapContainerPath(path string, env docker.Environment) string {
	if !env.InContainer {
		return path
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return workspaceMount
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}

	for _, drive := range []string{"C:", "D:"} {
		for _, sep := range []string{"\\", "/"} {
			prefix := drive + sep
			if strings.HasPrefix(path, prefix) {
				rest := strings.TrimPrefix(path, prefix)
				rest = strings.ReplaceAll(rest, "\\", "/")
				// home directories map onto the mount itself
				if drive == "C:" && strings.HasPrefix(rest, "Users/") {
					return workspaceMount
				}
				return workspaceMount + "/" + rest
			}
		}
	}
	if !strings.HasPrefix(path, "/") {
		return workspaceMount + "/" + path
	}
	return path
}
