package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// Runner executes docker with args and returns the combined output. The
// context bounds the command's lifetime.
type Runner func(ctx context.Context, workingDir string, args ...string) (output string, err error)

// Run executes docker (in the specified workingDir) with args
// and returns the captured combined output
func Run(ctx context.Context, workingDir string, args ...string) (output string, err error) {
	log.Info("docker ", args)
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Env = os.Environ()
	cmd.Dir = workingDir
	out, err := cmd.CombinedOutput()
	output = string(out)
	if err != nil {
		return output, fmt.Errorf("cannot run docker: %v", err)
	}
	return
}
