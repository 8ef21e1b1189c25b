package git

import (
	"bytes"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// Runner executes git in workingDir with args and returns the captured
// stdout and stderr. It exists so the publisher can be tested without a git
// binary.
type Runner func(workingDir string, args ...string) (stdout, stderr string, err error)

// Run executes git (in the specified workingDir) with args
// and returns the captured stdout and stderr
func Run(workingDir string, args ...string) (stdout, stderr string, err error) {
	log.Info("git ", args)
	cmd := exec.Command("git", args...)
	cmd.Env = os.Environ()
	cmd.Dir = workingDir
	var o, e bytes.Buffer
	cmd.Stderr = &e
	cmd.Stdout = &o
	err = cmd.Run()
	stdout = o.String()
	stderr = e.String()
	return
}
