// Package docker builds a container image from a project directory and
// pushes it to the github container registry, shelling out to the docker
// CLI. When the tool itself runs inside a container, image operations
// require a reachable engine socket and an explicit enablement flag.
package docker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goasutlor/flexideploy/constants"
	"github.com/goasutlor/flexideploy/logstream"
	"github.com/goasutlor/flexideploy/model"
)

const (
	buildTimeout = 10 * time.Minute
	pushTimeout  = 10 * time.Minute
	loginTimeout = 60 * time.Second

	dockerEnvFile = "/.dockerenv"
	socketPath    = "/var/run/docker.sock"
)

// Environment is the capability check for image operations.
type Environment struct {
	// InContainer is true when the tool itself runs inside a container
	InContainer bool
	// Enabled gates image operations in container mode; defaults to true
	Enabled bool
	// SocketReachable is true when a container engine socket is present
	SocketReachable bool
}

// DetectEnvironment inspects the process environment the way the dashboard
// is deployed in practice: a /.dockerenv sentinel or DOCKER_CONTAINER=true
// means container mode, DOCKER_ENABLED=false opts out of engine access.
func DetectEnvironment() Environment {
	inContainer := fileExists(dockerEnvFile) ||
		strings.EqualFold(viper.GetString(constants.DockerContainerEnvVar), "true")
	enabled := !strings.EqualFold(viper.GetString(constants.DockerEnabledEnvVar), "false")
	return Environment{
		InContainer:     inContainer,
		Enabled:         enabled,
		SocketReachable: fileExists(socketPath),
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Builder builds and pushes images for one deployment run.
type Builder struct {
	Run  Runner
	Env  Environment
	Logs *logstream.Broadcaster
	// Now is the clock used for generated version tags
	Now func() time.Time
}

// BuildAndPush builds the image from projectDir (the original project
// directory, not the staged copy) and pushes it to the registry. A missing
// Dockerfile or an unreachable engine skips the stage without error; a
// failed build, login or versioned push returns an error that fails the run.
func (b *Builder) BuildAndPush(ctx context.Context, projectDir string, req model.DeployRequest) error {
	b.Logs.Append("🐳 STEP 6: Building and pushing Docker image...")

	if !fileExists(filepath.Join(projectDir, "Dockerfile")) {
		b.Logs.Append("❌ Dockerfile not found in project directory")
		b.Logs.Append("💡 Docker build will be skipped")
		return nil
	}
	b.Logs.Append("📋 Dockerfile found, building image...")

	if b.Env.InContainer {
		b.Logs.Append("⚠️ Running in Docker container - checking for Docker socket...")
		if !b.Env.SocketReachable || !b.Env.Enabled {
			b.Logs.Append("⚠️ Docker operations disabled")
			b.Logs.Append("💡 To enable Docker operations, run with:")
			b.Logs.Append("   docker run -v /var/run/docker.sock:/var/run/docker.sock -p 9998:9998 ghcr.io/goasutlor/flexideploy:latest")
			b.Logs.Progress("done", 100)
			b.Logs.Append("📊 Progress: 100% - Deployment completed (Git push successful)")
			return nil
		}
		b.Logs.Append("✅ Docker socket found - Docker-in-Docker enabled")
		b.Logs.Append("🔧 Using host Docker daemon for build/push")
	} else {
		b.Logs.Append("✅ Running on host machine - using local Docker")
	}

	tag := req.Version
	if tag == "" {
		tag = "v" + b.now().Format("2006.01.02.1504")
	}
	image := fmt.Sprintf("%s/%s:%s", constants.RegistryHost, req.Repository, tag)
	latest := fmt.Sprintf("%s/%s:latest", constants.RegistryHost, req.Repository)

	b.Logs.Appendf("🏗️ Building Docker image: %s", image)
	b.Logs.Progress("docker_build", 70)

	buildCtx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()
	if out, err := b.Run(buildCtx, projectDir, "build", "-t", image, "-t", latest, "."); err != nil {
		return fmt.Errorf("failed to build docker image: %v\n%s", err, out)
	}
	b.Logs.Append("✅ Docker image built successfully")
	b.Logs.Progress("docker_build", 80)

	b.Logs.Append("🔐 Logging into GitHub Container Registry...")
	loginCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()
	if out, err := b.Run(loginCtx, projectDir, "login", constants.RegistryHost,
		"-u", req.GithubUsername, "-p", req.GithubToken); err != nil {
		return fmt.Errorf("failed to login to %s: %v\n%s", constants.RegistryHost, err, out)
	}
	b.Logs.Append("✅ Logged into GHCR")

	b.Logs.Append("📤 Pushing Docker image to GHCR...")
	b.Logs.Progress("docker_push", 90)
	pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	if out, err := b.Run(pushCtx, projectDir, "push", image); err != nil {
		return fmt.Errorf("failed to push docker image: %v\n%s", err, out)
	}
	b.Logs.Append("✅ Docker image pushed to GHCR successfully!")
	b.Logs.Appendf("🐳 Image URL: https://%s/%s", constants.RegistryHost, req.Repository)
	b.Logs.Progress("docker_push", 95)

	// the versioned tag is the authoritative artifact; the latest tag is
	// best-effort and its failure is not checked
	latestCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	b.Run(latestCtx, projectDir, "push", latest)
	b.Logs.Append("✅ Latest tag pushed to GHCR")
	b.Logs.Progress("done", 100)

	b.usageHints(image)
	return nil
}

func (b *Builder) usageHints(image string) {
	b.Logs.Append("📋 Docker Usage Instructions:")
	b.Logs.Appendf("🐳 Pull: docker pull %s", image)
	b.Logs.Appendf("🚀 Run: docker run -p 9998:9998 %s", image)
	b.Logs.Appendf("📦 CI/CD: docker pull %s && docker run -d -p 9998:9998 %s", image, image)
	b.Logs.Append("🐳 Compose: Add to docker-compose.yml:")
	b.Logs.Append("   deploy-tool:")
	b.Logs.Appendf("     image: %s", image)
	b.Logs.Append("     ports:")
	b.Logs.Append("       - '9998:9998'")
	b.Logs.Appendf("🚢 Kubernetes: kubectl run deploy-tool --image=%s --port=9998", image)
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}
