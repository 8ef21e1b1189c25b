// Package server exposes the dashboard's HTTP surface: project scanning,
// repository management, the deploy trigger and the log stream. The deploy
// endpoint spawns the pipeline on a background goroutine and immediately
// answers with a server-sent event stream of the shared log channel.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/goasutlor/flexideploy/constants"
	"github.com/goasutlor/flexideploy/docker"
	"github.com/goasutlor/flexideploy/git"
	"github.com/goasutlor/flexideploy/github"
	"github.com/goasutlor/flexideploy/logstream"
	"github.com/goasutlor/flexideploy/model"
	"github.com/goasutlor/flexideploy/pipeline"
)

// GitHubAPI is everything the handlers need from the github client.
type GitHubAPI interface {
	pipeline.GitHub
	ListRepos(ctx context.Context, username string) ([]model.Repository, error)
	ContainerPackages(ctx context.Context) ([]model.ContainerPackage, error)
	CreateRepoDetailed(ctx context.Context, name, description string, private bool) (model.Repository, error)
}

// Server holds the shared broadcaster and the injectable edges (github
// client factory, subprocess runners) so handlers are testable.
type Server struct {
	Logs      *logstream.Broadcaster
	GitRun    git.Runner
	DockerRun docker.Runner
	DockerEnv docker.Environment
	NewGitHub func(token string) (GitHubAPI, error)
}

// New wires a server against the real world: public github API, git and
// docker binaries on PATH.
func New(logs *logstream.Broadcaster) *Server {
	return &Server{
		Logs:      logs,
		GitRun:    git.Run,
		DockerRun: docker.Run,
		DockerEnv: docker.DetectEnvironment(),
		NewGitHub: func(token string) (GitHubAPI, error) {
			return github.NewClient(constants.DefaultAPIURL, token)
		},
	}
}

// Routes builds the mux for the whole dashboard.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/get-projects", s.handleGetProjects)
	mux.HandleFunc("/scan-custom-folder", s.handleScanCustomFolder)
	mux.HandleFunc("/browse-folders", s.handleBrowseFolders)
	mux.HandleFunc("/get-available-drives", s.handleDrives)
	mux.HandleFunc("/logs", s.handleLogs)
	mux.HandleFunc("/stream", s.handleStream)
	mux.HandleFunc("/deploy", s.handleDeploy)
	mux.HandleFunc("/get-repositories", s.handleGetRepositories)
	mux.HandleFunc("/create-repository", s.handleCreateRepository)
	mux.HandleFunc("/check-docker-images", s.handleCheckDockerImages)

	if _, err := os.Stat("static"); err == nil {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleLogs returns and clears every queued log line.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	lines := []string{}
	for _, e := range s.Logs.DrainAll() {
		if line, ok := e.(logstream.Line); ok {
			lines = append(lines, line.String())
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": lines})
}

// handleDeploy validates nothing itself: the pipeline owns validation and
// reports through the stream, so the response is the stream regardless.
func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var req model.DeployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	gh, err := s.NewGitHub(req.GithubToken)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	builder := &docker.Builder{Run: s.DockerRun, Env: s.DockerEnv, Logs: s.Logs}
	p := pipeline.New(s.Logs, gh, s.GitRun, builder)

	// detached: closing the stream stops delivery, not execution
	go p.Run(context.Background(), req)

	s.stream(w, r)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("writing response")
	}
}

// runCommand is the subprocess runner handed to the drive lister.
func runCommand(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}
