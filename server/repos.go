package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goasutlor/flexideploy/docker"
	"github.com/goasutlor/flexideploy/model"
)

type credentialsRequest struct {
	GithubUsername string `json:"github_username"`
	GithubToken    string `json:"github_token"`
	Repository     string `json:"repository"`
	RepoName       string `json:"repo_name"`
	Description    string `json:"description"`
	Private        bool   `json:"private"`
}

func reposError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"repositories": []model.Repository{},
		"total":        0,
		"status":       "error",
		"message":      message,
	})
}

// handleGetRepositories serves both the GET form (query parameters) and the
// POST form (JSON body) the dashboard uses.
func (s *Server) handleGetRepositories(w http.ResponseWriter, r *http.Request) {
	var username, token string
	switch r.Method {
	case http.MethodGet:
		username = r.URL.Query().Get("github_username")
		token = r.URL.Query().Get("github_token")
	case http.MethodPost:
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			reposError(w, err.Error())
			return
		}
		username, token = req.GithubUsername, req.GithubToken
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if username == "" || token == "" {
		reposError(w, "GitHub username and token are required")
		return
	}

	s.Logs.Append("📋 Getting user repositories...")
	gh, err := s.NewGitHub(token)
	if err != nil {
		reposError(w, err.Error())
		return
	}
	repos, err := gh.ListRepos(r.Context(), username)
	if err != nil {
		s.Logs.Appendf("❌ Repository listing error: %v", err)
		reposError(w, err.Error())
		return
	}

	s.Logs.Appendf("✅ Found %d repositories", len(repos))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"repositories": repos,
		"total":        len(repos),
		"status":       "success",
	})
}

func (s *Server) handleCreateRepository(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	if req.GithubUsername == "" || req.GithubToken == "" || req.RepoName == "" {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": "GitHub username, token, and repository name are required",
		})
		return
	}

	s.Logs.Appendf("🆕 Creating repository: %s", req.RepoName)
	gh, err := s.NewGitHub(req.GithubToken)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	repo, err := gh.CreateRepoDetailed(r.Context(), req.RepoName, req.Description, req.Private)
	if err != nil {
		s.Logs.Appendf("❌ Repository creation error: %v", err)
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": "Failed to create repository: " + err.Error(),
		})
		return
	}

	s.Logs.Appendf("✅ Repository created successfully: %s", repo.FullName)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"message":    "Repository created successfully: " + repo.FullName,
		"repository": repo,
	})
}

func (s *Server) handleCheckDockerImages(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.GithubUsername == "" || req.GithubToken == "" || req.Repository == "" {
		writeJSON(w, http.StatusOK, map[string]string{
			"error": "GitHub username, token, and repository are required",
		})
		return
	}

	s.Logs.Appendf("🐳 Checking Docker images for repository: %s", req.Repository)
	gh, err := s.NewGitHub(req.GithubToken)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
		return
	}

	packages, err := gh.ContainerPackages(r.Context())
	if err != nil {
		s.Logs.Appendf("⚠️ GitHub packages API error: %v", err)
		packages = nil
	}
	totalVersions := 0
	for _, pkg := range packages {
		totalVersions += pkg.Versions
	}

	local := docker.LocalImages(r.Context(), s.DockerRun)
	if len(local) == 0 {
		s.Logs.Append("ℹ️ No local Docker images found")
	}

	owner, name := req.Repository, req.Repository
	if i := strings.LastIndex(req.Repository, "/"); i >= 0 {
		owner, name = req.Repository[:i], req.Repository[i+1:]
	}

	s.Logs.Appendf("✅ Found %d Docker images with %d total versions", len(packages), totalVersions)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"repository_info": map[string]string{
			"full_name": req.Repository,
			"name":      name,
			"owner":     owner,
		},
		"docker_images":      packages,
		"local_images":       local,
		"total_images":       len(packages),
		"total_versions":     totalVersions,
		"total_local_images": len(local),
		"status":             "success",
	})
}
