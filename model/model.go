package model

import "time"

// The DeployRequest type carries all the information needed to request a deployment
type DeployRequest struct {
	// ProjectPath is the source directory; empty or "." means the current working directory
	ProjectPath string `json:"project_path"`
	// ProjectName is the logical name of the project and the staged directory name
	ProjectName string `json:"project_name"`
	// GithubUsername is the account the commit identity and registry login are derived from
	GithubUsername string `json:"github_username"`
	// GithubToken is the user's github Personal Access Token
	GithubToken string `json:"github_token"`
	// Repository is the target repository as "owner/repo"
	Repository string `json:"selected_repository"`
	// Version is an optional image tag; a timestamp tag is generated when empty
	Version string `json:"version"`
	// VersionNote is an optional free-text note appended to the commit message
	VersionNote string `json:"version_note"`
}

// ProjectInfo describes a project discovered by the filesystem scanner
type ProjectInfo struct {
	Name            string        `json:"name"`
	Path            string        `json:"path"`
	Type            string        `json:"type"`
	HasGit          bool          `json:"has_git"`
	HasApp          bool          `json:"has_app"`
	HasRequirements bool          `json:"has_requirements"`
	HasDockerfile   bool          `json:"has_dockerfile"`
	SubProjects     []ProjectInfo `json:"sub_projects"`
	Parent          string        `json:"parent,omitempty"`
}

// Repository is the subset of a github repository shown in the dashboard
type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Private     bool   `json:"private"`
	Visibility  string `json:"visibility"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ContainerPackage is a container image published to the registry
type ContainerPackage struct {
	Name       string           `json:"name"`
	FullName   string           `json:"full_name"`
	ID         int64            `json:"id"`
	Visibility string           `json:"visibility"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
	URL        string           `json:"url"`
	Versions   int              `json:"versions"`
	Details    []PackageVersion `json:"version_details"`
}

// PackageVersion is one published version of a container package
type PackageVersion struct {
	Name      string `json:"name"`
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	URL       string `json:"url"`
}

// LocalImage is a docker image present on the local daemon
type LocalImage struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Created string `json:"created"`
	Size    string `json:"size"`
}

// FileInfo describes one entry returned by the folder browser
type FileInfo struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}
