package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/goasutlor/flexideploy/scanner"
)

type folderRequest struct {
	FolderPath string `json:"folder_path"`
}

func (s *Server) handleGetProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := scanner.DetectNearby(s.Logs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (s *Server) handleScanCustomFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FolderPath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "No folder path provided"})
		return
	}

	path := scanner.MapContainerPath(req.FolderPath, s.DockerEnv)
	s.Logs.Appendf("🔍 Final path to scan: '%s'", path)

	if _, err := os.Stat(path); err != nil {
		s.Logs.Appendf("❌ Path %s does not exist", path)
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Folder does not exist: " + path})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": scanner.Detect(path, s.Logs)})
}

func (s *Server) handleBrowseFolders(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FolderPath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "No folder path provided"})
		return
	}

	s.Logs.Appendf("🔍 Browse path: %s", req.FolderPath)
	files, err := scanner.BrowseFolder(req.FolderPath)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Folder does not exist: " + req.FolderPath})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

func (s *Server) handleDrives(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"drives": scanner.Drives(runCommand)})
}
