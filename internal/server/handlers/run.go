// internal/server/handlers/run.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
)

// Pipeline exposes the automation service to the HTTP layer
type Pipeline interface {
	// LatestRun returns the most recent run result, or nil before any run
	LatestRun() *post.RunResult

	// TriggerRun starts a run in the background
	TriggerRun()
}

// ArchiveReader reads archived run results
type ArchiveReader interface {
	Latest(ctx context.Context) (*post.RunResult, error)
}

// RunHandler handles run-related HTTP requests
type RunHandler struct {
	pipeline Pipeline
	archive  ArchiveReader
}

// NewRunHandler creates a new run handler
func NewRunHandler(pipeline Pipeline, archive ArchiveReader) *RunHandler {
	return &RunHandler{
		pipeline: pipeline,
		archive:  archive,
	}
}

// GetLatestRun returns the full latest run result
func (h *RunHandler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latestRun(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "No runs recorded yet", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetLatestTrends returns the trend data of the latest run
func (h *RunHandler) GetLatestTrends(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latestRun(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "No runs recorded yet", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"region":            result.Region,
		"timestamp":         result.Timestamp,
		"trending_keywords": result.TrendingKeywords,
		"interest_data":     result.InterestData,
		"related_queries":   result.RelatedQueries,
	})
}

// GetLatestPosts returns the posts generated by the latest run
func (h *RunHandler) GetLatestPosts(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latestRun(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "No runs recorded yet", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, result.GeneratedPosts)
}

// TriggerRun starts a pipeline run in the background
func (h *RunHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	h.pipeline.TriggerRun()
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "run triggered"})
}

// latestRun resolves the latest run from memory, falling back to the archive
func (h *RunHandler) latestRun(r *http.Request) (*post.RunResult, bool) {
	if result := h.pipeline.LatestRun(); result != nil {
		return result, true
	}

	if h.archive == nil {
		return nil, false
	}

	result, err := h.archive.Latest(r.Context())
	if err != nil || result == nil {
		return nil, false
	}

	return result, true
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["detail"] = err.Error()
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
