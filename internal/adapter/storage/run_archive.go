// internal/adapter/storage/run_archive.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
)

const (
	archivePrefix = "kenya_trends_data_"
	archiveSuffix = ".json"

	// Matches the original archive naming: kenya_trends_data_YYYYMMDD_HHMMSS.json
	archiveTimeLayout = "20060102_150405"
)

// RunArchive writes each run's output document to a fresh timestamped JSON
// file; files are never appended to or rewritten.
type RunArchive struct {
	dir string
}

// NewRunArchive creates a new run archive rooted at dir
func NewRunArchive(dir string) *RunArchive {
	return &RunArchive{dir: dir}
}

// Write persists a run result and returns the path it was written to
func (a *RunArchive) Write(ctx context.Context, result post.RunResult) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}

	filename := archivePrefix + result.Timestamp.Format(archiveTimeLayout) + archiveSuffix
	path := filepath.Join(a.dir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling run result: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing run result: %w", err)
	}

	return path, nil
}

// Latest returns the most recent archived run result, or nil when the
// archive is empty.
func (a *RunArchive) Latest(ctx context.Context) (*post.RunResult, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading archive directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, nil
	}

	// Timestamped names sort chronologically
	sort.Strings(names)
	path := filepath.Join(a.dir, names[len(names)-1])

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archived run: %w", err)
	}

	var result post.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing archived run: %w", err)
	}

	return &result, nil
}
