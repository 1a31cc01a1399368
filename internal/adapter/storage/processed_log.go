// internal/adapter/storage/processed_log.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/KibzGithub7407/kenya-trends-automation/internal/domain/post"
)

// ProcessedLogStore persists the set of keywords already processed to a
// single flat file. Overwrite semantics: callers wanting accumulation must
// union the loaded set with new keywords before calling Save.
type ProcessedLogStore struct {
	path   string
	logger zerolog.Logger
}

// NewProcessedLogStore creates a new processed-keywords log store
func NewProcessedLogStore(path string, logger zerolog.Logger) *ProcessedLogStore {
	return &ProcessedLogStore{
		path:   path,
		logger: logger.With().Str("component", "processed_log").Logger(),
	}
}

// Load reads the persisted keyword set. A missing file yields an empty set;
// malformed content is logged and also yields an empty set.
func (s *ProcessedLogStore) Load(ctx context.Context) (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("reading processed log: %w", err)
	}

	var log post.ProcessedLog
	if err := json.Unmarshal(data, &log); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("processed log is malformed, starting with empty set")
		return map[string]struct{}{}, nil
	}

	keywords := make(map[string]struct{}, len(log.ProcessedKeywords))
	for _, keyword := range log.ProcessedKeywords {
		keywords[keyword] = struct{}{}
	}

	return keywords, nil
}

// Save atomically overwrites the log file with the given keyword set and
// the current timestamp.
func (s *ProcessedLogStore) Save(ctx context.Context, keywords map[string]struct{}) error {
	sorted := make([]string, 0, len(keywords))
	for keyword := range keywords {
		sorted = append(sorted, keyword)
	}
	sort.Strings(sorted)

	log := post.ProcessedLog{
		ProcessedKeywords: sorted,
		LastUpdated:       time.Now().UTC(),
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling processed log: %w", err)
	}

	// Write to a temp file in the same directory, then rename over the target
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp log file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp log file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp log file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing processed log: %w", err)
	}

	return nil
}
