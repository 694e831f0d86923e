package watermark

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type record struct {
	LastProcessedDatetime string `json:"last_processed_datetime"`
}

// FileStore persists the last-processed timestamp as a single-field
// JSON record. Both operations fail soft: a missing or corrupt file
// reads as absent, and a failed save is logged without aborting the
// batch result already computed.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With("component", "watermark"),
	}
}

// Load returns the persisted watermark, or ok=false when no usable
// value exists.
func (s *FileStore) Load() (time.Time, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return time.Time{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("watermark file is corrupt, ignoring", "path", s.path, "error", err)
		return time.Time{}, false
	}
	if rec.LastProcessedDatetime == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, rec.LastProcessedDatetime)
	if err != nil {
		s.logger.Warn("watermark timestamp is malformed, ignoring", "path", s.path, "error", err)
		return time.Time{}, false
	}

	return t, true
}

// Save writes the watermark atomically via a temp file and rename, so
// a crash mid-write cannot leave a half-written record.
func (s *FileStore) Save(t time.Time) {
	data, err := json.Marshal(record{LastProcessedDatetime: t.UTC().Format(time.RFC3339)})
	if err != nil {
		s.logger.Error("failed to encode watermark", "error", err)
		return
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".watermark-*")
	if err != nil {
		s.logger.Error("failed to save watermark", "path", s.path, "error", err)
		return
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.logger.Error("failed to save watermark", "path", s.path, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("failed to save watermark", "path", s.path, "error", err)
		return
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("failed to save watermark", "path", s.path, "error", err)
	}
}
