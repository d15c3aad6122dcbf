package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const DefaultRecentLimit = 10

// Store owns the on-disk layout of run records, captures, outputs and the
// append-only history log, all rooted at DataDir.
type Store struct {
	DataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{DataDir: strings.TrimSpace(dataDir)}
}

func (s *Store) runsDir() string {
	return filepath.Join(s.DataDir, "runs")
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.runsDir(), runID)
}

func (s *Store) CapturesDir(runID string) string {
	return filepath.Join(s.DataDir, "captures", runID)
}

func (s *Store) OutputsDir(runID string) string {
	return filepath.Join(s.DataDir, "outputs", runID)
}

func (s *Store) HistoryPath() string {
	return filepath.Join(s.DataDir, "history.jsonl")
}

func (s *Store) recordPath(runID string) string {
	return filepath.Join(s.RunDir(runID), "run.json")
}

// Save durably persists the record under runs/<run_id>/run.json, overwriting
// any prior version.
func (s *Store) Save(rec RunRecord) error {
	if s == nil || strings.TrimSpace(s.DataDir) == "" {
		return errors.New("data dir is empty")
	}
	if strings.TrimSpace(rec.RunID) == "" {
		return errors.New("run id is required")
	}
	return writeJSONAtomic(s.recordPath(rec.RunID), rec)
}

// Load reads a single record by id.
func (s *Store) Load(runID string) (RunRecord, error) {
	if strings.TrimSpace(runID) == "" {
		return RunRecord{}, errors.New("run id is required")
	}
	data, err := os.ReadFile(s.recordPath(runID))
	if err != nil {
		return RunRecord{}, err
	}
	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return RunRecord{}, fmt.Errorf("parse run record: %w", err)
	}
	return rec, nil
}

// LoadRecent returns up to limit records ordered by created_at descending.
// Records that fail to parse are skipped, not fatal.
func (s *Store) LoadRecent(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	entries, err := os.ReadDir(s.runsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []RunRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(s.recordPath(entry.Name()))
		if err != nil {
			continue
		}
		var rec RunRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AppendHistory writes one JSON line to the history log. Prior lines are
// never rewritten.
func (s *Store) AppendHistory(entry HistoryEntry) error {
	path := s.HistoryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	lockPath := path + ".lock"
	return withFileLock(lockPath, 5*time.Second, func() error {
		line, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = f.Write(append(line, '\n'))
		return err
	})
}

func writeJSONAtomic(path string, payload any) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	lockPath := path + ".lock"
	return withFileLock(lockPath, 5*time.Second, func() error {
		tmp := fmt.Sprintf("%s.tmp-%d", path, time.Now().UTC().UnixNano())
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			_ = os.Remove(tmp)
			return err
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return err
		}
		return nil
	})
}

func withFileLock(lockPath string, timeout time.Duration, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return err
	}
	start := time.Now().UTC()
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_ = f.Close()
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return err
		}
		if timeout > 0 && time.Since(start) > timeout {
			return fmt.Errorf("acquire lock timeout: %s", lockPath)
		}
		time.Sleep(20 * time.Millisecond)
	}
	defer os.Remove(lockPath)
	return fn()
}
