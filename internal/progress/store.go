package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Record is the last-completed-session summary for one user. It is
// overwritten, not appended, on each quiz completion. Unknown extra keys
// in the persisted form are tolerated on read.
type Record struct {
	Subject  string  `json:"subject"`
	Score    int     `json:"score"`
	Accuracy float64 `json:"accuracy"`
}

// CorruptFileError indicates the backing file exists but does not parse
// into the username → Record mapping. The store fails fast rather than
// silently discarding persisted state.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("corrupt progress file %s: %v", e.Path, e.Err)
}

func (e *CorruptFileError) Unwrap() error { return e.Err }

// Store persists the username → Record mapping as a single JSON document
// on disk. Whole-file load and save; single-process, single-writer.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path. The file need not
// exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full mapping. A missing file is equivalent to an empty
// mapping; a file that exists but does not parse fails with
// *CorruptFileError.
func (s *Store) Load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]Record{}, nil
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	records := map[string]Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &CorruptFileError{Path: s.path, Err: err}
	}
	return records, nil
}

// Save overwrites the backing file with the entire mapping. The write
// goes to a temp file in the same directory and is renamed into place,
// so a crash mid-write never leaves a file that fails to parse.
func (s *Store) Save(records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".progress-*.json")
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp progress file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// DefaultPath resolves the progress file path in priority order:
// 1. QUIZBOT_PROGRESS environment variable
// 2. $XDG_DATA_HOME/quizbot/progress.json
// 3. ~/.local/share/quizbot/progress.json
func DefaultPath() (string, error) {
	if p := os.Getenv("QUIZBOT_PROGRESS"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizbot", "progress.json")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
