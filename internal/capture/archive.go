package capture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no archived record has the requested ID.
var ErrNotFound = errors.New("capture not found")

const (
	filePrefix = "capture_"
	fileSuffix = ".json"
)

// Archive keeps records as timestamped JSON files in one directory and
// holds at most maxFiles of them, dropping the oldest captures first.
type Archive struct {
	dir      string
	maxFiles int
	mu       sync.Mutex // serializes write+prune
}

// NewArchive creates an Archive in dir keeping at most maxFiles records.
func NewArchive(dir string, maxFiles int) *Archive {
	if maxFiles <= 0 {
		maxFiles = 100
	}
	return &Archive{
		dir:      dir,
		maxFiles: maxFiles,
	}
}

// Dir returns the archive directory.
func (a *Archive) Dir() string { return a.dir }

// Check reports whether the archive directory can be created and written.
func (a *Archive) Check() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}
	f, err := os.CreateTemp(a.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("archive dir not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// Write stores r and prunes old records beyond maxFiles.
func (a *Archive) Write(r Record) error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("%w: archive needs a uuid, got %q", ErrInvalidRecord, r.ID)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return fmt.Errorf("encoding capture %s: %w", r.ID, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	path := filepath.Join(a.dir, fileName(r))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing capture file: %w", err)
	}

	return a.prune()
}

// Load reads the record with the given ID.
func (a *Archive) Load(id string) (Record, error) {
	files, err := a.listFiles()
	if err != nil {
		return Record{}, err
	}
	for _, f := range files {
		if f.id == id {
			return a.read(f.name)
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns up to limit records, newest first. limit <= 0 means all.
// Files that no longer decode are skipped.
func (a *Archive) List(limit int) ([]Record, error) {
	files, err := a.listFiles()
	if err != nil {
		return nil, err
	}

	var out []Record
	for i := len(files) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		r, err := a.read(files[i].name)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (a *Archive) read(name string) (Record, error) {
	f, err := os.Open(filepath.Join(a.dir, name))
	if err != nil {
		return Record{}, fmt.Errorf("reading capture file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// fileName is capture_<timestamp ms>_<id>.json, so names sort by capture time.
func fileName(r Record) string {
	return fmt.Sprintf("%s%d_%s%s", filePrefix, r.Millis(), r.ID, fileSuffix)
}

type archiveFile struct {
	name string
	ts   int64
	id   string
}

func (a *Archive) listFiles() ([]archiveFile, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing archive dir: %w", err)
	}

	var files []archiveFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		stem := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		tsStr, id, ok := strings.Cut(stem, "_")
		if !ok {
			continue
		}
		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, archiveFile{name: name, ts: ts, id: id})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ts != files[j].ts {
			return files[i].ts < files[j].ts
		}
		return files[i].name < files[j].name
	})

	return files, nil
}

func (a *Archive) prune() error {
	files, err := a.listFiles()
	if err != nil {
		return err
	}

	if len(files) <= a.maxFiles {
		return nil
	}

	for _, f := range files[:len(files)-a.maxFiles] {
		if err := os.Remove(filepath.Join(a.dir, f.name)); err != nil {
			return fmt.Errorf("pruning capture file %s: %w", f.name, err)
		}
	}

	return nil
}
