package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/observability"
)

// File stores each replay as <id>.json under a directory. Writes go
// through a temp file and rename so a crash never leaves a torn document.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates the directory if needed and returns a file store.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating replay directory")
	}
	return &File{dir: dir}, nil
}

func (f *File) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

// Save writes the record atomically.
func (f *File) Save(ctx context.Context, rec *Record) error {
	stamp(rec)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding replay")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, rec.ID+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "creating temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "writing replay")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "closing replay file")
	}
	if err := os.Rename(tmp.Name(), f.path(rec.ID)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "renaming replay file")
	}

	observability.Store().OnSave(ctx, "file", rec.ID, len(data))
	return nil
}

// Get reads a record by ID.
func (f *File) Get(ctx context.Context, id string) (*Record, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		observability.Store().OnLoad(ctx, "file", id, false)
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeReplayNotFound, "replay %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading replay")
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding replay %s", id)
	}
	observability.Store().OnLoad(ctx, "file", id, true)
	return &rec, nil
}

// List reads every document in the directory and returns them newest first.
func (f *File) List(ctx context.Context, limit int) ([]Record, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing replay directory")
	}

	var out []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		rec, err := f.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Skip corrupt or foreign files rather than failing the listing.
			continue
		}
		out = append(out, *rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a record's file; missing files are ignored.
func (f *File) Delete(_ context.Context, id string) error {
	if err := os.Remove(f.path(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting replay")
	}
	return nil
}

// Close is a no-op.
func (f *File) Close(context.Context) error { return nil }
