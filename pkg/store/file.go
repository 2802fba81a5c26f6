package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/sceneio"
)

// FileStore keeps scenes as <dir>/<run_id>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store dir")
	}
	return &FileStore{dir: dir}, nil
}

// Save writes doc, replacing any scene with the same run id.
func (s *FileStore) Save(ctx context.Context, doc sceneio.Document) error {
	if err := errors.ValidateSceneID(doc.RunID); err != nil {
		return err
	}
	path := s.path(doc.RunID)
	tmp := path + ".tmp"
	if err := sceneio.ExportJSON(doc, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Get loads the scene with the given id.
func (s *FileStore) Get(ctx context.Context, id string) (sceneio.Document, error) {
	if err := errors.ValidateSceneID(id); err != nil {
		return sceneio.Document{}, err
	}
	path := s.path(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return sceneio.Document{}, errors.New(errors.ErrCodeNotFound, "scene %q not found", id)
	}
	return sceneio.ImportJSON(path)
}

// List summarizes stored scenes, newest first.
func (s *FileStore) List(ctx context.Context, limit int) ([]Summary, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := sceneio.ImportJSON(m)
		if err != nil {
			continue
		}
		out = append(out, Summarize(doc))
	}
	return newestFirst(out, limit), nil
}

// Delete removes the scene with the given id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateSceneID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeNotFound, "scene %q not found", id)
	}
	return err
}

func (s *FileStore) Close(context.Context) error { return nil }

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

var _ Store = (*FileStore)(nil)
