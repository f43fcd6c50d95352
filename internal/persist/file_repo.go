package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/save"
)

// FileRepo keeps one JSON file per slot in a directory.
type FileRepo struct {
	dir string
	log *zap.Logger
}

func NewFileRepo(dir string, log *zap.Logger) *FileRepo {
	return &FileRepo{dir: dir, log: log}
}

func (r *FileRepo) Dir() string { return r.dir }

// Path returns the file path of slot name.
func (r *FileRepo) Path(name string) string {
	return filepath.Join(r.dir, name)
}

func (r *FileRepo) names() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list saves: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func (r *FileRepo) NextName(_ context.Context) (string, error) {
	names, err := r.names()
	if err != nil {
		return "", err
	}
	return firstFree(names), nil
}

// Write stores s atomically: a temp file in the same directory is renamed
// over the slot.
func (r *FileRepo) Write(_ context.Context, name string, s *save.State) error {
	if err := ValidName(name); err != nil {
		return err
	}
	data, err := save.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp, err := os.CreateTemp(r.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write save %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), r.Path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write save %s: %w", name, err)
	}
	r.log.Info("save written",
		zap.String("path", r.Path(name)),
		zap.Int("entities", len(s.Entities)),
		zap.String("digest", s.Digest()),
	)
	return nil
}

func (r *FileRepo) Read(_ context.Context, name string) (*save.State, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, name)
		}
		return nil, fmt.Errorf("read save %s: %w", name, err)
	}
	s, err := save.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("read save %s: %w", name, err)
	}
	return s, nil
}

func (r *FileRepo) List(_ context.Context) ([]string, error) {
	names, err := r.names()
	if err != nil {
		return nil, err
	}
	return filterSlots(names), nil
}
