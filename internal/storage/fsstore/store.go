// Package fsstore хранит загруженные файлы в каталоге поверх afero.Fs.
// Запись идёт во временный .part-файл с последующим Rename, поэтому
// читатели никогда не видят недописанный файл.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/spf13/afero"
)

const (
	tempPrefix = ".upload-"
	tempSuffix = ".part"
)

// Store — файловое хранилище. fs уже должен быть «укоренён» в каталоге данных.
type Store struct {
	fs   afero.Fs
	root string
}

// New создаёт хранилище поверх произвольной afero.Fs, root используется только как метка для уведомлений.
func New(fsys afero.Fs, root string) *Store {
	return &Store{fs: fsys, root: root}
}

// NewOS создаёт каталог root на диске и ограничивает все операции им.
func NewOS(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage location is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not initialize storage: %w", err)
	}

	return New(afero.NewBasePathFs(afero.NewOsFs(), root), root), nil
}

// Root возвращает корень хранилища в виде, понятном внешнему скрипту.
func (s *Store) Root() string {
	return s.root
}

// Store сохраняет поток под именем name, заменяя существующий файл.
func (s *Store) Store(ctx context.Context, name string, r io.Reader) (models.StoredFile, error) {
	clean, err := models.CleanName(name, false)
	if err != nil {
		return models.StoredFile{}, err
	}
	if isTemp(clean) {
		return models.StoredFile{}, fmt.Errorf("%w: reserved name %q", models.ErrInvalidName, clean)
	}
	if err = ctx.Err(); err != nil {
		return models.StoredFile{}, err
	}

	tmp := "/" + tempPrefix + uuid.NewString() + tempSuffix
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("failed to store file %s: %w", clean, err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr == nil && closeErr == nil && n == 0 {
		copyErr = models.ErrEmptyFile
	}
	if copyErr != nil || closeErr != nil {
		_ = s.fs.Remove(tmp)
		if copyErr != nil {
			return models.StoredFile{}, fmt.Errorf("failed to store file %s: %w", clean, copyErr)
		}
		return models.StoredFile{}, fmt.Errorf("failed to store file %s: %w", clean, closeErr)
	}

	if err = s.fs.Rename(tmp, "/"+clean); err != nil {
		_ = s.fs.Remove(tmp)
		return models.StoredFile{}, fmt.Errorf("failed to store file %s: %w", clean, err)
	}

	storedAt := time.Now().UTC()
	if fi, statErr := s.fs.Stat("/" + clean); statErr == nil {
		storedAt = fi.ModTime().UTC()
	}

	return models.StoredFile{Name: clean, Size: n, StoredAt: storedAt}, nil
}

// LoadAll перечисляет файлы верхнего уровня в порядке каталога (по имени).
func (s *Store) LoadAll(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		return nil, fmt.Errorf("failed to read stored files: %w", err)
	}

	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		if !fi.Mode().IsRegular() || isTemp(fi.Name()) {
			continue
		}
		names = append(names, fi.Name())
	}

	return names, nil
}

// Load открывает файл на чтение. Для отсутствующего, временного, не обычного файла
// и для неканонического имени ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (*models.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// только каноническое имя: "a.json " или "./a.json" не должны отдавать a.json
	clean, err := models.CleanName(name, true)
	if err != nil || clean != name || isTemp(path.Base(clean)) {
		return nil, fmt.Errorf("could not read file %s: %w", name, models.ErrNotFound)
	}

	fi, err := s.fs.Stat("/" + clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read file %s: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read file %s: %w", name, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("could not read file %s: %w", name, models.ErrNotFound)
	}

	f, err := s.fs.Open("/" + clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not read file %s: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read file %s: %w", name, err)
	}

	return &models.Resource{
		Name:    path.Base(clean),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
		Body:    f,
	}, nil
}

// Usage суммирует размер всех файлов в хранилище, включая вложенные каталоги.
func (s *Store) Usage(ctx context.Context) (int64, error) {
	var total int64
	err := afero.Walk(s.fs, "/", func(_ string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}

	return total, nil
}

func isTemp(name string) bool {
	return strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}
