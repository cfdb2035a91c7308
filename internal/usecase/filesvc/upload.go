package filesvc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/metrics"
)

// Upload сохраняет поток в хранилище и фиксирует размер и SHA-256 в журнале.
func (s *Files) Upload(ctx context.Context, name string, r io.Reader) (models.StoredFile, error) {
	file, err := s.upload(ctx, name, r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.StatusFailed).Inc()
		return models.StoredFile{}, err
	}

	metrics.UploadsTotal.WithLabelValues(metrics.StatusOK).Inc()
	metrics.UploadedBytes.Add(float64(file.Size))
	return file, nil
}

func (s *Files) upload(ctx context.Context, name string, r io.Reader) (models.StoredFile, error) {
	hasher := sha256.New()
	body, err := hashingBody(r, hasher)
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("hash upload: %w", err)
	}

	file, err := s.Storage.Store(ctx, name, body)
	if err != nil {
		return models.StoredFile{}, err
	}
	file.Sha256 = hex.EncodeToString(hasher.Sum(nil))

	if s.Journal != nil {
		if err = s.Journal.Save(ctx, file); err != nil {
			return models.StoredFile{}, fmt.Errorf("save upload record: %w", err)
		}
	}

	return file, nil
}

// hashingBody считает хеш. Сикабельный поток хешируется заранее и перематывается,
// чтобы хранилище получило его без обёрток; остальные хешируются на лету через TeeReader.
func hashingBody(r io.Reader, h hash.Hash) (io.Reader, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return io.TeeReader(r, h), nil
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(h, rs); err != nil {
		return nil, err
	}
	if _, err = rs.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}

	return rs, nil
}
