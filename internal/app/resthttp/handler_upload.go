package resthttp

import (
	"fmt"
	"net/http"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

const uploadField = "file"

// handleUpload сохраняет файл из поля "file", оставляет flash-сообщение, будит уведомитель и редиректит на "/".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadField)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		httperrors.Write(w, s.Log, fmt.Errorf("%w: %v", models.ErrMissingFile, err))
		return
	}
	defer file.Close()

	stored, err := s.Files.Upload(r.Context(), header.Filename, file)
	if err != nil {
		httperrors.Write(w, s.Log, err)
		return
	}

	s.Log.Info("file uploaded", "name", stored.Name, "size", stored.Size, "sha256", stored.Sha256)
	s.Flash.Set(w, fmt.Sprintf("You successfully uploaded %s!", header.Filename))
	s.Notifier.Notify(r.Context(), s.Files.Root())

	http.Redirect(w, r, "/", http.StatusFound)
}
