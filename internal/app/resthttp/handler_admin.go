package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// listUploads отдаёт журнал загрузок, свежие первыми.
func (s *Server) listUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.Files.Uploads(r.Context())
	if err != nil {
		httperrors.Write(w, s.Log, err)
		return
	}
	if uploads == nil {
		uploads = []models.StoredFile{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(uploads)
}

// showConfig отдаёт действующую конфигурацию без секретов.
func (s *Server) showConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Cfg.Redacted())
}
