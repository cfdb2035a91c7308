package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK         bool  `json:"ok"`
	TotalBytes int64 `json:"total_bytes"`
}

// health возвращает флаг готовности и занятый хранилищем объём.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	total, err := s.Files.Usage(r.Context())
	if err != nil {
		httperrors.Write(w, s.Log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthStats{
		OK:         true,
		TotalBytes: total,
	})
}
