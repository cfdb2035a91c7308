package resthttp

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// serveFile отдаёт файл как вложение; на отсутствующий файл отвечает 404 с пустым телом.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	// chi маршрутизирует по RawPath, если он есть, и тогда параметр ещё экранирован.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			httperrors.Write(w, s.Log, models.ErrNotFound)
			return
		}
		name = unescaped
	}

	res, err := s.Files.Open(r.Context(), name)
	if err != nil {
		httperrors.Write(w, s.Log, err)
		return
	}
	defer res.Close()

	w.Header().Set("Content-Disposition", contentDisposition(res.Name))
	w.Header().Set("Content-Type", "application/octet-stream")
	if res.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}

	if _, err = io.Copy(w, res.Body); err != nil {
		// заголовки уже ушли, остаётся только лог
		s.Log.Warn("file transfer interrupted", "name", name, "error", err)
	}
}

// contentDisposition всегда даёт filename в кавычках; кавычки и обратные слэши в имени экранируются.
// Для имён вне печатного ASCII заголовок собирает mime.FormatMediaType (filename* по RFC 2231).
func contentDisposition(name string) string {
	for _, c := range name {
		if c < 0x20 || c > 0x7e {
			if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
				return v
			}
			return "attachment"
		}
	}

	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name)
	return `attachment; filename="` + escaped + `"`
}
