package resthttp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

const listedSuffix = ".json"

// listView — данные страницы со списком, в Files абсолютные ссылки на скачивание.
type listView struct {
	Message string   `json:"message,omitempty"`
	Files   []string `json:"files"`
}

// listFiles отдаёт форму загрузки и ссылки только на *.json в порядке хранилища.
func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.Files.List(r.Context())
	if err != nil {
		httperrors.Write(w, s.Log, err)
		return
	}

	view := listView{Files: filterJSON(downloadURLs(baseURL(r), names))}
	view.Message = s.Flash.Pop(w, r)

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view)
		return
	}

	var buf bytes.Buffer
	if err = s.tmpl.ExecuteTemplate(&buf, "upload_form.html", view); err != nil {
		httperrors.Write(w, s.Log, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// downloadURLs строит ссылку на /files/{name} для каждого имени, сохраняя порядок.
func downloadURLs(base string, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, base+"/files/"+escapePath(n))
	}
	return out
}

// filterJSON оставляет ссылки, оканчивающиеся ровно на ".json" (с учётом регистра).
func filterJSON(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.HasSuffix(u, listedSuffix) {
			out = append(out, u)
		}
	}
	return out
}

func escapePath(name string) string {
	segs := strings.Split(name, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
