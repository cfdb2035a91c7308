// Package uploadclient реализует HTTP-клиент сервиса загрузки файлов.
package uploadclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ErrNotFound возвращается, когда сервер ответил 404 на скачивание.
var ErrNotFound = errors.New("file not found")

type (
	Client interface {
		// Upload Отправить файл формой, как это делает браузер
		Upload(ctx context.Context, name string, r io.Reader, size int64) error
		// Download Скачать файл по имени в w
		Download(ctx context.Context, name string, w io.Writer) (int64, error)
		// List Получить ссылки на *.json со страницы списка
		List(ctx context.Context) ([]string, error)
	}

	// Option настраивает клиент.
	Option func(*httpClient)
)

type httpClient struct {
	base     string
	c        *http.Client
	progress io.Writer
}

// WithHTTPClient подменяет транспорт; редиректы клиент всё равно не выполняет.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) {
		if c != nil {
			h.c = c
		}
	}
}

// WithProgress включает индикатор передачи в out.
func WithProgress(out io.Writer) Option {
	return func(h *httpClient) { h.progress = out }
}

// New создаёт клиент для сервиса по адресу baseURL (например, http://localhost:8080).
func New(baseURL string, opts ...Option) Client {
	h := &httpClient{
		base: strings.TrimRight(baseURL, "/"),
		c:    &http.Client{},
	}
	for _, opt := range opts {
		opt(h)
	}

	// 302 после загрузки означает успех, по редиректу не идём.
	c := *h.c
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	h.c = &c

	return h
}

// Upload стримит файл в поле "file" multipart-формы без буферизации в памяти.
func (h *httpClient) Upload(ctx context.Context, name string, r io.Reader, size int64) error {
	bar := newProgress(h.progress, "Uploading "+name, size)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		fw, err := mw.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(fw, io.TeeReader(r, bar))
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+"/", pr)
	if err != nil {
		_ = pr.Close()
		bar.finish(err)
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		bar.finish(err)
		return err
	}
	defer resp.Body.Close()
	_ = pr.Close()

	switch resp.StatusCode {
	case http.StatusFound, http.StatusSeeOther, http.StatusOK:
		bar.finish(nil)
		return nil
	default:
		err = fmt.Errorf("upload %s failed: %s", name, resp.Status)
		bar.finish(err)
		return err
	}
}

// Download копирует содержимое файла в w и возвращает число байт.
func (h *httpClient) Download(ctx context.Context, name string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+"/files/"+escapePath(name), nil)
	if err != nil {
		return 0, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("download %s: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("download %s failed: %s", name, resp.Status)
	}

	bar := newProgress(h.progress, "Downloading "+name, resp.ContentLength)
	n, err := io.Copy(w, io.TeeReader(resp.Body, bar))
	bar.finish(err)
	return n, err
}

// List запрашивает страницу списка в JSON и возвращает абсолютные ссылки.
func (h *httpClient) List(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+"/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list failed: %s", resp.Status)
	}

	var view struct {
		Files []string `json:"files"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return view.Files, nil
}

func escapePath(name string) string {
	segs := strings.Split(name, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
