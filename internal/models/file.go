package models

import (
	"io"
	"time"
)

// StoredFile описывает файл, уже лежащий в хранилище.
type StoredFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Sha256   string    `json:"sha256"`
	StoredAt time.Time `json:"stored_at"`
}

// Resource — дескриптор содержимого файла для отдачи клиенту. Body закрывает вызывающий.
type Resource struct {
	Name    string
	Size    int64
	ModTime time.Time
	Body    io.ReadCloser
}

// Close закрывает тело ресурса, если оно есть.
func (r *Resource) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
