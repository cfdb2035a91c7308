package models

import "errors"

var (
	ErrNotFound    = errors.New("file not found")
	ErrEmptyFile   = errors.New("failed to store empty file")
	ErrInvalidName = errors.New("invalid file name")
	ErrMissingFile = errors.New(`missing multipart field "file"`)
)
