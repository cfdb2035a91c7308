package models

import (
	"fmt"
	"path"
	"strings"
)

// CleanName нормализует имя файла в хранилище: слэши прямые, без ведущего "/", без "..".
// nested разрешает вложенные пути вида "dir/file.json".
func CleanName(name string, nested bool) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: absolute path %q", ErrInvalidName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q points outside storage root", ErrInvalidName, name)
		}
	}

	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !nested && strings.Contains(cleaned, "/") {
		return "", fmt.Errorf("%w: cannot store %q outside storage root", ErrInvalidName, name)
	}

	return cleaned, nil
}
