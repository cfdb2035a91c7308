package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/logger"
)

// Write переводит ошибку сервиса в HTTP-ответ. Неклассифицированные ошибки отдаются
// как голый 500 без деталей; причина уходит только в лог.
func Write(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, models.ErrMissingFile):
		http.Error(w, models.ErrMissingFile.Error(), http.StatusBadRequest)
	default:
		if log != nil {
			log.Error("request failed", "error", err)
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
