package httperrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestWrite(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		wantBody string
	}{
		{"not found is bare", fmt.Errorf("could not read file x: %w", models.ErrNotFound), http.StatusNotFound, ""},
		{"missing field", models.ErrMissingFile, http.StatusBadRequest, models.ErrMissingFile.Error()},
		{"empty upload is generic", fmt.Errorf("failed to store file a: %w", models.ErrEmptyFile), http.StatusInternalServerError, "Internal Server Error"},
		{"io error is generic", errors.New("open /srv/upload-dir/a.json: permission denied"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Write(rec, logger.NewNop(), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.wantBody, strings.TrimSpace(rec.Body.String()))
			assert.NotContains(t, rec.Body.String(), "/srv/upload-dir")
		})
	}
}
