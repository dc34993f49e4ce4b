package history

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, *memoryHistoryRepo) {
	t.Helper()
	repo := newMemoryHistoryRepo()
	handler := NewHandler(slog.Default(), NewService(repo, nil))
	r := chi.NewRouter()
	MountRoutes(r, handler)
	return r, repo
}

func TestListRejectsMalformedDateParams(t *testing.T) {
	router, repo := newTestRouter(t)
	seedEntries(t, repo, 3, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	for _, target := range []string{
		"/?date_from=not-a-date",
		"/?date_to=15/03/2025",
		"/?date_from=2025-13-40",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.Contains(t, rec.Body.String(), "YYYY-MM-DD", target)
	}
}

func TestListAcceptsWellFormedDateWindow(t *testing.T) {
	router, repo := newTestRouter(t)
	seedEntries(t, repo, 3, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?date_from=2025-03-10&date_to=2025-03-10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":3`)
}
