// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() Checker { return pingFunc(func(context.Context) error { return nil }) }

func failing() Checker {
	return pingFunc(func(context.Context) error { return errors.New("down") })
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHandler(
		Dependency{Name: "store", Checker: healthy()},
		Dependency{Name: "redis", Checker: healthy()},
	)

	w := serve(h, "/readyz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReadinessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Checks, 2)
	require.Equal(t, "store", resp.Checks[0].Name)
}

func TestReadinessDegraded(t *testing.T) {
	h := NewHandler(
		Dependency{Name: "store", Checker: healthy()},
		Dependency{Name: "redis", Checker: failing()},
	)

	w := serve(h, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"degraded"`)
}

func TestShutdownFlipsProbes(t *testing.T) {
	h := NewHandler(Dependency{Name: "store", Checker: healthy()})
	require.Equal(t, http.StatusOK, serve(h, "/livez").Code)

	h.SetShutdown(true)
	require.Equal(t, http.StatusServiceUnavailable, serve(h, "/livez").Code)
	require.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
}
