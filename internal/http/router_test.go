package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	router := NewRouter(RouterConfig{})

	t.Run("assigns an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	})
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("open by default", func(t *testing.T) {
		router := NewRouter(RouterConfig{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://school.example")
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted origins", func(t *testing.T) {
		router := NewRouter(RouterConfig{AllowedOrigins: []string{"http://admin.example"}})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://admin.example")
		router.ServeHTTP(w, req)
		assert.Equal(t, "http://admin.example", w.Header().Get("Access-Control-Allow-Origin"))

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAllowsAnyOrigin(t *testing.T) {
	assert.True(t, allowsAnyOrigin(nil))
	assert.True(t, allowsAnyOrigin([]string{"*"}))
	assert.True(t, allowsAnyOrigin([]string{"http://a.example", "*"}))
	assert.False(t, allowsAnyOrigin([]string{"http://a.example"}))
}

func TestNewRouter_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>school</h1>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("console.log('school')"), 0o644))

	router := NewRouter(RouterConfig{StaticPath: dir})

	tests := []struct {
		name     string
		path     string
		code     int
		contains string
	}{
		{name: "asset under /static", path: "/static/js/app.js", code: http.StatusOK, contains: "school"},
		{name: "index under /static", path: "/static/", code: http.StatusOK, contains: "school"},
		{name: "index at root", path: "/index.html", code: http.StatusOK, contains: "school"},
		{name: "asset at root", path: "/js/app.js", code: http.StatusOK, contains: "console.log"},
		{name: "root stays the liveness text", path: "/", code: http.StatusOK, contains: "Server running"},
		{name: "missing file", path: "/missing.js", code: http.StatusNotFound},
		{name: "directory at root", path: "/js", code: http.StatusNotFound},
		{name: "traversal stays inside root", path: "/../../etc/passwd", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tt.path, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.contains != "" {
				assert.Contains(t, w.Body.String(), tt.contains)
			}
		})
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/index.html", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "only GET and HEAD read static files")
}

func TestNewRouter_MissingStaticPath(t *testing.T) {
	router := NewRouter(RouterConfig{StaticPath: filepath.Join(t.TempDir(), "missing")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/static/index.html", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRouter_OptionalGroups(t *testing.T) {
	router := NewRouter(RouterConfig{})

	for _, path := range []string{"/students", "/fees/report", "/attendance/analytics/10A", "/api/tasks/types"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", path, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}
