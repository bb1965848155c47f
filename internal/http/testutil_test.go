package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/schooldesk/internal/database"
	"github.com/mrlokans/schooldesk/internal/database/attendance"
	"github.com/mrlokans/schooldesk/internal/database/fees"
	"github.com/mrlokans/schooldesk/internal/database/students"
)

type testStores struct {
	db         *database.Database
	students   *students.Repository
	fees       *fees.Repository
	attendance *attendance.Repository
}

func setupTestStores(t *testing.T) (*testStores, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "school.db"))
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC) }
	stores := &testStores{
		db:         db,
		students:   students.NewRepository(db.DB).WithClock(clock).WithBillNumbers(func() int { return 7 }),
		fees:       fees.NewRepository(db.DB).WithClock(clock),
		attendance: attendance.NewRepository(db.DB),
	}

	cleanup := func() {
		db.Close()
	}
	return stores, cleanup
}

func (s *testStores) router() *gin.Engine {
	return NewRouter(RouterConfig{
		Students:   s.students,
		Fees:       s.fees,
		Attendance: s.attendance,
		Database:   s.db,
		Version:    "test",
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}
