package http

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/schooldesk/internal/tasks"
)

func setupTaskClient(t *testing.T) (*tasks.Client, func()) {
	t.Helper()
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "school.db"), tasks.DefaultConfig())
	require.NoError(t, err)
	return client, func() { client.Close() }
}

func TestTasksController_ListTaskTypes(t *testing.T) {
	client, cleanup := setupTaskClient(t)
	defer cleanup()

	router := NewRouter(RouterConfig{TaskClient: client})
	w := doJSON(t, router, http.MethodGet, "/api/tasks/types", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"reconcile_fees"`)
}

func TestTasksController_RunTask(t *testing.T) {
	client, cleanup := setupTaskClient(t)
	defer cleanup()
	client.Register(tasks.NewReconcileFeesQueue(nil))

	router := NewRouter(RouterConfig{TaskClient: client})

	t.Run("enqueues reconciliation", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/tasks/reconcile_fees/run", nil)
		require.Equal(t, http.StatusAccepted, w.Code)

		var body map[string]any
		decodeJSON(t, w, &body)
		assert.Equal(t, true, body["success"])
		taskID, _ := body["task_id"].(string)
		require.NotEmpty(t, taskID)

		// Workers are not started, so the task stays queued.
		status, err := client.Status(context.Background(), taskID)
		require.NoError(t, err)
		assert.Equal(t, backlite.TaskStatusPending, status)

		w = doJSON(t, router, http.MethodGet, "/api/tasks/"+taskID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
	})

	t.Run("unknown task type", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/tasks/wipe_everything/run", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskStatusToString(t *testing.T) {
	tests := []struct {
		status   backlite.TaskStatus
		expected string
	}{
		{backlite.TaskStatusPending, "pending"},
		{backlite.TaskStatusRunning, "running"},
		{backlite.TaskStatusSuccess, "success"},
		{backlite.TaskStatusFailure, "failure"},
		{backlite.TaskStatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, taskStatusToString(tt.status))
		})
	}
}
