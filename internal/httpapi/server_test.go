package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/infra/filebacked"
	"github.com/runoshun/kanban/internal/infra/memstore"
	"github.com/runoshun/kanban/internal/testutil"
)

func newTestServer(t *testing.T, manager domain.TaskManager, cors ...string) *httptest.Server {
	t.Helper()
	if manager == nil {
		manager = memstore.New(nil, nil)
	}
	srv := New(manager, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORS:   cors,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeItem(t *testing.T, data []byte) itemResponse {
	t.Helper()
	var item itemResponse
	require.NoError(t, json.Unmarshal(data, &item))
	return item
}

func decodeItems(t *testing.T, data []byte) []itemResponse {
	t.Helper()
	var items []itemResponse
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestServer_TaskLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	// Create
	resp, data := do(t, ts, http.MethodPost, "/tasks", `{"name":"report","startTime":"01.03.2024T09:00:00","duration":90}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeItem(t, data)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "NEW", created.Status)
	assert.Equal(t, "Task", created.Type)
	require.NotNil(t, created.EndTime)
	assert.Equal(t, "01.03.2024T10:30:00", *created.EndTime)

	// Read
	resp, data = do(t, ts, http.MethodGet, "/tasks/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "report", decodeItem(t, data).Name)

	// Update
	resp, _ = do(t, ts, http.MethodPut, "/tasks/1", `{"id":1,"name":"report v2","status":"IN_PROGRESS","startTime":"01.03.2024T09:00:00","duration":30}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, data = do(t, ts, http.MethodGet, "/tasks", "")
	items := decodeItems(t, data)
	require.Len(t, items, 1)
	assert.Equal(t, "IN_PROGRESS", items[0].Status)
	assert.Equal(t, int64(30), *items[0].Duration)

	// Delete
	resp, _ = do(t, ts, http.MethodDelete, "/tasks/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, ts, http.MethodGet, "/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_EpicWithSubTasks(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, data := do(t, ts, http.MethodPost, "/epics", `{"name":"release"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	epic := decodeItem(t, data)
	assert.Empty(t, epic.SubTaskIDs)

	resp, data = do(t, ts, http.MethodPost, "/subtasks", `{"name":"tag","epicId":1,"startTime":"01.03.2024T09:00:00","duration":60}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, decodeItem(t, data).EpicID)
	resp, _ = do(t, ts, http.MethodPost, "/subtasks", `{"name":"publish","epicId":1,"startTime":"01.03.2024T11:00:00","duration":60}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPut, "/subtasks/2", `{"name":"tag","status":"DONE","startTime":"01.03.2024T09:00:00","duration":60}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data = do(t, ts, http.MethodGet, "/epics/1", "")
	epic = decodeItem(t, data)
	assert.Equal(t, "IN_PROGRESS", epic.Status)
	assert.Equal(t, []int{2, 3}, epic.SubTaskIDs)
	assert.Equal(t, "01.03.2024T09:00:00", *epic.StartTime)
	assert.Equal(t, "01.03.2024T12:00:00", *epic.EndTime)
	assert.Equal(t, int64(120), *epic.Duration)

	_, data = do(t, ts, http.MethodGet, "/epics/1/subtasks", "")
	assert.Len(t, decodeItems(t, data), 2)

	// Unfinished subtasks block removal.
	resp, data = do(t, ts, http.MethodDelete, "/epics/1", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(data), CodeConflict)

	resp, _ = do(t, ts, http.MethodDelete, "/subtasks/3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, ts, http.MethodDelete, "/epics/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, data = do(t, ts, http.MethodGet, "/subtasks", "")
	assert.Empty(t, decodeItems(t, data))
}

func TestServer_HistoryAndPrioritized(t *testing.T) {
	ts := newTestServer(t, nil)
	do(t, ts, http.MethodPost, "/tasks", `{"name":"late","startTime":"01.03.2024T12:00:00","duration":30}`)
	do(t, ts, http.MethodPost, "/tasks", `{"name":"early","startTime":"01.03.2024T09:00:00","duration":30}`)
	do(t, ts, http.MethodPost, "/tasks", `{"name":"untimed"}`)

	for _, path := range []string{"/tasks/1", "/tasks/2", "/tasks/3", "/tasks/2"} {
		do(t, ts, http.MethodGet, path, "")
	}

	_, data := do(t, ts, http.MethodGet, "/history", "")
	var ids []int
	for _, item := range decodeItems(t, data) {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int{1, 3, 2}, ids)

	_, data = do(t, ts, http.MethodGet, "/prioritized", "")
	ids = nil
	for _, item := range decodeItems(t, data) {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int{2, 1}, ids)
}

func TestServer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   string
		status int
	}{
		{name: "malformed json", method: http.MethodPost, path: "/tasks", body: `{"name":`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "non-integer id", method: http.MethodGet, path: "/tasks/abc", status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "bad time", method: http.MethodPost, path: "/tasks", body: `{"name":"x","startTime":"2024-03-01"}`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "bad status", method: http.MethodPost, path: "/tasks", body: `{"name":"x","status":"LATER"}`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "id mismatch", method: http.MethodPut, path: "/tasks/1", body: `{"id":2,"name":"x","status":"NEW"}`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "unknown task", method: http.MethodGet, path: "/tasks/42", status: http.StatusNotFound, code: CodeNotFound},
		{name: "unknown epic for subtask", method: http.MethodPost, path: "/subtasks", body: `{"name":"x","epicId":42}`, status: http.StatusNotFound, code: CodeNotFound},
		{name: "unknown route", method: http.MethodGet, path: "/boards", status: http.StatusNotFound, code: CodeNotFound},
		{name: "overlap", method: http.MethodPost, path: "/tasks", body: `{"name":"x","startTime":"01.03.2024T09:30:00","duration":60}`, status: http.StatusNotAcceptable, code: CodeOverlap},
		{name: "non-new add", method: http.MethodPost, path: "/tasks", body: `{"name":"x","status":"DONE"}`, status: http.StatusConflict, code: CodeConflict},
		{name: "duplicate id", method: http.MethodPost, path: "/tasks", body: `{"id":1,"name":"x"}`, status: http.StatusConflict, code: CodeConflict},
		{name: "method not allowed", method: http.MethodPatch, path: "/tasks", status: http.StatusMethodNotAllowed, code: CodeMethodNotAllowed},
		{name: "history is read-only", method: http.MethodPost, path: "/history", status: http.StatusMethodNotAllowed, code: CodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			ts := newTestServer(t, nil)
			resp, _ := do(t, ts, http.MethodPost, "/tasks", `{"name":"seed","startTime":"01.03.2024T09:00:00","duration":60}`)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			// Execute
			resp, data := do(t, ts, tt.method, tt.path, tt.body)

			// Assert
			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorResponse
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestServer_UpdateRejectsBlankName(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "task", path: "/tasks/1", body: `{"name":"  ","status":"NEW"}`},
		{name: "epic", path: "/epics/2", body: `{"name":""}`},
		{name: "subtask", path: "/subtasks/3", body: `{"name":"\t","status":"NEW"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			ts := newTestServer(t, nil)
			for _, seed := range []struct{ path, body string }{
				{"/tasks", `{"id":1,"name":"task"}`},
				{"/epics", `{"id":2,"name":"epic"}`},
				{"/subtasks", `{"id":3,"name":"subtask","epicId":2}`},
			} {
				resp, _ := do(t, ts, http.MethodPost, seed.path, seed.body)
				require.Equal(t, http.StatusCreated, resp.StatusCode)
			}

			// Execute
			resp, data := do(t, ts, http.MethodPut, tt.path, tt.body)

			// Assert
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body errorResponse
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Equal(t, CodeBadRequest, body.Code)

			resp, data = do(t, ts, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.name, decodeItem(t, data).Name)
		})
	}
}

func TestServer_UpdateTrimsName(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, _ := do(t, ts, http.MethodPost, "/tasks", `{"id":1,"name":"task"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPut, "/tasks/1", `{"name":"  renamed ","status":"NEW"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data := do(t, ts, http.MethodGet, "/tasks/1", "")
	assert.Equal(t, "renamed", decodeItem(t, data).Name)
}

func TestServer_BackupFailure(t *testing.T) {
	backup := &testutil.MockBackup{SaveErr: errors.New("disk full")}
	manager := filebacked.New(memstore.New(nil, nil), backup, nil)
	ts := newTestServer(t, manager)

	resp, data := do(t, ts, http.MethodPost, "/tasks", `{"name":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(data), CodeInternal)
	assert.NotContains(t, string(data), "disk full")

	// The failed add is not kept, so a retry cannot create a duplicate.
	resp, data = do(t, ts, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeItems(t, data))

	backup.SaveErr = nil
	resp, data = do(t, ts, http.MethodPost, "/tasks", `{"name":"x"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, decodeItem(t, data).ID)
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, data := do(t, ts, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestServer_CORS(t *testing.T) {
	ts := newTestServer(t, nil, "http://board.example")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://board.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "http://board.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
