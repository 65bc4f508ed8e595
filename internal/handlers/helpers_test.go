package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Liyulingyue/PaddleLabel/internal/auth"
	"github.com/Liyulingyue/PaddleLabel/internal/database"
	"github.com/Liyulingyue/PaddleLabel/internal/jobs"
	"github.com/Liyulingyue/PaddleLabel/internal/middleware"
	"github.com/Liyulingyue/PaddleLabel/internal/models"
	"github.com/Liyulingyue/PaddleLabel/internal/store"
	"github.com/Liyulingyue/PaddleLabel/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Store
	token  string
}

// newTestAPI wires every handler onto a fresh in-memory database and run tracker.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	jobs.SetDefault(jobs.NewTracker(time.Hour, nil))

	r := gin.New()
	r.POST("/api/login", Login)
	api := r.Group("/api", middleware.JWTAuthMiddleware())
	api.GET("/users", GetAllUsers)
	api.GET("/projects", GetProjects)
	api.POST("/projects", CreateProject)
	api.GET("/projects/:id", GetProjectByID)
	api.PUT("/projects/:id", UpdateProject)
	api.DELETE("/projects/:id", DeleteProject)
	api.GET("/projects/:id/tasks", GetProjectTasks)
	api.GET("/projects/:id/labels", GetProjectLabels)
	api.POST("/projects/:id/labels", CreateLabel)
	api.POST("/projects/:id/import", ImportProject)
	api.POST("/projects/:id/export", ExportProject)
	api.GET("/projects/:id/runs/latest", GetLatestRun)
	api.GET("/tasks/:id", GetTaskByID)
	api.PATCH("/tasks/:id/split", UpdateTaskSplit)
	api.DELETE("/tasks/:id", DeleteTask)
	api.GET("/tasks/:id/annotations", GetTaskAnnotations)
	api.POST("/tasks/:id/annotations", CreateAnnotation)
	api.PUT("/labels/:id", UpdateLabel)
	api.DELETE("/labels/:id", DeleteLabel)
	api.DELETE("/annotations/:id", DeleteAnnotation)
	api.GET("/ws", WebSocketHandler)

	token, err := auth.GenerateToken("1", "admin")
	require.NoError(t, err)
	return &testAPI{t: t, router: r, store: store.New(db), token: token}
}

// do sends a JSON request with the test token and returns the recorder.
func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// seedProject creates a project whose data directory is a fresh temp dir.
func (a *testAPI) seedProject(name string) models.Project {
	a.t.Helper()
	p := models.Project{Name: name, DataDir: a.t.TempDir()}
	require.NoError(a.t, a.store.CreateProject(context.Background(), &p))
	return p
}

// seedTask creates a one-image task in p.
func (a *testAPI) seedTask(p models.Project) models.Task {
	a.t.Helper()
	task, err := a.store.CreateTask(context.Background(), p.ProjectID,
		[]store.NewData{{Path: "JPEGImages/a.jpg", Size: "1,100,200,3"}}, nil, models.SplitTrain)
	require.NoError(a.t, err)
	return task
}

type recordingClient struct {
	msgs [][]byte
}

func (r *recordingClient) Send(m []byte) bool {
	r.msgs = append(r.msgs, m)
	return true
}

func (r *recordingClient) Close() {}

func (r *recordingClient) types(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, m := range r.msgs {
		var ev struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(m, &ev))
		out = append(out, ev.Type)
	}
	return out
}
