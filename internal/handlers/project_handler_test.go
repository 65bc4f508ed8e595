package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"github.com/stretchr/testify/require"
)

func TestProjectCRUD(t *testing.T) {
	api := newTestAPI(t)
	dir := t.TempDir()

	w := api.do(http.MethodPost, "/api/projects", map[string]string{"name": "pets", "data_dir": dir})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Project](t, w)
	require.Equal(t, models.CategoryDetection, created.TaskCategory)
	path := "/api/projects/" + strconv.FormatUint(uint64(created.ProjectID), 10)

	w = api.do(http.MethodPost, "/api/projects", map[string]string{"name": "pets", "data_dir": dir})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "conflict", decode[errorBody](t, w).Code)

	w = api.do(http.MethodPost, "/api/projects/"+strconv.FormatUint(uint64(created.ProjectID), 10)+"/labels",
		map[string]string{"name": "cat"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[ProjectDetail](t, w)
	require.Equal(t, "pets", detail.Name)
	require.Len(t, detail.Labels, 1)
	require.Equal(t, []string{"coco", "voc"}, detail.Formats)

	w = api.do(http.MethodPut, path, map[string]string{"description": "cats and dogs", "label_format": "coco"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "coco", decode[models.Project](t, w).LabelFormat)

	w = api.do(http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = api.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProject_Validation(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/projects", map[string]string{"name": "pets"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid", decode[errorBody](t, w).Code)

	w = api.do(http.MethodPost, "/api/projects", map[string]string{"name": "pets", "data_dir": t.TempDir(), "label_format": "yolo"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "unsupported", decode[errorBody](t, w).Code)

	w = api.do(http.MethodGet, "/api/projects/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProject_RejectsEmptyName(t *testing.T) {
	api := newTestAPI(t)
	p := api.seedProject("pets")
	path := "/api/projects/" + strconv.FormatUint(uint64(p.ProjectID), 10)

	w := api.do(http.MethodPut, path, map[string]string{"name": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
