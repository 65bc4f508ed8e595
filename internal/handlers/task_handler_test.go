package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Liyulingyue/PaddleLabel/internal/models"
	"github.com/Liyulingyue/PaddleLabel/internal/realtime"

	"github.com/stretchr/testify/require"
)

func TestTaskEndpoints(t *testing.T) {
	api := newTestAPI(t)
	p := api.seedProject("pets")
	task := api.seedTask(p)
	taskPath := fmt.Sprintf("/api/tasks/%d", task.TaskID)

	w := api.do(http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", p.ProjectID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}](t, w)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "JPEGImages/a.jpg", list.Tasks[0].Datas[0].Path)

	w = api.do(http.MethodPatch, taskPath+"/split", map[string]int{"set": 2})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.SplitTest, decode[models.Task](t, w).Set)

	w = api.do(http.MethodPatch, taskPath+"/split", map[string]int{"set": 7})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPatch, taskPath+"/split", map[string]int{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, taskPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.SplitTest, decode[models.Task](t, w).Set)
}

func TestDeleteTask_PublishesEvent(t *testing.T) {
	api := newTestAPI(t)
	p := api.seedProject("pets")
	task := api.seedTask(p)

	client := &recordingClient{}
	realtime.GetHub().Register("1", client)
	t.Cleanup(func() { realtime.GetHub().Unregister("1", client) })

	w := api.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.TaskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{realtime.EventTaskDeleted}, client.types(t))

	w = api.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.TaskID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/projects/42/tasks", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnotationEndpoints(t *testing.T) {
	api := newTestAPI(t)
	p := api.seedProject("pets")
	task := api.seedTask(p)
	w := api.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/labels", p.ProjectID), map[string]string{"name": "cat"})
	require.Equal(t, http.StatusCreated, w.Code)
	cat := decode[models.Label](t, w)
	annPath := fmt.Sprintf("/api/tasks/%d/annotations", task.TaskID)

	w = api.do(http.MethodPost, annPath, map[string]any{"label_id": cat.LabelID, "result": "-10,-20,10,20"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ann := decode[models.Annotation](t, w)
	require.Equal(t, "-10.0,-20.0,10.0,20.0", ann.Result)
	require.Equal(t, "rectangle", ann.Type)
	require.Equal(t, 1, ann.FrontendID)

	w = api.do(http.MethodPost, annPath, map[string]any{"label_id": cat.LabelID, "result": "1,2,3"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid", decode[errorBody](t, w).Code)

	w = api.do(http.MethodPost, annPath, map[string]any{"label_id": cat.LabelID, "result": "1,2,3,4", "type": "polygon"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "unsupported", decode[errorBody](t, w).Code)

	w = api.do(http.MethodGet, annPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/annotations/%d", ann.AnnotationID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodDelete, fmt.Sprintf("/api/annotations/%d", ann.AnnotationID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
