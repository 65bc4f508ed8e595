package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/Liyulingyue/PaddleLabel/internal/models"
	"github.com/Liyulingyue/PaddleLabel/internal/realtime"

	"github.com/stretchr/testify/require"
)

func TestLabelLifecycle(t *testing.T) {
	api := newTestAPI(t)
	p := api.seedProject("pets")
	base := fmt.Sprintf("/api/projects/%d/labels", p.ProjectID)

	client := &recordingClient{}
	realtime.GetHub().Register("1", client)
	t.Cleanup(func() { realtime.GetHub().Unregister("1", client) })

	w := api.do(http.MethodPost, base, map[string]any{"name": "cat", "id": 4, "color": "#ff0000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cat := decode[models.Label](t, w)
	require.Equal(t, 4, cat.LocalID)
	require.Equal(t, []string{realtime.EventLabelCreated}, client.types(t))

	w = api.do(http.MethodPost, base, map[string]any{"name": "cat"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "Label name is not unique", decode[errorBody](t, w).Error)

	w = api.do(http.MethodPost, base, map[string]any{"name": "dog"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 5, decode[models.Label](t, w).LocalID)

	w = api.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = api.do(http.MethodPut, fmt.Sprintf("/api/labels/%d", cat.LabelID), map[string]any{"name": "kitty", "id": 4, "color": "#ff0000"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "kitty", decode[models.Label](t, w).Name)

	// in use by an annotation
	task := api.seedTask(p)
	_, err := api.store.CreateAnnotation(context.Background(), task.TaskID, models.Annotation{LabelID: cat.LabelID, Result: "-1,-1,1,1"})
	require.NoError(t, err)
	w = api.do(http.MethodDelete, fmt.Sprintf("/api/labels/%d", cat.LabelID), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "in_use", decode[errorBody](t, w).Code)
}

func TestCreateLabel_UnknownProject(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPost, "/api/projects/99/labels", map[string]any{"name": "cat"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/projects/99/labels", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
