package handlers

import (
	"net/http"

	"github.com/Liyulingyue/PaddleLabel/internal/realtime"
	"github.com/Liyulingyue/PaddleLabel/internal/store"

	"github.com/gin-gonic/gin"
)

// GetProjectLabels returns a project's labels ordered by id
// GET /api/projects/:id/labels
func GetProjectLabels(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	s := currentStore()
	if err := s.ProjectExists(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	labels, err := s.ListLabels(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"labels": labels,
		"count":  len(labels),
	})
}

// CreateLabel adds a label; id and color are assigned when omitted
// POST /api/projects/:id/labels
func CreateLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in store.LabelInput
	if !bindJSON(c, &in, false) {
		return
	}
	label, err := currentStore().CreateLabel(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	realtime.GetHub().Publish(c.GetString("user_id"), realtime.Event{
		Type:      realtime.EventLabelCreated,
		ProjectID: id,
		Payload:   label,
	})
	c.JSON(http.StatusCreated, label)
}

// UpdateLabel replaces a label's fields
// PUT /api/labels/:id
func UpdateLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in store.LabelInput
	if !bindJSON(c, &in, false) {
		return
	}
	label, err := currentStore().UpdateLabel(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

// DeleteLabel removes a label that no annotation uses
// DELETE /api/labels/:id
func DeleteLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	label, err := currentStore().DeleteLabel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Label deleted successfully",
		"label":   label,
	})
}
