package handlers

import (
	"net/http"

	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateAnnotationRequest represents one region drawn on a task
type CreateAnnotationRequest struct {
	LabelID    uint   `json:"label_id" binding:"required"`
	DataID     uint   `json:"data_id"`
	Result     string `json:"result" binding:"required"`
	Type       string `json:"type"`
	FrontendID int    `json:"frontend_id" binding:"gte=0"`
}

// GetTaskAnnotations returns the annotations of a task
// GET /api/tasks/:id/annotations
func GetTaskAnnotations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	s := currentStore()
	if _, err := s.GetTask(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	anns, err := s.ListTaskAnnotations(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"annotations": anns,
		"count":       len(anns),
	})
}

// CreateAnnotation validates the payload and stores it on the task
// POST /api/tasks/:id/annotations
func CreateAnnotation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateAnnotationRequest
	if !bindJSON(c, &req, false) {
		return
	}
	ann, err := currentStore().CreateAnnotation(c.Request.Context(), id, models.Annotation{
		LabelID:    req.LabelID,
		DataID:     req.DataID,
		Result:     req.Result,
		Type:       req.Type,
		FrontendID: req.FrontendID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ann)
}

// DeleteAnnotation removes one annotation
// DELETE /api/annotations/:id
func DeleteAnnotation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := currentStore().DeleteAnnotation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Annotation deleted successfully"})
}
