package handlers

import (
	"net/http"

	"github.com/Liyulingyue/PaddleLabel/internal/models"
	"github.com/Liyulingyue/PaddleLabel/internal/realtime"

	"github.com/gin-gonic/gin"
)

// UpdateTaskSplitRequest moves a task between train, val and test
type UpdateTaskSplitRequest struct {
	Set *models.Split `json:"set" binding:"required"`
}

// GetProjectTasks returns the tasks of a project with their data and annotations
// GET /api/projects/:id/tasks
func GetProjectTasks(c *gin.Context) {
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
	tasks, err := s.ListTasks(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// GetTaskByID returns one task
// GET /api/tasks/:id
func GetTaskByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := currentStore().GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskSplit changes the split of a task
// PATCH /api/tasks/:id/split
func UpdateTaskSplit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskSplitRequest
	if !bindJSON(c, &req, false) {
		return
	}
	task, err := currentStore().UpdateTaskSplit(c.Request.Context(), id, *req.Set)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task with its data and annotations
// DELETE /api/tasks/:id
func DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	s := currentStore()
	task, err := s.GetTask(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.DeleteTask(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	realtime.GetHub().Publish(c.GetString("user_id"), realtime.Event{
		Type:      realtime.EventTaskDeleted,
		ProjectID: task.ProjectID,
		Payload:   gin.H{"task_id": id},
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"task_id": id,
	})
}
