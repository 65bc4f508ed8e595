package handlers

import (
	"context"
	"net/http"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/dataset"
	"github.com/Liyulingyue/PaddleLabel/internal/jobs"
	"github.com/Liyulingyue/PaddleLabel/internal/realtime"

	"github.com/gin-gonic/gin"
)

// ImportRequest selects the dataset format; empty means the project default
type ImportRequest struct {
	Format string `json:"format"`
}

// ExportRequest selects the format and the directory to write
type ExportRequest struct {
	Format    string `json:"format"`
	ExportDir string `json:"export_dir" binding:"required"`
}

// runFormat resolves the format of a run: explicit request, then the
// project's label_format, then the category default.
func runFormat(c *gin.Context, projectID uint, requested string) (string, bool) {
	p, err := currentStore().GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	if requested == "" {
		requested = p.LabelFormat
	}
	name, err := dataset.ResolveFormat(p.TaskCategory, requested)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return name, true
}

// finishRun publishes the outcome and answers with the run status.
func finishRun(c *gin.Context, event string, st jobs.Status, err error) {
	if st.State != "" {
		realtime.GetHub().Publish(c.GetString("user_id"), realtime.Event{
			Type:      event,
			ProjectID: st.ProjectID,
			Payload:   st,
		})
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ImportProject reads the project's data directory and creates its tasks
// POST /api/projects/:id/import
func ImportProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ImportRequest
	if !bindJSON(c, &req, true) {
		return
	}
	format, ok := runFormat(c, id, req.Format)
	if !ok {
		return
	}

	engine := dataset.NewEngine(currentStore(), dataset.DefaultOptions())
	st, err := jobs.Default().Run(c.Request.Context(), id, dataset.KindImport, format,
		func(ctx context.Context) (dataset.RunReport, error) {
			return engine.Import(ctx, id, format)
		})
	finishRun(c, realtime.EventImportFinished, st, err)
}

// ExportProject writes the project's tasks to a directory
// POST /api/projects/:id/export
func ExportProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ExportRequest
	if !bindJSON(c, &req, false) {
		return
	}
	format, ok := runFormat(c, id, req.Format)
	if !ok {
		return
	}

	engine := dataset.NewEngine(currentStore(), dataset.DefaultOptions())
	st, err := jobs.Default().Run(c.Request.Context(), id, dataset.KindExport, format,
		func(ctx context.Context) (dataset.RunReport, error) {
			return engine.Export(ctx, id, format, req.ExportDir)
		})
	finishRun(c, realtime.EventExportFinished, st, err)
}

// GetLatestRun returns the running or most recently finished run of a project
// GET /api/projects/:id/runs/latest
func GetLatestRun(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	st, found := jobs.Default().Latest(id)
	if !found {
		respondError(c, apperr.Newf(apperr.CodeNotFound, "project %d has no recent run", id))
		return
	}
	c.JSON(http.StatusOK, st)
}
