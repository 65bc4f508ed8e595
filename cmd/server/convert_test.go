package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Liyulingyue/PaddleLabel/internal/database"
	"github.com/Liyulingyue/PaddleLabel/internal/jobs"
	"github.com/Liyulingyue/PaddleLabel/internal/models"
	"github.com/Liyulingyue/PaddleLabel/internal/store"
	"github.com/Liyulingyue/PaddleLabel/internal/testutil"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (jobs.Status, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	var st jobs.Status
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &st))
	}
	return st, err
}

func TestImportExportCommands(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	jobs.SetDefault(jobs.NewTracker(time.Hour, nil))

	p := models.Project{Name: "pets", DataDir: t.TempDir()}
	require.NoError(t, store.New(db).CreateProject(context.Background(), &p))
	require.NoError(t, testutil.WriteImage(filepath.Join(p.DataDir, "JPEGImages", "a.jpg"), 20, 10))
	id := strconv.FormatUint(uint64(p.ProjectID), 10)

	st, err := execute(t, importCommand(), "--project", id)
	require.NoError(t, err)
	require.Equal(t, jobs.StateSucceeded, st.State)
	require.Equal(t, 1, st.Report.Tasks)

	out := t.TempDir()
	st, err = execute(t, exportCommand(), "--project", id, "--format", "voc", "--out", out)
	require.NoError(t, err)
	require.Equal(t, "voc", st.Format)
	require.FileExists(t, filepath.Join(out, "train.txt"))

	_, err = execute(t, exportCommand(), "--project", id, "--format", "yolo", "--out", out)
	require.Error(t, err)

	_, err = execute(t, importCommand())
	require.ErrorContains(t, err, "project")
}
