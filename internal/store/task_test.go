package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCreateTask_AndList(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	cat, err := s.CreateLabel(ctx, p.ProjectID, LabelInput{Name: "cat"})
	require.NoError(t, err)

	task, err := s.CreateTask(ctx, p.ProjectID,
		[]NewData{{Path: "img/a.jpg", Size: "1,100,200"}},
		[][]NewAnnotation{{
			{LabelID: cat.LabelID, Result: "-40.0,-80.0,-10.0,-40.0", Type: "rectangle", FrontendID: 1},
			{LabelID: cat.LabelID, Result: "0.0,0.0,1.0,1.0", Type: "rectangle", FrontendID: 2},
		}},
		models.SplitVal)
	require.NoError(t, err)
	require.Len(t, task.Datas, 1)
	require.Len(t, task.Annotations, 2)

	_, err = s.CreateTask(ctx, p.ProjectID, []NewData{{Path: "img/b.jpg", Size: "1,10,10,3"}}, nil, models.SplitTrain)
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, models.SplitVal, tasks[0].Set)
	require.Equal(t, "img/a.jpg", tasks[0].Datas[0].Path)
	require.Equal(t, "cat", tasks[0].Annotations[0].Label.Name)
	require.Equal(t, tasks[0].Datas[0].DataID, tasks[0].Annotations[0].DataID)
	require.Empty(t, tasks[1].Annotations)

	anns, err := s.ListAnnotations(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Len(t, anns, 2)
}

func TestCreateTask_InvalidSplit(t *testing.T) {
	s, p := newTestStore(t)
	_, err := s.CreateTask(context.Background(), p.ProjectID, []NewData{{Path: "a.jpg"}}, nil, models.Split(5))
	require.True(t, apperr.IsCode(err, apperr.CodeInvalid))
}

func TestDeleteTask_Cascades(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	cat, err := s.CreateLabel(ctx, p.ProjectID, LabelInput{Name: "cat"})
	require.NoError(t, err)
	task, err := s.CreateTask(ctx, p.ProjectID,
		[]NewData{{Path: "a.jpg", Size: "1,10,10"}},
		[][]NewAnnotation{{{LabelID: cat.LabelID, Result: "0.0,0.0,1.0,1.0", Type: "rectangle", FrontendID: 1}}},
		models.SplitTrain)
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, task.TaskID))

	var n int64
	require.NoError(t, s.DB().Model(&models.Annotation{}).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, s.DB().Model(&models.Data{}).Count(&n).Error)
	require.Zero(t, n)

	// the label is referenced by nothing now
	_, err = s.DeleteLabel(ctx, cat.LabelID)
	require.NoError(t, err)
}

func TestTransaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.CreateTask(ctx, p.ProjectID, []NewData{{Path: "a.jpg"}}, nil, models.SplitTrain); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.CountTasks(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUpdateTaskSplit(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	task, err := s.CreateTask(ctx, p.ProjectID, []NewData{{Path: "a.jpg"}}, nil, models.SplitTrain)
	require.NoError(t, err)

	updated, err := s.UpdateTaskSplit(ctx, task.TaskID, models.SplitTest)
	require.NoError(t, err)
	require.Equal(t, models.SplitTest, updated.Set)

	_, err = s.UpdateTaskSplit(ctx, 999, models.SplitTest)
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestDeleteProject_RemovesEverything(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	cat, err := s.CreateLabel(ctx, p.ProjectID, LabelInput{Name: "cat"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, p.ProjectID,
		[]NewData{{Path: "a.jpg", Size: "1,10,10"}},
		[][]NewAnnotation{{{LabelID: cat.LabelID, Result: "0.0,0.0,1.0,1.0", Type: "rectangle", FrontendID: 1}}},
		models.SplitTrain)
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(ctx, p.ProjectID))
	require.True(t, apperr.IsCode(s.ProjectExists(ctx, p.ProjectID), apperr.CodeNotFound))

	labels, err := s.ListLabels(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Empty(t, labels)
}

func TestCreateProject_NameConflict(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	dup := models.Project{Name: p.Name, DataDir: t.TempDir()}
	require.True(t, apperr.IsCode(s.CreateProject(ctx, &dup), apperr.CodeConflict))

	noDir := models.Project{Name: "x"}
	require.True(t, apperr.IsCode(s.CreateProject(ctx, &noDir), apperr.CodeInvalid))
}
