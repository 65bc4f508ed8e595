package store

import (
	"context"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"gorm.io/gorm"
)

// NewData describes one media file of a task to create.
type NewData struct {
	Path string
	Size string
}

// NewAnnotation describes one annotation of a task to create. LabelID is the label primary key.
type NewAnnotation struct {
	LabelID    uint
	Result     string
	Type       string
	FrontendID int
}

// CreateTask persists a task with its data items; groups[i] holds the annotations of datas[i].
func (s *Store) CreateTask(ctx context.Context, projectID uint, datas []NewData, groups [][]NewAnnotation, split models.Split) (models.Task, error) {
	if !split.Valid() {
		return models.Task{}, apperr.Newf(apperr.CodeInvalid, "invalid split %d", int(split))
	}
	if len(datas) == 0 {
		return models.Task{}, apperr.New(apperr.CodeInvalid, "task needs at least one data item")
	}
	if len(groups) > len(datas) {
		return models.Task{}, apperr.Newf(apperr.CodeInvalid, "%d annotation groups for %d data items", len(groups), len(datas))
	}

	db := s.db.WithContext(ctx)
	task := models.Task{ProjectID: projectID, Set: split}
	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, apperr.Wrap(err, apperr.CodeInternal, "create task")
	}

	for i, d := range datas {
		data := models.Data{TaskID: task.TaskID, Path: d.Path, Size: d.Size}
		if err := db.Create(&data).Error; err != nil {
			return models.Task{}, apperr.Wrap(err, apperr.CodeInternal, "create data")
		}
		task.Datas = append(task.Datas, data)

		if i >= len(groups) {
			continue
		}
		for _, a := range groups[i] {
			ann := models.Annotation{
				ProjectID:  projectID,
				TaskID:     task.TaskID,
				DataID:     data.DataID,
				LabelID:    a.LabelID,
				Result:     a.Result,
				Type:       a.Type,
				FrontendID: a.FrontendID,
			}
			if err := db.Omit("Label").Create(&ann).Error; err != nil {
				return models.Task{}, apperr.Wrap(err, apperr.CodeInternal, "create annotation")
			}
			task.Annotations = append(task.Annotations, ann)
		}
	}
	return task, nil
}

func preloadTask(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Datas", func(db *gorm.DB) *gorm.DB { return db.Order("data_id") }).
		Preload("Annotations", func(db *gorm.DB) *gorm.DB { return db.Order("annotation_id") }).
		Preload("Annotations.Label")
}

// ListTasks returns a project's tasks with data and annotations, in creation order.
func (s *Store) ListTasks(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := preloadTask(s.db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		Order("task_id").
		Find(&tasks).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list tasks")
	}
	return tasks, nil
}

// GetTask returns one task with data and annotations.
func (s *Store) GetTask(ctx context.Context, taskID uint) (models.Task, error) {
	var task models.Task
	if err := preloadTask(s.db.WithContext(ctx)).First(&task, "task_id = ?", taskID).Error; err != nil {
		return models.Task{}, notFoundOr(err, "task")
	}
	return task, nil
}

// UpdateTaskSplit moves a task to another split.
func (s *Store) UpdateTaskSplit(ctx context.Context, taskID uint, split models.Split) (models.Task, error) {
	if !split.Valid() {
		return models.Task{}, apperr.Newf(apperr.CodeInvalid, "invalid split %d", int(split))
	}
	res := s.db.WithContext(ctx).Model(&models.Task{}).Where("task_id = ?", taskID).Update("split", split)
	if res.Error != nil {
		return models.Task{}, apperr.Wrap(res.Error, apperr.CodeInternal, "update task")
	}
	if res.RowsAffected == 0 {
		return models.Task{}, apperr.New(apperr.CodeNotFound, "task not found")
	}
	return s.GetTask(ctx, taskID)
}

// DeleteTask removes a task and cascades to its data and annotations.
func (s *Store) DeleteTask(ctx context.Context, taskID uint) error {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Where("task_id = ?", taskID).Delete(&models.Annotation{}).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete annotations")
		}
		if err := tx.db.Where("task_id = ?", taskID).Delete(&models.Data{}).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete data")
		}
		if err := tx.db.Delete(&models.Task{}, "task_id = ?", taskID).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete task")
		}
		return nil
	})
}

// CountTasks returns how many tasks a project has.
func (s *Store) CountTasks(ctx context.Context, projectID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Task{}).Where("project_id = ?", projectID).Count(&n).Error; err != nil {
		return 0, apperr.Wrap(err, apperr.CodeInternal, "count tasks")
	}
	return n, nil
}
