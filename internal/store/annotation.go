package store

import (
	"context"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/geometry"
	"github.com/Liyulingyue/PaddleLabel/internal/models"
)

// ListAnnotations returns every annotation of a project, with labels.
func (s *Store) ListAnnotations(ctx context.Context, projectID uint) ([]models.Annotation, error) {
	var anns []models.Annotation
	err := s.db.WithContext(ctx).
		Preload("Label").
		Where("project_id = ?", projectID).
		Order("annotation_id").
		Find(&anns).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list annotations")
	}
	return anns, nil
}

// ListTaskAnnotations returns the annotations of one task.
func (s *Store) ListTaskAnnotations(ctx context.Context, taskID uint) ([]models.Annotation, error) {
	var anns []models.Annotation
	err := s.db.WithContext(ctx).
		Preload("Label").
		Where("task_id = ?", taskID).
		Order("frontend_id").
		Find(&anns).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list annotations")
	}
	return anns, nil
}

// CreateAnnotation validates and stores one annotation on a task. The payload
// is re-encoded canonically; DataID defaults to the task's first data item and
// FrontendID to the next free sequence number in the task.
func (s *Store) CreateAnnotation(ctx context.Context, taskID uint, ann models.Annotation) (models.Annotation, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return models.Annotation{}, err
	}
	label, err := s.GetLabel(ctx, ann.LabelID)
	if err != nil {
		return models.Annotation{}, err
	}
	if label.ProjectID != task.ProjectID {
		return models.Annotation{}, apperr.New(apperr.CodeInvalid, "label belongs to another project")
	}

	if ann.Type == "" {
		ann.Type = geometry.KindRectangle
	}
	payload, err := geometry.ParsePayload(ann.Type, ann.Result)
	if err != nil {
		return models.Annotation{}, err
	}

	if ann.DataID == 0 {
		if len(task.Datas) == 0 {
			return models.Annotation{}, apperr.New(apperr.CodeInvalid, "task has no data")
		}
		ann.DataID = task.Datas[0].DataID
	} else if !hasData(task, ann.DataID) {
		return models.Annotation{}, apperr.Newf(apperr.CodeInvalid, "data %d does not belong to task %d", ann.DataID, taskID)
	}

	if ann.FrontendID == 0 {
		for _, a := range task.Annotations {
			if a.FrontendID > ann.FrontendID {
				ann.FrontendID = a.FrontendID
			}
		}
		ann.FrontendID++
	}

	ann.AnnotationID = 0
	ann.ProjectID = task.ProjectID
	ann.TaskID = taskID
	ann.Result = payload.Encode()
	ann.Type = payload.Kind()
	if err := s.db.WithContext(ctx).Omit("Label").Create(&ann).Error; err != nil {
		return models.Annotation{}, apperr.Wrap(err, apperr.CodeInternal, "create annotation")
	}
	ann.Label = label
	return ann, nil
}

// DeleteAnnotation removes one annotation.
func (s *Store) DeleteAnnotation(ctx context.Context, annotationID uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Annotation{}, "annotation_id = ?", annotationID)
	if res.Error != nil {
		return apperr.Wrap(res.Error, apperr.CodeInternal, "delete annotation")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "annotation not found")
	}
	return nil
}

func hasData(task models.Task, dataID uint) bool {
	for _, d := range task.Datas {
		if d.DataID == dataID {
			return true
		}
	}
	return false
}
