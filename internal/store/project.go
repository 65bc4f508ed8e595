package store

import (
	"context"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/models"
)

// GetProject returns a project by id.
func (s *Store) GetProject(ctx context.Context, projectID uint) (models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, "project_id = ?", projectID).Error; err != nil {
		return models.Project{}, notFoundOr(err, "project")
	}
	return p, nil
}

// ProjectExists fails with not_found when the project is absent.
func (s *Store) ProjectExists(ctx context.Context, projectID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "query project")
	}
	if count == 0 {
		return apperr.Newf(apperr.CodeNotFound, "project %d not found", projectID)
	}
	return nil
}

// ListProjects returns every project, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Order("project_id desc").Find(&projects).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list projects")
	}
	return projects, nil
}

// CreateProject inserts p after checking its name is free.
func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperr.New(apperr.CodeInvalid, "project name is required")
	}
	if strings.TrimSpace(p.DataDir) == "" {
		return apperr.New(apperr.CodeInvalid, "project data_dir is required")
	}
	if p.TaskCategory == "" {
		p.TaskCategory = models.CategoryDetection
	}
	if err := s.checkProjectName(ctx, p.Name, 0); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "create project")
	}
	return nil
}

// UpdateProject saves changed fields of an existing project.
func (s *Store) UpdateProject(ctx context.Context, p *models.Project) error {
	if _, err := s.GetProject(ctx, p.ProjectID); err != nil {
		return err
	}
	if err := s.checkProjectName(ctx, p.Name, p.ProjectID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "update project")
	}
	return nil
}

// DeleteProject removes a project with all of its tasks, data, annotations and labels.
func (s *Store) DeleteProject(ctx context.Context, projectID uint) error {
	if err := s.ProjectExists(ctx, projectID); err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx *Store) error {
		db := tx.db
		if err := db.Where("project_id = ?", projectID).Delete(&models.Annotation{}).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete annotations")
		}
		taskIDs := db.Model(&models.Task{}).Select("task_id").Where("project_id = ?", projectID)
		if err := db.Where("task_id IN (?)", taskIDs).Delete(&models.Data{}).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete data")
		}
		if err := db.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete tasks")
		}
		if err := db.Where("project_id = ?", projectID).Delete(&models.Label{}).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete labels")
		}
		if err := db.Delete(&models.Project{}, "project_id = ?", projectID).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "delete project")
		}
		return nil
	})
}

func (s *Store) checkProjectName(ctx context.Context, name string, self uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Project{}).Where("name = ?", name)
	if self != 0 {
		q = q.Where("project_id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "query project")
	}
	if count > 0 {
		return apperr.Newf(apperr.CodeConflict, "project name %q is not unique", name)
	}
	return nil
}
