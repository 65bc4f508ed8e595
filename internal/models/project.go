package models

import (
	"time"
)

// TaskCategory is the kind of labeling a project does
type TaskCategory string

const (
	CategoryDetection TaskCategory = "detection"
)

// Project is a named workspace owning a data directory and its tasks and labels
type Project struct {
	ProjectID    uint         `json:"project_id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"not null;uniqueIndex"`
	Description  string       `json:"description"`
	DataDir      string       `json:"data_dir" gorm:"not null"`
	TaskCategory TaskCategory `json:"task_category" gorm:"not null;default:'detection'"`
	LabelFormat  string       `json:"label_format"`
	Tasks        []Task       `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Labels       []Label      `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `json:"created"`
	UpdatedAt    time.Time    `json:"modified"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "project"
}
