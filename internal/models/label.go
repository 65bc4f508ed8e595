package models

import (
	"time"
)

// Label is a named category scoped to a project.
// LocalID is the project-scoped id exposed as "id"; LabelID is the global primary key.
// Annotations carries the annotation.label_id foreign key and is never serialized.
type Label struct {
	LabelID     uint         `json:"label_id" gorm:"primaryKey"`
	LocalID     int          `json:"id" gorm:"column:local_id;not null;uniqueIndex:idx_label_project_local"`
	ProjectID   uint         `json:"project_id" gorm:"not null;index;uniqueIndex:idx_label_project_local;uniqueIndex:idx_label_project_name;uniqueIndex:idx_label_project_color"`
	Name        string       `json:"name" gorm:"not null;uniqueIndex:idx_label_project_name"`
	Color       string       `json:"color" gorm:"uniqueIndex:idx_label_project_color"`
	Comment     string       `json:"comment"`
	Annotations []Annotation `json:"-" gorm:"foreignKey:LabelID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time    `json:"created"`
	UpdatedAt   time.Time    `json:"modified"`
}

// TableName specifies the table name for Label Model
func (Label) TableName() string {
	return "label"
}
