package models

import (
	"time"
)

// Annotation is one labeled region on one data item.
// Result holds the encoded payload for Type (see geometry.ParsePayload).
type Annotation struct {
	AnnotationID uint      `json:"annotation_id" gorm:"primaryKey"`
	ProjectID    uint      `json:"project_id" gorm:"not null;index"`
	TaskID       uint      `json:"task_id" gorm:"not null;index"`
	DataID       uint      `json:"data_id" gorm:"not null;index"`
	LabelID      uint      `json:"label_id" gorm:"not null;index"`
	Label        Label     `json:"label"`
	Result       string    `json:"result" gorm:"not null"`
	Type         string    `json:"type" gorm:"not null;default:'rectangle'"`
	FrontendID   int       `json:"frontend_id"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"modified"`
}

// TableName specifies the table name for Annotation Model
func (Annotation) TableName() string {
	return "annotation"
}
