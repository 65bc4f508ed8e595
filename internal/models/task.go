package models

import (
	"fmt"
	"time"
)

// Split is the train/val/test partition a task belongs to.
type Split int

const (
	SplitTrain Split = 0
	SplitVal   Split = 1
	SplitTest  Split = 2
)

// Splits lists every split in file order.
var Splits = []Split{SplitTrain, SplitVal, SplitTest}

// Valid reports whether s is one of the three known splits.
func (s Split) Valid() bool {
	return s >= SplitTrain && s <= SplitTest
}

func (s Split) String() string {
	switch s {
	case SplitTrain:
		return "train"
	case SplitVal:
		return "val"
	case SplitTest:
		return "test"
	}
	return fmt.Sprintf("split(%d)", int(s))
}

// Task represents one annotatable unit within a project
type Task struct {
	TaskID      uint         `json:"task_id" gorm:"primaryKey"`
	ProjectID   uint         `json:"project_id" gorm:"not null;index"`
	Set         Split        `json:"set" gorm:"column:split;not null;default:0"`
	Datas       []Data       `json:"datas" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Annotations []Annotation `json:"annotations" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created"`
	UpdatedAt   time.Time    `json:"modified"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "task"
}

// Data is one media file reference attached to a task
type Data struct {
	DataID    uint      `json:"data_id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;index"`
	Path      string    `json:"path" gorm:"not null"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

// TableName specifies the table name for Data Model
func (Data) TableName() string {
	return "data"
}
