package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	UserID       uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"modified"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&Label{},
		&Task{},
		&Data{},
		&Annotation{},
	}
}
