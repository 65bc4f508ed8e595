package store

import (
	"context"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/models"
)

// GetUserByUsername looks a user up for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return models.User{}, notFoundOr(err, "user")
	}
	return u, nil
}

// UpsertUser creates the user or replaces its password hash.
func (s *Store) UpsertUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		u.PasswordHash = passwordHash
		if err := s.db.WithContext(ctx).Save(&u).Error; err != nil {
			return models.User{}, apperr.Wrap(err, apperr.CodeInternal, "update user")
		}
		return u, nil
	case apperr.IsCode(err, apperr.CodeNotFound):
		u = models.User{Username: username, PasswordHash: passwordHash}
		if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
			return models.User{}, apperr.Wrap(err, apperr.CodeInternal, "create user")
		}
		return u, nil
	default:
		return models.User{}, err
	}
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("user_id").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "list users")
	}
	return users, nil
}
