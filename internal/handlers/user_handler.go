package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// GetAllUsers returns all users without their password hashes
// GET /api/users
func GetAllUsers(c *gin.Context) {
	users, err := currentStore().ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{ID: u.UserID, Username: u.Username})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}
