package handlers

import (
	"net/http"
	"strconv"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/auth"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Login checks the credentials against the stored bcrypt hash
// POST /api/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
			"code":  apperr.CodeInvalid,
		})
		return
	}

	user, err := currentStore().GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil && !apperr.IsCode(err, apperr.CodeNotFound) {
		respondError(c, err)
		return
	}
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid username or password",
			"code":  "unauthorized",
		})
		return
	}

	userID := strconv.FormatUint(uint64(user.UserID), 10)
	token, err := auth.GenerateToken(userID, user.Username)
	if err != nil {
		respondError(c, apperr.Wrap(err, apperr.CodeInternal, "generate token"))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   userID,
		Username: user.Username,
		Message:  "Login successful",
	})
}
