package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/Liyulingyue/PaddleLabel/internal/auth"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	u, err := api.store.UpsertUser(context.Background(), "admin", hash)
	require.NoError(t, err)

	w := api.do(http.MethodPost, "/api/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[LoginResponse](t, w)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "admin", resp.Username)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, claims.UserID)
	require.NotZero(t, u.UserID)
}

func TestLogin_Rejects(t *testing.T) {
	api := newTestAPI(t)
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	_, err = api.store.UpsertUser(context.Background(), "admin", hash)
	require.NoError(t, err)

	w := api.do(http.MethodPost, "/api/login", map[string]string{"username": "admin", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/login", map[string]string{"username": "ghost", "password": "s3cret"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/login", map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
