package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetAllUsers_HidesHashes(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.store.UpsertUser(context.Background(), "alice", "hash-a")
	require.NoError(t, err)
	_, err = api.store.UpsertUser(context.Background(), "bob", "hash-b")
	require.NoError(t, err)

	w := api.do(http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "hash-")

	resp := decode[struct {
		Users []UserResponse `json:"users"`
		Count int            `json:"count"`
	}](t, w)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "alice", resp.Users[0].Username)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t)
	api.token = "bogus"
	w := api.do(http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
