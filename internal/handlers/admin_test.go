package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmtlab/fmtlab/internal/services"
	"github.com/fmtlab/fmtlab/internal/store"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)

	handler := NewAdminHandler(services.NewUserService(s))

	r := gin.New()
	r.POST("/api/admin/users", handler.ImportUsers)
	r.GET("/api/admin/users/:id", handler.GetUser)
	return r, s
}

func TestImportUsers_Handler(t *testing.T) {
	t.Run("imports users", func(t *testing.T) {
		r, s := newAdminRouter(t)

		_, env := postJSON(t, r, "/api/admin/users", []gin.H{
			{"userName": "alice", "fullName": "Alice Example", "email": "alice@example.com"},
			{"userName": "bob", "fullName": "Bob Example"},
		})
		assert.True(t, env.IsSuccess)
		assert.Contains(t, env.Data["message"], "DB operation succeed")
		assert.Contains(t, env.Data["message"], "2 users")

		got, err := s.FindUserByUsername("alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice Example", got.FullName)
	})

	t.Run("empty username fails", func(t *testing.T) {
		r, _ := newAdminRouter(t)

		w, env := postJSON(t, r, "/api/admin/users", []gin.H{
			{"userName": ""},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, env.IsSuccess)
		assert.Equal(t, "DB operation failed!!", env.Data["message"])
	})

	t.Run("malformed body", func(t *testing.T) {
		r, _ := newAdminRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/users", bytes.NewBufferString("{not a list"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func getUser(t *testing.T, r *gin.Engine, id string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/"+id, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestGetUser_Handler(t *testing.T) {
	r, s := newAdminRouter(t)

	_, env := postJSON(t, r, "/api/admin/users", []gin.H{
		{"userName": "alice", "fullName": "Alice Example", "email": "alice@example.com"},
	})
	require.True(t, env.IsSuccess)

	created, err := s.FindUserByUsername("alice")
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		w, env := getUser(t, r, strconv.FormatUint(uint64(created.ID), 10))
		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, env.IsSuccess)
		assert.Equal(t, "alice", env.Data["userName"])
		assert.Equal(t, "Alice Example", env.Data["fullName"])
		assert.Equal(t, true, env.Data["isActive"])
		assert.NotContains(t, env.Data, "passwordDigest")
	})

	t.Run("not found", func(t *testing.T) {
		w, env := getUser(t, r, "99999")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, env.IsSuccess)
		assert.Equal(t, "User not found.", env.Data["message"])
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w, env := getUser(t, r, "abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.IsSuccess)
	})
}
