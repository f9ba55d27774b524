//go:build integration

package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/FadhilPratama/cvstm-babat-admin/internal/model"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/config"
	"github.com/FadhilPratama/cvstm-babat-admin/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLogin_Flow(t *testing.T) {
	setupTestDB(t)
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	c, rec := newJSONContext(t, http.MethodPost,
		AuthRequest{Email: "owner@example.com", Password: "hunter22"}, nil, 0)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user model.User
	decodeBody(t, rec, &user)
	require.NotZero(t, user.ID)
	assert.NotContains(t, rec.Body.String(), "hunter22", "password must never be echoed")

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost,
			AuthRequest{Email: "owner@example.com", Password: "hunter22"}, nil, 0)
		require.NoError(t, Register(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("login returns a valid token", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost,
			AuthRequest{Email: "owner@example.com", Password: "hunter22"}, nil, 0)
		require.NoError(t, Login(c))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Token string `json:"token"`
		}
		decodeBody(t, rec, &resp)
		claims, err := jwtutil.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "owner@example.com", claims.Email)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost,
			AuthRequest{Email: "owner@example.com", Password: "wrong"}, nil, 0)
		require.NoError(t, Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestStoreLifecycle(t *testing.T) {
	conn := setupTestDB(t)
	owner := seedOwner(t, conn, "owner@example.com")

	c, rec := newJSONContext(t, http.MethodPost, StoreRequest{Name: "Seed Shop"}, nil, owner.ID)
	require.NoError(t, CreateStore(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var store model.Store
	decodeBody(t, rec, &store)
	assert.Equal(t, owner.ID, store.OwnerID)

	t.Run("list returns only the caller's stores", func(t *testing.T) {
		stranger := seedOwner(t, conn, "stranger@example.com")
		seedStore(t, conn, stranger.ID, "Not Yours")

		c, rec := newJSONContext(t, http.MethodGet, nil, nil, owner.ID)
		require.NoError(t, ListStores(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var stores []model.Store
		decodeBody(t, rec, &stores)
		require.Len(t, stores, 1)
		assert.Equal(t, "Seed Shop", stores[0].Name)
	})

	t.Run("empty store can be deleted", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodDelete, nil,
			map[string]string{"storeId": fmt.Sprint(store.ID)}, owner.ID)
		require.NoError(t, DeleteStore(c))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}
