package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	viper.Set("jwt.secret_key", "test-secret")
	viper.Set("jwt.expiry_hours", 1)
	defer viper.Reset()

	service := NewAuthService(nil)

	t.Run("valid credentials return a token", func(t *testing.T) {
		body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "password123"})
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp AuthResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin", resp.Username)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "wrongpass"})
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong username rejected", func(t *testing.T) {
		body, _ := json.Marshal(LoginRequest{Username: "intruder", Password: "password123"})
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "abc"})
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid body rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString("not-json"))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("logout without redis succeeds", func(t *testing.T) {
		service := NewAuthService(nil)

		r := httptest.NewRequest("POST", "/auth/logout", nil)
		r.Header.Set("Authorization", "Bearer some.jwt.token")
		w := httptest.NewRecorder()

		service.Logout(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
