package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSignupAndMe(t *testing.T) {
	_, _, r := setupTestRouter(t)

	token, _ := signupUser(t, r, "alice_01")

	w := doJSON(t, r, "GET", "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON(t, w)
	assert.Equal(t, "alice_01", resp["username"])
	assert.Equal(t, "AL", resp["avatarInitials"])
}

func TestSignup_InvalidUsername(t *testing.T) {
	_, _, r := setupTestRouter(t)

	w := doJSON(t, r, "POST", "/api/auth/signup", "", gin.H{
		"username": "ab", // too short
		"password": "secret_pw1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	_, _, r := setupTestRouter(t)
	signupUser(t, r, "alice_01")

	w := doJSON(t, r, "POST", "/api/auth/signup", "", gin.H{
		"username": "alice_01",
		"password": "secret_pw1",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	_, _, r := setupTestRouter(t)
	signupUser(t, r, "alice_01")

	w := doJSON(t, r, "POST", "/api/auth/login", "", gin.H{
		"username": "alice_01",
		"password": "secret_pw1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeJSON(t, w)["token"])

	w = doJSON(t, r, "POST", "/api/auth/login", "", gin.H{
		"username": "alice_01",
		"password": "wrong_pw12",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	_, _, r := setupTestRouter(t)

	w := doJSON(t, r, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "GET", "/api/auth/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	_, _, r := setupTestRouter(t)
	token, _ := signupUser(t, r, "alice_01")

	w := doJSON(t, r, "PUT", "/api/auth/profile", token, gin.H{"username": "alice_02"})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON(t, w)
	assert.Equal(t, "alice_02", resp["username"])
	assert.Equal(t, "AL", resp["avatarInitials"])
}

func TestUpdateProfile_TakenUsername(t *testing.T) {
	_, _, r := setupTestRouter(t)
	signupUser(t, r, "alice_01")
	token, _ := signupUser(t, r, "bobby_01")

	w := doJSON(t, r, "PUT", "/api/auth/profile", token, gin.H{"username": "alice_01"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChangePassword(t *testing.T) {
	_, _, r := setupTestRouter(t)
	token, _ := signupUser(t, r, "alice_01")

	w := doJSON(t, r, "PUT", "/api/auth/password", token, gin.H{
		"oldPassword": "secret_pw1",
		"newPassword": "secret_pw2",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/api/auth/login", "", gin.H{
		"username": "alice_01",
		"password": "secret_pw2",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePassword_WrongOld(t *testing.T) {
	_, _, r := setupTestRouter(t)
	token, _ := signupUser(t, r, "alice_01")

	w := doJSON(t, r, "PUT", "/api/auth/password", token, gin.H{
		"oldPassword": "wrong_pw12",
		"newPassword": "secret_pw2",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
