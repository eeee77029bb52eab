package handlers

import (
	"math/rand"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"channel-digest/models"
	"channel-digest/services"
)

var credentialPattern = regexp.MustCompile(`^[A-Za-z0-9_]{6,16}$`)

var avatarColors = []string{
	"#4f46e5", "#db2777", "#059669", "#b45309", "#7c3aed", "#0ea5e9",
}

type AuthHandler struct {
	db     *gorm.DB
	secret string
}

func NewAuthHandler(db *gorm.DB, secret string) *AuthHandler {
	return &AuthHandler{db: db, secret: secret}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"username":       u.Username,
		"avatarInitials": u.AvatarInitials,
		"avatarColor":    u.AvatarColor,
		"avatarImage":    u.AvatarImage,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}
	if !credentialPattern.MatchString(req.Username) || !credentialPattern.MatchString(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username or password format"})
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	user := models.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		PasswordHash:   string(hash),
		AvatarInitials: strings.ToUpper(req.Username[:2]),
		AvatarColor:    avatarColors[rand.Intn(len(avatarColors))],
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	token, err := services.GenerateToken(h.secret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": userResponse(&user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := services.GenerateToken(h.secret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userResponse(&user)})
}

func (h *AuthHandler) Me(c *gin.Context) {
	var user models.User
	if err := h.db.Where("id = ?", CurrentUserID(c)).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	c.JSON(http.StatusOK, userResponse(&user))
}

type profileRequest struct {
	Username    string `json:"username"`
	AvatarImage string `json:"avatarImage"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil || !credentialPattern.MatchString(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username format"})
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", CurrentUserID(c)).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	var other models.User
	if err := h.db.Where("username = ?", req.Username).First(&other).Error; err == nil && other.ID != user.ID {
		c.JSON(http.StatusConflict, gin.H{"message": "Username already taken"})
		return
	}

	user.Username = req.Username
	user.AvatarInitials = strings.ToUpper(req.Username[:2])
	if req.AvatarImage != "" {
		user.AvatarImage = req.AvatarImage
	}
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, userResponse(&user))
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing fields"})
		return
	}
	if !credentialPattern.MatchString(req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid password format"})
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", CurrentUserID(c)).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	user.PasswordHash = string(hash)
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
