package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nashvel/loginform/internal/email"
	"github.com/nashvel/loginform/internal/models"
	"github.com/nashvel/loginform/internal/utils"
)

type AuthHandler struct {
	DB     *gorm.DB
	Mailer email.Sender
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sendResetCodeRequest struct {
	Username string `json:"username" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required"`
}

func NewAuthHandler(db *gorm.DB, mailer email.Sender) *AuthHandler {
	return &AuthHandler{DB: db, Mailer: mailer}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password error"})
		return
	}

	user := models.User{
		Username:   req.Username,
		Email:      req.Email,
		Password:   passwordHash,
		IsVerified: false,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// Two signups can both pass the existence check; the unique
		// index decides the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user creation failed"})
		return
	}

	code, err := utils.GenerateCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code generation failed"})
		return
	}

	if err := h.Mailer.SendCode(req.Email, code); err != nil {
		// The user row stays behind without a code; it cannot verify
		// until an operator steps in or the row is removed.
		logrus.WithError(err).WithField("email", req.Email).
			Error("smtp send failed, account left unverified with no code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
		return
	}

	if err := h.replaceCode(req.Email, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code storage failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to email. Please verify your email first."})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var entry models.VerificationCode
	if err := h.DB.Where("email = ? AND code = ?", req.Email, req.Code).First(&entry).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification code"})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := h.DB.Model(&user).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	if err := h.DB.Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully. You can now log in."})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
		return
	}

	// Terminal state: the caller decides what "logged in" means.
	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var req sendResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "username not found"})
		return
	}

	code, err := utils.GenerateCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code generation failed"})
		return
	}

	if err := h.Mailer.SendCode(user.Email, code); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("smtp send failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
		return
	}

	if err := h.replaceCode(user.Email, code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code storage failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Password reset code sent to %s.", user.Email),
		"email":   user.Email,
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var entry models.VerificationCode
	if err := h.DB.Where("email = ? AND code = ?", req.Email, req.Code).First(&entry).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification code"})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password error"})
		return
	}

	if err := h.DB.Model(&user).Update("password", newHash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	if err := h.DB.Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful! You can now log in."})
}

// replaceCode supersedes any outstanding code for the email with a fresh
// one. At most one row per email exists at any time.
func (h *AuthHandler) replaceCode(address string, code string) error {
	if err := h.DB.Where("email = ?", address).Delete(&models.VerificationCode{}).Error; err != nil {
		return err
	}
	return h.DB.Create(&models.VerificationCode{Email: address, Code: code}).Error
}
