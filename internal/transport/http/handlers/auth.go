package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/shop-backoffice/internal/domain"
	"github.com/you/shop-backoffice/internal/service"
)

type AuthHandler struct {
	svc *service.AuthSvc
}

func NewAuthHandler(svc *service.AuthSvc) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /user/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		UserType string `json:"userType"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}
	role := domain.Role(in.UserType)
	if role == "" {
		role = domain.RoleUser
	}
	if err := h.svc.Signup(c.Request.Context(), in.Name, in.Email, in.Password, role); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP has been sent to your email. Please verify to complete registration."})
}

// POST /user/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and otp are required"})
		return
	}
	u, err := h.svc.VerifyOTP(c.Request.Context(), in.Email, in.OTP)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP verified, signup successful",
		"user":    gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "userType": u.Role},
	})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	u, token, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "userType": u.Role},
	})
}

// POST /user/request-password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	if err := h.svc.RequestPasswordReset(c.Request.Context(), in.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email."})
}

// POST /user/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and new password are required"})
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), in.Token, in.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// POST /user/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in struct {
		Email       string `json:"email" binding:"required"`
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, old and new password are required"})
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), in.Email, in.OldPassword, in.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// PUT /user/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var in struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		ProfilePhoto string `json:"profilePhoto"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, _ := c.Get("sub")
	userID, _ := sub.(string)
	u, err := h.svc.UpdateProfile(c.Request.Context(), userID, in.Name, in.Phone, in.ProfilePhoto)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "userType": u.Role, "profilePhoto": u.ProfilePhoto},
	})
}
