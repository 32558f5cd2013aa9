package handler

import (
	"github.com/gin-gonic/gin"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/service"
	"internship-tracker/backend/pkg/response"
)

// AuthHandler staff authentication endpoints
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login advisor or admin login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// RegisterAdvisor advisor self-registration
// POST /api/v1/auth/advisors/register
func (h *AuthHandler) RegisterAdvisor(c *gin.Context) {
	var req dto.AdvisorRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.RegisterAdvisor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, result)
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenFromContext(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Logged out"})
}
