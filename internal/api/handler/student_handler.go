package handler

import (
	"github.com/gin-gonic/gin"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/service"
	"internship-tracker/backend/pkg/response"
)

// StudentHandler OTP registration. Unauthenticated; students are identified
// by the roster and their Telegram account.
type StudentHandler struct {
	svc service.RegistrationService
}

// NewStudentHandler creates a StudentHandler
func NewStudentHandler(svc service.RegistrationService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// SendOTP emails a one-time code to the institutional address
// POST /api/v1/send-otp
func (h *StudentHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.SendOTP(c.Request.Context(), req.UniversityID); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "OTP sent to your institutional email"})
}

// Register activates the student
// POST /api/v1/students/register
func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.StudentRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromErrorWith(c, invalidRequest(err), gin.H{"OTPVerified": false})
		return
	}

	result, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		response.FromErrorWith(c, err, gin.H{"OTPVerified": false})
		return
	}
	response.Created(c, result)
}
