package handler

import (
	"github.com/gin-gonic/gin"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/service"
	"internship-tracker/backend/pkg/response"
)

// AdvisorHandler the signed-in advisor's own views
type AdvisorHandler struct {
	svc service.AdvisorService
}

// NewAdvisorHandler creates an AdvisorHandler
func NewAdvisorHandler(svc service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{svc: svc}
}

// Profile
// GET /api/v1/advisors/me
func (h *AdvisorHandler) Profile(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	result, err := h.svc.Profile(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateSettings report count and interval
// PUT /api/v1/advisors/me/settings
func (h *AdvisorHandler) UpdateSettings(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.AdvisorSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.svc.UpdateSettings(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// Dashboard
// GET /api/v1/advisors/students
func (h *AdvisorHandler) Dashboard(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	result, err := h.svc.Dashboard(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// StudentDetail accepts UGR102517 as well as UGR/1025/17
// GET /api/v1/advisors/students/:university_id
func (h *AdvisorHandler) StudentDetail(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	result, err := h.svc.StudentDetail(c.Request.Context(), actor, c.Param("university_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}
