package handler

import (
	"github.com/gin-gonic/gin"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/service"
	"internship-tracker/backend/pkg/response"
)

// ApprovalHandler advisor decisions
type ApprovalHandler struct {
	svc service.ApprovalService
}

// NewApprovalHandler creates an ApprovalHandler
func NewApprovalHandler(svc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{svc: svc}
}

// ReviewOfferLetter
// PUT /api/v1/approve-offer-letter
func (h *ApprovalHandler) ReviewOfferLetter(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.OfferLetterReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.svc.ReviewOfferLetter(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ReviewReport
// PUT /api/v1/reports/:id/review
func (h *ApprovalHandler) ReviewReport(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ReportReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.svc.ReviewReport(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}
