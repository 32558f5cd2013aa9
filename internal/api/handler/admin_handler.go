package handler

import (
	"github.com/gin-gonic/gin"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/service"
	"internship-tracker/backend/pkg/response"
)

// AdminHandler roster, allocation and calendar administration
type AdminHandler struct {
	rosterSvc     service.RosterService
	advisorSvc    service.AdvisorService
	allocationSvc service.AllocationService
	periodSvc     service.PeriodService
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(
	rosterSvc service.RosterService,
	advisorSvc service.AdvisorService,
	allocationSvc service.AllocationService,
	periodSvc service.PeriodService,
) *AdminHandler {
	return &AdminHandler{
		rosterSvc:     rosterSvc,
		advisorSvc:    advisorSvc,
		allocationSvc: allocationSvc,
		periodSvc:     periodSvc,
	}
}

// ────────────────────── roster ──────────────────────

// ImportRoster
// POST /api/v1/admin/roster/import (multipart: file)
func (h *AdminHandler) ImportRoster(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "An .xlsx file is required in the \"file\" field")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "Could not read the uploaded file")
		return
	}
	defer f.Close()

	result, err := h.rosterSvc.ImportRoster(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ListRoster
// GET /api/v1/admin/roster
func (h *AdminHandler) ListRoster(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	list, total, err := h.rosterSvc.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, q.Page, q.PageSize)
}

// ListStudents registered students
// GET /api/v1/admin/students
func (h *AdminHandler) ListStudents(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	list, total, err := h.rosterSvc.ListStudents(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, q.Page, q.PageSize)
}

// ────────────────────── advisors ──────────────────────

// ListAdvisors
// GET /api/v1/admin/advisors
func (h *AdminHandler) ListAdvisors(c *gin.Context) {
	list, err := h.advisorSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ImportAdvisors
// POST /api/v1/admin/advisors/import (multipart: file)
func (h *AdminHandler) ImportAdvisors(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "An .xlsx file is required in the \"file\" field")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "Could not read the uploaded file")
		return
	}
	defer f.Close()

	result, err := h.advisorSvc.ImportAdvisors(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ────────────────────── allocation ──────────────────────

// AssignAdvisor manual override
// POST /api/v1/admin/assign-advisor
func (h *AdminHandler) AssignAdvisor(c *gin.Context) {
	var req dto.AssignAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.allocationSvc.AssignAdvisor(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Advisor assigned"})
}

// AutoAssign runs the allocator now
// POST /api/v1/admin/auto-assign
func (h *AdminHandler) AutoAssign(c *gin.Context) {
	result, err := h.allocationSvc.AssignPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.AssignmentItem, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		items = append(items, dto.AssignmentItem{UniversityID: a.UniversityID, AdvisorID: a.AdvisorID})
	}
	msg := "Advisors assigned"
	if len(items) == 0 {
		msg = "No unassigned students"
	}
	response.OK(c, dto.AllocationResponse{Message: msg, Assigned: len(items), Assignments: items})
}

// ────────────────────── internship periods ──────────────────────

// CreatePeriod
// POST /api/v1/admin/periods
func (h *AdminHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.periodSvc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, result)
}

// ListPeriods
// GET /api/v1/admin/periods
func (h *AdminHandler) ListPeriods(c *gin.Context) {
	list, err := h.periodSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// UpdatePeriod
// PUT /api/v1/admin/periods/:id
func (h *AdminHandler) UpdatePeriod(c *gin.Context) {
	var req dto.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.periodSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}
