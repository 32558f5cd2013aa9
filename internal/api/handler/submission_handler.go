package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/service"
	"internship-tracker/backend/pkg/response"
)

// SubmissionHandler student document submissions, identified by telegram_id
type SubmissionHandler struct {
	svc service.SubmissionService
}

// NewSubmissionHandler creates a SubmissionHandler
func NewSubmissionHandler(svc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// SubmitOfferLetter
// POST /api/v1/offer-letter (multipart: telegram_id, company_name?, document)
func (h *SubmissionHandler) SubmitOfferLetter(c *gin.Context) {
	var form dto.OfferLetterForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	doc, closeDoc, err := documentFromForm(c)
	if err != nil {
		response.BadRequest(c, "INVALID_DOCUMENT", "Could not read the uploaded document")
		return
	}
	defer closeDoc()

	result, err := h.svc.SubmitOfferLetter(c.Request.Context(), &form, doc)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, result)
}

// SubmitReport
// POST /api/v1/report (multipart: telegram_id, report_number, document)
func (h *SubmissionHandler) SubmitReport(c *gin.Context) {
	var form dto.ReportForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	doc, closeDoc, err := documentFromForm(c)
	if err != nil {
		response.BadRequest(c, "INVALID_DOCUMENT", "Could not read the uploaded document")
		return
	}
	defer closeDoc()

	result, err := h.svc.SubmitReport(c.Request.Context(), &form, doc)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, result)
}

// OfferLetterStatus
// GET /api/v1/offer-letter/status?telegram_id=
func (h *SubmissionHandler) OfferLetterStatus(c *gin.Context) {
	var q dto.TelegramQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.svc.OfferLetterStatus(c.Request.Context(), q.TelegramID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ReportStatus
// GET /api/v1/report/status?telegram_id=
func (h *SubmissionHandler) ReportStatus(c *gin.Context) {
	var q dto.TelegramQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.svc.ReportStatus(c.Request.Context(), q.TelegramID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ReportCalendar report deadlines as an .ics download
// GET /api/v1/report/calendar.ics?telegram_id=
func (h *SubmissionHandler) ReportCalendar(c *gin.Context) {
	var q dto.TelegramQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	data, err := h.svc.ReportCalendar(c.Request.Context(), q.TelegramID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="report-deadlines.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
