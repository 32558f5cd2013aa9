package dto

import "io"

// Document uploaded file handed to the submission service
type Document struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// OfferLetterForm multipart fields of POST /offer-letter; the file is "document"
type OfferLetterForm struct {
	TelegramID  string `form:"telegram_id"  binding:"required"`
	CompanyName string `form:"company_name" binding:"max=255"`
}

// ReportForm multipart fields of POST /report; the file is "document"
type ReportForm struct {
	TelegramID   string `form:"telegram_id"   binding:"required"`
	ReportNumber int    `form:"report_number" binding:"required"`
}

// TelegramQuery ?telegram_id= on the student read endpoints
type TelegramQuery struct {
	TelegramID string `form:"telegram_id" binding:"required"`
}

// OfferLetterResponse submission accepted
type OfferLetterResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	DocumentURL string `json:"document_url"`
}

// ReportResponse submission accepted
type ReportResponse struct {
	Message          string `json:"message"`
	Progress         string `json:"progress"`
	RemainingReports int    `json:"remaining_reports"`
	DocumentURL      string `json:"document_url"`
	Status           string `json:"status,omitempty"` // "Completed" on the final report
}

// OfferLetterStatusResponse latest offer letter of a student
type OfferLetterStatusResponse struct {
	OfferLetterID  string `json:"offer_letter_id"`
	Status         string `json:"status"`
	CompanyName    string `json:"company_name,omitempty"`
	DocumentURL    string `json:"document_url"`
	SubmissionDate string `json:"submission_date"`
	ApprovalDate   string `json:"approval_date,omitempty"`
}

// ReportStatusResponse one slot per expected report
type ReportStatusResponse struct {
	ExpectedReports  int          `json:"expected_reports"`
	Submitted        int          `json:"submitted"`
	IntervalDays     int          `json:"interval_days"`
	StudentStatus    string       `json:"student_status"`
	NextReportNumber int          `json:"next_report_number,omitempty"`
	NextAllowedDate  string       `json:"next_allowed_date,omitempty"`
	Reports          []ReportItem `json:"reports"`
}

// ReportItem one report slot; Status is "Not submitted" for empty slots
type ReportItem struct {
	ReportID       string `json:"report_id,omitempty"`
	ReportNumber   int    `json:"report_number"`
	Status         string `json:"status"`
	DocumentURL    string `json:"document_url,omitempty"`
	SubmissionDate string `json:"submission_date,omitempty"`
	ApprovalDate   string `json:"approval_date,omitempty"`
}
