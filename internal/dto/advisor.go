package dto

// AdvisorResponse advisor profile
type AdvisorResponse struct {
	ID                           string `json:"id"`
	FirstName                    string `json:"first_name"`
	LastName                     string `json:"last_name"`
	Email                        string `json:"email"`
	PhoneNumber                  string `json:"phone_number"`
	NumberOfExpectedReports      int    `json:"number_of_expected_reports"`
	ReportSubmissionIntervalDays int    `json:"report_submission_interval_days"`
	Load                         *int   `json:"load,omitempty"`
}

// AdvisorSettingsRequest PUT /advisors/me/settings; omitted fields stay unchanged
type AdvisorSettingsRequest struct {
	NumberOfExpectedReports      *int    `json:"number_of_expected_reports"      binding:"omitempty,min=1,max=12"`
	ReportSubmissionIntervalDays *int    `json:"report_submission_interval_days" binding:"omitempty,min=1,max=90"`
	PhoneNumber                  *string `json:"phone_number"                    binding:"omitempty,max=20"`
}

// DashboardResponse GET /advisors/students
type DashboardResponse struct {
	Stats    DashboardStats   `json:"stats"`
	Students []StudentSummary `json:"students"`
}

// DashboardStats counters over the advisor's students
type DashboardStats struct {
	AssignedStudents    int64 `json:"assigned_students"`
	ActivatedStudents   int   `json:"activated_students"`
	OngoingStudents     int   `json:"ongoing_students"`
	CompletedStudents   int   `json:"completed_students"`
	PendingOfferLetters int64 `json:"pending_offer_letters"`
	PendingReports      int64 `json:"pending_reports"`
}

// StudentSummary one dashboard row
type StudentSummary struct {
	UniversityID      string `json:"university_id"`
	FullName          string `json:"full_name"`
	Status            string `json:"status"`
	OfferLetterStatus string `json:"offer_letter_status,omitempty"`
	ReportsSubmitted  int    `json:"reports_submitted"`
}

// StudentDetailResponse GET /advisors/students/:university_id
type StudentDetailResponse struct {
	StudentID          string                     `json:"student_id"`
	UniversityID       string                     `json:"university_id"`
	FullName           string                     `json:"full_name"`
	InstitutionalEmail string                     `json:"institutional_email"`
	PhoneNumber        string                     `json:"phone_number"`
	Status             string                     `json:"status"`
	StartDate          string                     `json:"start_date,omitempty"`
	EndDate            string                     `json:"end_date,omitempty"`
	Department         string                     `json:"department,omitempty"`
	OfferLetter        *OfferLetterStatusResponse `json:"offer_letter,omitempty"`
	Reports            []ReportItem               `json:"reports"`
	History            []HistoryItem              `json:"history"`
}

// HistoryItem completed internship
type HistoryItem struct {
	Year        int    `json:"year"`
	CompanyName string `json:"company_name,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}
