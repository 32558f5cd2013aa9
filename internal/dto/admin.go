package dto

// ListQuery paging parameters
type ListQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize applies defaults and bounds
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}

// Offset row offset of the page
func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ImportRowError rejected spreadsheet row (1-based, header is row 1)
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult outcome of a spreadsheet import
type ImportResult struct {
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

// AdvisorCredential temporary login for an imported advisor
type AdvisorCredential struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// AdvisorImportResult advisor spreadsheet outcome
type AdvisorImportResult struct {
	ImportResult
	Credentials []AdvisorCredential `json:"credentials,omitempty"`
}

// AssignAdvisorRequest POST /admin/assign-advisor
type AssignAdvisorRequest struct {
	UniversityID string `json:"university_id" binding:"required,university_id"`
	AdvisorID    string `json:"advisor_id"    binding:"required,uuid"`
}

// AssignmentItem one allocator decision
type AssignmentItem struct {
	UniversityID string `json:"university_id"`
	AdvisorID    string `json:"advisor_id"`
}

// AllocationResponse POST /admin/auto-assign
type AllocationResponse struct {
	Message     string           `json:"message"`
	Assigned    int              `json:"assigned"`
	Assignments []AssignmentItem `json:"assignments"`
}

// RosterEntryResponse roster row
type RosterEntryResponse struct {
	UniversityID       string `json:"university_id"`
	FullName           string `json:"full_name"`
	InstitutionalEmail string `json:"institutional_email"`
	AdvisorID          string `json:"advisor_id,omitempty"`
	AdvisorName        string `json:"advisor_name,omitempty"`
}

// StudentResponse activated student row
type StudentResponse struct {
	StudentID    string `json:"student_id"`
	UniversityID string `json:"university_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"institutional_email"`
	PhoneNumber  string `json:"phone_number"`
	Status       string `json:"status"`
	AdvisorName  string `json:"advisor_name,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}
