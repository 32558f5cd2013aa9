package dto

// ── departments ──

// CreateDepartmentRequest dates are YYYY-MM-DD
type CreateDepartmentRequest struct {
	Name                    string `json:"name"                      binding:"required,max=100"`
	InternshipDurationWeeks int    `json:"internship_duration_weeks" binding:"required,min=1,max=104"`
	InternshipStart         string `json:"internship_start"          binding:"required,datetime=2006-01-02"`
	InternshipEnd           string `json:"internship_end"            binding:"required,datetime=2006-01-02"`
}

// UpdateDepartmentRequest omitted fields stay unchanged
type UpdateDepartmentRequest struct {
	Name                    *string `json:"name"                      binding:"omitempty,max=100"`
	InternshipDurationWeeks *int    `json:"internship_duration_weeks" binding:"omitempty,min=1,max=104"`
	InternshipStart         *string `json:"internship_start"          binding:"omitempty,datetime=2006-01-02"`
	InternshipEnd           *string `json:"internship_end"            binding:"omitempty,datetime=2006-01-02"`
}

// DepartmentResponse department with calendar
type DepartmentResponse struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	InternshipDurationWeeks int    `json:"internship_duration_weeks"`
	InternshipStart         string `json:"internship_start"`
	InternshipEnd           string `json:"internship_end"`
}

// ── internship periods ──

// CreatePeriodRequest times are RFC 3339
type CreatePeriodRequest struct {
	Name              string `json:"name"               binding:"required,max=100"`
	RegistrationStart string `json:"registration_start" binding:"required"`
	RegistrationEnd   string `json:"registration_end"   binding:"required"`
}

// UpdatePeriodRequest omitted fields stay unchanged
type UpdatePeriodRequest struct {
	Name              *string `json:"name"               binding:"omitempty,max=100"`
	RegistrationStart *string `json:"registration_start"`
	RegistrationEnd   *string `json:"registration_end"`
}

// PeriodResponse internship period
type PeriodResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	RegistrationStart string `json:"registration_start"`
	RegistrationEnd   string `json:"registration_end"`
	AdvisorsAssigned  bool   `json:"advisors_assigned"`
	AssignedAt        string `json:"assigned_at,omitempty"`
}
