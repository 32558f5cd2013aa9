package handler

import "internship-tracker/backend/internal/service"

// Handler aggregate of every HTTP handler
type Handler struct {
	Auth       *AuthHandler
	Student    *StudentHandler
	Submission *SubmissionHandler
	Approval   *ApprovalHandler
	Advisor    *AdvisorHandler
	Admin      *AdminHandler
	Department *DepartmentHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Student:    NewStudentHandler(svc.Registration),
		Submission: NewSubmissionHandler(svc.Submission),
		Approval:   NewApprovalHandler(svc.Approval),
		Advisor:    NewAdvisorHandler(svc.Advisor),
		Admin:      NewAdminHandler(svc.Roster, svc.Advisor, svc.Allocation, svc.Period),
		Department: NewDepartmentHandler(svc.Department),
	}
}
