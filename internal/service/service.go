package service

import (
	"go.uber.org/zap"

	"internship-tracker/backend/config"
	"internship-tracker/backend/internal/notify"
	"internship-tracker/backend/internal/repository"
	"internship-tracker/backend/pkg/jwt"
)

// Infra external collaborators; any of them may be nil except Store
type Infra struct {
	Store     DocumentStore
	Notifier  notify.Dispatcher
	Locker    Locker
	Blacklist TokenBlacklist
}

// Service aggregate of every service
type Service struct {
	Auth         AuthService
	Registration RegistrationService
	Submission   SubmissionService
	Approval     ApprovalService
	Allocation   AllocationService
	Advisor      AdvisorService
	Roster       RosterService
	Department   DepartmentService
	Period       PeriodService
}

// NewService wires the services
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	infra Infra,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, infra.Blacklist, logger),
		Registration: NewRegistrationService(&cfg.Internship, repo, repo.Roster, infra.Notifier, logger),
		Submission:   NewSubmissionService(cfg, repo, infra.Store, infra.Notifier, logger),
		Approval:     NewApprovalService(&cfg.Internship, repo, infra.Notifier, logger),
		Allocation:   NewAllocationService(repo, infra.Locker, infra.Notifier, logger),
		Advisor:      NewAdvisorService(repo, logger),
		Roster:       NewRosterService(&cfg.Internship, repo, logger),
		Department:   NewDepartmentService(repo, logger),
		Period:       NewPeriodService(repo, logger),
	}
}
