package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate of every repository.
// Repositories obtained from a Transaction callback share that transaction.
type Repository struct {
	db *gorm.DB

	User        UserRepository
	Advisor     AdvisorRepository
	Department  DepartmentRepository
	Period      PeriodRepository
	Roster      RosterRepository
	Student     StudentRepository
	Company     CompanyRepository
	OfferLetter OfferLetterRepository
	Report      ReportRepository
	OTP         OTPRepository
	History     HistoryRepository
}

// NewRepository creates the aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		Advisor:     NewAdvisorRepo(db),
		Department:  NewDepartmentRepo(db),
		Period:      NewPeriodRepo(db),
		Roster:      NewRosterRepo(db),
		Student:     NewStudentRepo(db),
		Company:     NewCompanyRepo(db),
		OfferLetter: NewOfferLetterRepo(db),
		Report:      NewReportRepo(db),
		OTP:         NewOTPRepo(db),
		History:     NewHistoryRepo(db),
	}
}

// Transaction runs fn inside a database transaction; fn's error rolls back.
// Without a database handle (unit tests with mock repositories) fn runs directly.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
