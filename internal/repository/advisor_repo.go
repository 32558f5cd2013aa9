package repository

import (
	"context"

	"gorm.io/gorm"

	"internship-tracker/backend/internal/model"
)

// AdvisorRepository advisors and their load
type AdvisorRepository interface {
	Create(ctx context.Context, advisor *model.Advisor) error
	GetByID(ctx context.Context, id string) (*model.Advisor, error)
	GetByUserID(ctx context.Context, userID string) (*model.Advisor, error)
	Update(ctx context.Context, advisor *model.Advisor) error
	List(ctx context.Context) ([]model.Advisor, error)
	// ListWithLoad every advisor with the number of roster entries assigned to it
	ListWithLoad(ctx context.Context) ([]model.AdvisorLoad, error)
}

type advisorRepo struct {
	db *gorm.DB
}

// NewAdvisorRepo creates an AdvisorRepository
func NewAdvisorRepo(db *gorm.DB) AdvisorRepository {
	return &advisorRepo{db: db}
}

func (r *advisorRepo) Create(ctx context.Context, advisor *model.Advisor) error {
	return r.db.WithContext(ctx).Create(advisor).Error
}

func (r *advisorRepo) GetByID(ctx context.Context, id string) (*model.Advisor, error) {
	var advisor model.Advisor
	err := r.db.WithContext(ctx).
		Where("advisor_id = ?", id).
		First(&advisor).Error
	if err != nil {
		return nil, err
	}
	return &advisor, nil
}

func (r *advisorRepo) GetByUserID(ctx context.Context, userID string) (*model.Advisor, error) {
	var advisor model.Advisor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&advisor).Error
	if err != nil {
		return nil, err
	}
	return &advisor, nil
}

func (r *advisorRepo) Update(ctx context.Context, advisor *model.Advisor) error {
	return r.db.WithContext(ctx).
		Model(advisor).
		Where("advisor_id = ?", advisor.AdvisorID).
		Updates(map[string]interface{}{
			"first_name":                      advisor.FirstName,
			"last_name":                       advisor.LastName,
			"email":                           advisor.Email,
			"phone_number":                    advisor.PhoneNumber,
			"number_of_expected_reports":      advisor.NumberOfExpectedReports,
			"report_submission_interval_days": advisor.ReportSubmissionIntervalDays,
		}).Error
}

func (r *advisorRepo) List(ctx context.Context) ([]model.Advisor, error) {
	var advisors []model.Advisor
	err := r.db.WithContext(ctx).
		Order("first_name ASC, last_name ASC").
		Find(&advisors).Error
	return advisors, err
}

func (r *advisorRepo) ListWithLoad(ctx context.Context) ([]model.AdvisorLoad, error) {
	var rows []model.AdvisorLoad
	err := r.db.WithContext(ctx).
		Table("advisors AS a").
		Select("a.*, COUNT(r.university_id) AS student_load").
		Joins("LEFT JOIN roster_entries r ON r.assigned_advisor_id = a.advisor_id").
		Group("a.advisor_id").
		Order("student_load ASC, a.first_name ASC, a.advisor_id ASC").
		Scan(&rows).Error
	return rows, err
}
