package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"internship-tracker/backend/internal/model"
)

// PeriodRepository internship registration periods
type PeriodRepository interface {
	Create(ctx context.Context, period *model.InternshipPeriod) error
	GetByID(ctx context.Context, id string) (*model.InternshipPeriod, error)
	Update(ctx context.Context, period *model.InternshipPeriod) error
	List(ctx context.Context) ([]model.InternshipPeriod, error)
	// ListDue periods whose registration closed and that still await assignment
	ListDue(ctx context.Context, now time.Time) ([]model.InternshipPeriod, error)
	MarkAssigned(ctx context.Context, id string, at time.Time) error
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo creates a PeriodRepository
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.InternshipPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.InternshipPeriod, error) {
	var period model.InternshipPeriod
	err := r.db.WithContext(ctx).
		Where("period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) Update(ctx context.Context, period *model.InternshipPeriod) error {
	return r.db.WithContext(ctx).Save(period).Error
}

func (r *periodRepo) List(ctx context.Context) ([]model.InternshipPeriod, error) {
	var periods []model.InternshipPeriod
	err := r.db.WithContext(ctx).
		Order("registration_end DESC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ListDue(ctx context.Context, now time.Time) ([]model.InternshipPeriod, error) {
	var periods []model.InternshipPeriod
	err := r.db.WithContext(ctx).
		Where("registration_end <= ? AND advisors_assigned = ?", now, false).
		Order("registration_end ASC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) MarkAssigned(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.InternshipPeriod{}).
		Where("period_id = ?", id).
		Updates(map[string]interface{}{
			"advisors_assigned": true,
			"assigned_at":       at,
		}).Error
}
