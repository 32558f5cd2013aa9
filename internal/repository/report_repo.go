package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internship-tracker/backend/internal/model"
)

// ReportRepository progress reports
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Update(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id string) (*model.Report, error)
	// ListByStudent ordered by report_number
	ListByStudent(ctx context.Context, studentID string) ([]model.Report, error)
	CountPendingByAdvisor(ctx context.Context, advisorID string) (int64, error)
	// MaxSubmittedByAdvisor highest report count among the advisor's students
	MaxSubmittedByAdvisor(ctx context.Context, advisorID string) (int, error)
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo creates a ReportRepository
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

func (r *reportRepo) Update(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(report).Error
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("report_id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("report_number ASC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) CountPendingByAdvisor(ctx context.Context, advisorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Joins("JOIN students s ON s.student_id = reports.student_id").
		Where("s.assigned_advisor_id = ? AND reports.status = ?", advisorID, model.ApprovalPending).
		Count(&n).Error
	return n, err
}

// reports are numbered 1..k without gaps, so the highest number is the count
func (r *reportRepo) MaxSubmittedByAdvisor(ctx context.Context, advisorID string) (int, error) {
	var n int
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Select("COALESCE(MAX(reports.report_number), 0)").
		Joins("JOIN students s ON s.student_id = reports.student_id").
		Where("s.assigned_advisor_id = ?", advisorID).
		Scan(&n).Error
	return n, err
}
