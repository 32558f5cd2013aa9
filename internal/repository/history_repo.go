package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internship-tracker/backend/internal/model"
)

// HistoryRepository completed internships
type HistoryRepository interface {
	Create(ctx context.Context, history *model.InternshipHistory) error
	ListByStudent(ctx context.Context, studentID string) ([]model.InternshipHistory, error)
}

type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepo creates a HistoryRepository
func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Create(ctx context.Context, history *model.InternshipHistory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(history).Error
}

func (r *historyRepo) ListByStudent(ctx context.Context, studentID string) ([]model.InternshipHistory, error) {
	var rows []model.InternshipHistory
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("student_id = ?", studentID).
		Order("year DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}
