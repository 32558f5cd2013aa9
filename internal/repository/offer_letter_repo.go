package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internship-tracker/backend/internal/model"
)

// OfferLetterRepository offer letters; rejected rows are history
type OfferLetterRepository interface {
	Create(ctx context.Context, letter *model.OfferLetter) error
	Update(ctx context.Context, letter *model.OfferLetter) error
	// GetActiveByStudent the single Pending or Approved letter
	GetActiveByStudent(ctx context.Context, studentID string) (*model.OfferLetter, error)
	// GetLatestByStudent newest letter in any state
	GetLatestByStudent(ctx context.Context, studentID string) (*model.OfferLetter, error)
	CountPendingByAdvisor(ctx context.Context, advisorID string) (int64, error)
}

type offerLetterRepo struct {
	db *gorm.DB
}

// NewOfferLetterRepo creates an OfferLetterRepository
func NewOfferLetterRepo(db *gorm.DB) OfferLetterRepository {
	return &offerLetterRepo{db: db}
}

func (r *offerLetterRepo) Create(ctx context.Context, letter *model.OfferLetter) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(letter).Error
}

func (r *offerLetterRepo) Update(ctx context.Context, letter *model.OfferLetter) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(letter).Error
}

func (r *offerLetterRepo) GetActiveByStudent(ctx context.Context, studentID string) (*model.OfferLetter, error) {
	var letter model.OfferLetter
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("student_id = ? AND status <> ?", studentID, model.ApprovalRejected).
		First(&letter).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *offerLetterRepo) GetLatestByStudent(ctx context.Context, studentID string) (*model.OfferLetter, error) {
	var letter model.OfferLetter
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("student_id = ?", studentID).
		Order("submission_date DESC").
		First(&letter).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *offerLetterRepo) CountPendingByAdvisor(ctx context.Context, advisorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.OfferLetter{}).
		Joins("JOIN students s ON s.student_id = offer_letters.student_id").
		Where("s.assigned_advisor_id = ? AND offer_letters.status = ?", advisorID, model.ApprovalPending).
		Count(&n).Error
	return n, err
}
