package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internship-tracker/backend/internal/model"
)

// OTPRepository one row per university id
type OTPRepository interface {
	// Upsert replaces code, created_at, attempts and lock
	Upsert(ctx context.Context, otp *model.OneTimePasscode) error
	// GetForUpdate locks the row; only meaningful inside a transaction
	GetForUpdate(ctx context.Context, universityID string) (*model.OneTimePasscode, error)
	Update(ctx context.Context, otp *model.OneTimePasscode) error
	Delete(ctx context.Context, universityID string) error
}

type otpRepo struct {
	db *gorm.DB
}

// NewOTPRepo creates an OTPRepository
func NewOTPRepo(db *gorm.DB) OTPRepository {
	return &otpRepo{db: db}
}

func (r *otpRepo) Upsert(ctx context.Context, otp *model.OneTimePasscode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "university_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"otp_code", "created_at", "attempt_count", "locked_until"}),
		}).
		Create(otp).Error
}

func (r *otpRepo) GetForUpdate(ctx context.Context, universityID string) (*model.OneTimePasscode, error) {
	var otp model.OneTimePasscode
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("university_id = ?", universityID).
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepo) Update(ctx context.Context, otp *model.OneTimePasscode) error {
	return r.db.WithContext(ctx).
		Model(&model.OneTimePasscode{}).
		Where("university_id = ?", otp.UniversityID).
		Updates(map[string]interface{}{
			"attempt_count": otp.AttemptCount,
			"locked_until":  otp.LockedUntil,
		}).Error
}

func (r *otpRepo) Delete(ctx context.Context, universityID string) error {
	return r.db.WithContext(ctx).
		Where("university_id = ?", universityID).
		Delete(&model.OneTimePasscode{}).Error
}
