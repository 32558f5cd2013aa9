package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internship-tracker/backend/internal/model"
)

// RosterRepository eligible-student roster
type RosterRepository interface {
	Create(ctx context.Context, entry *model.RosterEntry) error
	// BatchCreate inserts entries, skipping university ids already present; returns rows inserted
	BatchCreate(ctx context.Context, entries []model.RosterEntry) (int64, error)
	GetByUniversityID(ctx context.Context, universityID string) (*model.RosterEntry, error)
	// ListUnassigned ordered by full_name
	ListUnassigned(ctx context.Context) ([]model.RosterEntry, error)
	// AssignAdvisorIfUnassigned sets the advisor only while none is set; reports whether a row changed
	AssignAdvisorIfUnassigned(ctx context.Context, universityID, advisorID string) (bool, error)
	// SetAdvisor unconditional admin override
	SetAdvisor(ctx context.Context, universityID, advisorID string) error
	CountByAdvisor(ctx context.Context, advisorID string) (int64, error)
	CountUnassigned(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]model.RosterEntry, int64, error)
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo creates a RosterRepository
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) Create(ctx context.Context, entry *model.RosterEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *rosterRepo) BatchCreate(ctx context.Context, entries []model.RosterEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&entries, 200)
	return result.RowsAffected, result.Error
}

func (r *rosterRepo) GetByUniversityID(ctx context.Context, universityID string) (*model.RosterEntry, error) {
	var entry model.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("AssignedAdvisor").
		Where("university_id = ?", universityID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rosterRepo) ListUnassigned(ctx context.Context) ([]model.RosterEntry, error) {
	var entries []model.RosterEntry
	err := r.db.WithContext(ctx).
		Where("assigned_advisor_id IS NULL").
		Order("full_name ASC, university_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *rosterRepo) AssignAdvisorIfUnassigned(ctx context.Context, universityID, advisorID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Where("university_id = ? AND assigned_advisor_id IS NULL", universityID).
		Update("assigned_advisor_id", advisorID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *rosterRepo) SetAdvisor(ctx context.Context, universityID, advisorID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Where("university_id = ?", universityID).
		Update("assigned_advisor_id", advisorID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *rosterRepo) CountByAdvisor(ctx context.Context, advisorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Where("assigned_advisor_id = ?", advisorID).
		Count(&n).Error
	return n, err
}

func (r *rosterRepo) CountUnassigned(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Where("assigned_advisor_id IS NULL").
		Count(&n).Error
	return n, err
}

func (r *rosterRepo) List(ctx context.Context, offset, limit int) ([]model.RosterEntry, int64, error) {
	var entries []model.RosterEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RosterEntry{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("AssignedAdvisor").
		Offset(offset).Limit(limit).
		Order("full_name ASC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
