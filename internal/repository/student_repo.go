package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internship-tracker/backend/internal/model"
)

// StudentRepository activated students
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	// GetByIDForUpdate SELECT ... FOR UPDATE; only meaningful inside a transaction
	GetByIDForUpdate(ctx context.Context, id string) (*model.Student, error)
	GetByUniversityID(ctx context.Context, universityID string) (*model.Student, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*model.Student, error)
	// SetAdvisorIfUnassigned copies an advisor only while none is set
	SetAdvisorIfUnassigned(ctx context.Context, universityID, advisorID string) (bool, error)
	// SetAdvisor unconditional admin override; no error when the student is not activated yet
	SetAdvisor(ctx context.Context, universityID, advisorID string) error
	ListByAdvisor(ctx context.Context, advisorID string) ([]model.Student, error)
	List(ctx context.Context, offset, limit int) ([]model.Student, int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(student).Error
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("AssignedAdvisor").
		Preload("Department").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByUniversityID(ctx context.Context, universityID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("AssignedAdvisor").
		Preload("Department").
		Where("university_id = ?", universityID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByTelegramID(ctx context.Context, telegramID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("AssignedAdvisor").
		Preload("Department").
		Where("telegram_id = ?", telegramID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) SetAdvisorIfUnassigned(ctx context.Context, universityID, advisorID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("university_id = ? AND assigned_advisor_id IS NULL", universityID).
		Update("assigned_advisor_id", advisorID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *studentRepo) SetAdvisor(ctx context.Context, universityID, advisorID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("university_id = ?", universityID).
		Update("assigned_advisor_id", advisorID).Error
}

func (r *studentRepo) ListByAdvisor(ctx context.Context, advisorID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("assigned_advisor_id = ?", advisorID).
		Order("full_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) List(ctx context.Context, offset, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Student{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("AssignedAdvisor").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}
