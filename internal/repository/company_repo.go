package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internship-tracker/backend/internal/model"
)

// CompanyRepository internship host companies
type CompanyRepository interface {
	// FindOrCreate by exact name
	FindOrCreate(ctx context.Context, name string) (*model.Company, error)
	GetByID(ctx context.Context, id string) (*model.Company, error)
}

type companyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo creates a CompanyRepository
func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) FindOrCreate(ctx context.Context, name string) (*model.Company, error) {
	db := r.db.WithContext(ctx)

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&model.Company{Name: name}).Error; err != nil {
		return nil, err
	}

	var company model.Company
	if err := db.Where("name = ?", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Where("company_id = ?", id).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}
