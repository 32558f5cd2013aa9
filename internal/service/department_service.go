package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/repository"
	apperrors "internship-tracker/backend/pkg/errors"
)

// DepartmentService department internship calendars
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error)
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService creates a DepartmentService
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	start, err := parseDay(req.InternshipStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDay(req.InternshipEnd)
	if err != nil {
		return nil, err
	}

	dept := &model.Department{
		Name:                    strings.TrimSpace(req.Name),
		InternshipDurationWeeks: req.InternshipDurationWeeks,
		InternshipStart:         start,
		InternshipEnd:           end,
	}
	if !dept.IsValidCalendar() {
		return nil, ErrInvalidDepartmentCalendar
	}

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("create department failed", zap.Error(err))
		return nil, err
	}

	return toDepartmentResponse(dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	dept, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		dept.Name = strings.TrimSpace(*req.Name)
	}
	if req.InternshipDurationWeeks != nil {
		dept.InternshipDurationWeeks = *req.InternshipDurationWeeks
	}
	if req.InternshipStart != nil {
		if dept.InternshipStart, err = parseDay(*req.InternshipStart); err != nil {
			return nil, err
		}
	}
	if req.InternshipEnd != nil {
		if dept.InternshipEnd, err = parseDay(*req.InternshipEnd); err != nil {
			return nil, err
		}
	}
	if !dept.IsValidCalendar() {
		return nil, ErrInvalidDepartmentCalendar
	}

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("update department failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toDepartmentResponse(dept), nil
}

func (s *departmentService) get(ctx context.Context, id string) (*model.Department, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("get department failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return dept, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate.Withf("Invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func toDepartmentResponse(d *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:                      d.DepartmentID,
		Name:                    d.Name,
		InternshipDurationWeeks: d.InternshipDurationWeeks,
		InternshipStart:         d.InternshipStart.Format(dateLayout),
		InternshipEnd:           d.InternshipEnd.Format(dateLayout),
	}
}
