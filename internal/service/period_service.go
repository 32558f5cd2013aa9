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
)

// PeriodService registration windows; the allocator runs once a window closes
type PeriodService interface {
	Create(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error)
	List(ctx context.Context) ([]dto.PeriodResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest) (*dto.PeriodResponse, error)
}

type periodService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPeriodService creates a PeriodService
func NewPeriodService(repo *repository.Repository, logger *zap.Logger) PeriodService {
	return &periodService{repo: repo, logger: logger}
}

func (s *periodService) Create(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error) {
	start, err := parseInstant(req.RegistrationStart)
	if err != nil {
		return nil, err
	}
	end, err := parseInstant(req.RegistrationEnd)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, ErrInvalidPeriodWindow
	}

	period := &model.InternshipPeriod{
		Name:              strings.TrimSpace(req.Name),
		RegistrationStart: start,
		RegistrationEnd:   end,
	}
	if err := s.repo.Period.Create(ctx, period); err != nil {
		s.logger.Error("create period failed", zap.Error(err))
		return nil, err
	}
	return toPeriodResponse(period), nil
}

func (s *periodService) List(ctx context.Context) ([]dto.PeriodResponse, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("list periods failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *toPeriodResponse(&periods[i]))
	}
	return result, nil
}

// Update moving registration_end after the allocator has run re-arms it
func (s *periodService) Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("get period failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		period.Name = strings.TrimSpace(*req.Name)
	}
	if req.RegistrationStart != nil {
		if period.RegistrationStart, err = parseInstant(*req.RegistrationStart); err != nil {
			return nil, err
		}
	}
	if req.RegistrationEnd != nil {
		end, err := parseInstant(*req.RegistrationEnd)
		if err != nil {
			return nil, err
		}
		if !end.Equal(period.RegistrationEnd) {
			period.AdvisorsAssigned = false
			period.AssignedAt = nil
		}
		period.RegistrationEnd = end
	}
	if !period.RegistrationStart.Before(period.RegistrationEnd) {
		return nil, ErrInvalidPeriodWindow
	}

	if err := s.repo.Period.Update(ctx, period); err != nil {
		s.logger.Error("update period failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toPeriodResponse(period), nil
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate.Withf("Invalid timestamp %q, expected RFC 3339", s)
	}
	return t, nil
}

func toPeriodResponse(p *model.InternshipPeriod) *dto.PeriodResponse {
	return &dto.PeriodResponse{
		ID:                p.PeriodID,
		Name:              p.Name,
		RegistrationStart: p.RegistrationStart.Format(time.RFC3339),
		RegistrationEnd:   p.RegistrationEnd.Format(time.RFC3339),
		AdvisorsAssigned:  p.AdvisorsAssigned,
		AssignedAt:        formatTime(p.AssignedAt),
	}
}
