package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"internship-tracker/backend/config"
	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/notify"
	"internship-tracker/backend/internal/repository"
	apperrors "internship-tracker/backend/pkg/errors"
)

// ApprovalService advisor decisions on offer letters and reports
type ApprovalService interface {
	ReviewOfferLetter(ctx context.Context, req *dto.OfferLetterReviewRequest, actor Actor) (*dto.ReviewResponse, error)
	ReviewReport(ctx context.Context, reportID string, req *dto.ReportReviewRequest, actor Actor) (*dto.ReviewResponse, error)
}

type approvalService struct {
	cfg      *config.InternshipConfig
	repo     *repository.Repository
	notifier notify.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// NewApprovalService creates an ApprovalService
func NewApprovalService(cfg *config.InternshipConfig, repo *repository.Repository, notifier notify.Dispatcher, logger *zap.Logger) ApprovalService {
	return &approvalService{
		cfg:      cfg,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── ReviewOfferLetter ──────────────────────

func (s *approvalService) ReviewOfferLetter(ctx context.Context, req *dto.OfferLetterReviewRequest, actor Actor) (*dto.ReviewResponse, error) {
	decision, ok := model.ParseDecision(req.Decision)
	if !ok {
		return nil, ErrInvalidDecision
	}

	uid, ok := model.NormalizeUniversityID(req.UniversityID)
	if !ok {
		return nil, ErrStudentNotFound
	}

	student, err := s.repo.Student.GetByUniversityID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("get student failed", zap.String("university_id", uid), zap.Error(err))
		return nil, err
	}
	if !actor.canActOn(student) {
		return nil, ErrNotAssignedAdvisor
	}

	now := s.now()
	today := dayOf(now, s.cfg.Location())
	var letter *model.OfferLetter

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Student.GetByIDForUpdate(ctx, student.StudentID)
		if err != nil {
			return err
		}
		if !actor.canActOn(locked) {
			return ErrNotAssignedAdvisor
		}

		letter, err = tx.OfferLetter.GetActiveByStudent(ctx, locked.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOfferLetterNotFound
			}
			return err
		}
		if letter.Status != model.ApprovalPending {
			return ErrOfferNotPending.With("status", string(letter.Status))
		}

		letter.Status = decision
		letter.ApprovalDate = &now
		if err := tx.OfferLetter.Update(ctx, letter); err != nil {
			return err
		}
		if decision != model.ApprovalApproved {
			return nil
		}

		weeks, err := s.durationWeeks(ctx, tx, locked)
		if err != nil {
			return err
		}
		end := today.AddDate(0, 0, weeks*7)
		locked.StartDate = &today
		locked.EndDate = &end
		locked.Status = model.StudentOngoing
		if err := tx.Student.Update(ctx, locked); err != nil {
			return err
		}
		student = locked
		return nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("review offer letter failed", zap.String("university_id", uid), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("offer letter reviewed",
		zap.String("university_id", uid),
		zap.String("decision", string(decision)),
		zap.String("actor", actor.UserID),
	)

	resp := &dto.ReviewResponse{
		Message:             fmt.Sprintf("Offer letter %s", decision),
		Status:              string(decision),
		StudentName:         student.FullName,
		StudentUniversityID: student.UniversityID,
	}

	var text string
	if decision == model.ApprovalApproved {
		resp.StartDate = formatDay(student.StartDate)
		resp.EndDate = formatDay(student.EndDate)
		text = fmt.Sprintf("Your offer letter was approved. Your internship runs from %s to %s.", resp.StartDate, resp.EndDate)
	} else {
		text = "Your offer letter was rejected. Please submit a new one."
	}
	s.notifyStudent(ctx, student, "Offer letter "+string(decision), text)

	return resp, nil
}

// durationWeeks the department's internship length, else the configured default
func (s *approvalService) durationWeeks(ctx context.Context, tx *repository.Repository, student *model.Student) (int, error) {
	if student.DepartmentID != nil {
		dept, err := tx.Department.GetByID(ctx, *student.DepartmentID)
		switch {
		case err == nil && dept.InternshipDurationWeeks > 0:
			return dept.InternshipDurationWeeks, nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return 0, err
		}
	}
	return s.cfg.DefaultDurationWeeks, nil
}

// ────────────────────── ReviewReport ──────────────────────

func (s *approvalService) ReviewReport(ctx context.Context, reportID string, req *dto.ReportReviewRequest, actor Actor) (*dto.ReviewResponse, error) {
	decision, ok := model.ParseDecision(req.Decision)
	if !ok {
		return nil, ErrInvalidDecision
	}

	report, err := s.repo.Report.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		s.logger.Error("get report failed", zap.String("report_id", reportID), zap.Error(err))
		return nil, err
	}

	student := report.Student
	if student == nil {
		if student, err = s.repo.Student.GetByID(ctx, report.StudentID); err != nil {
			return nil, err
		}
	}
	if !actor.canActOn(student) {
		return nil, ErrNotAssignedAdvisor
	}
	if report.Status != model.ApprovalPending {
		return nil, ErrReportNotPending.With("status", string(report.Status))
	}

	now := s.now()
	report.Status = decision
	report.ApprovalDate = &now
	if err := s.repo.Report.Update(ctx, report); err != nil {
		s.logger.Error("update report failed", zap.String("report_id", reportID), zap.Error(err))
		return nil, err
	}

	s.notifyStudent(ctx, student,
		fmt.Sprintf("Report #%d %s", report.ReportNumber, decision),
		fmt.Sprintf("Your report #%d was %s.", report.ReportNumber, decision),
	)

	return &dto.ReviewResponse{
		Message:             fmt.Sprintf("Report #%d %s", report.ReportNumber, decision),
		Status:              string(decision),
		StudentName:         student.FullName,
		StudentUniversityID: student.UniversityID,
	}, nil
}

func (s *approvalService) notifyStudent(ctx context.Context, student *model.Student, subject, text string) {
	dispatchBestEffort(ctx, s.notifier, s.logger, notify.Telegram(derefStr(student.TelegramID), text))
	dispatchBestEffort(ctx, s.notifier, s.logger, notify.Email([]string{student.InstitutionalEmail}, subject, text))
}
