package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
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

// RegistrationService turns a roster entry into an activated student after OTP proof
type RegistrationService interface {
	SendOTP(ctx context.Context, universityID string) error
	Register(ctx context.Context, req *dto.StudentRegisterRequest) (*dto.StudentRegisterResponse, error)
}

type registrationService struct {
	cfg      *config.InternshipConfig
	repo     *repository.Repository
	roster   RosterLookup
	notifier notify.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistrationService roster is usually repo.Roster
func NewRegistrationService(
	cfg *config.InternshipConfig,
	repo *repository.Repository,
	roster RosterLookup,
	notifier notify.Dispatcher,
	logger *zap.Logger,
) RegistrationService {
	return &registrationService{
		cfg:      cfg,
		repo:     repo,
		roster:   roster,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── SendOTP ──────────────────────

func (s *registrationService) SendOTP(ctx context.Context, universityID string) error {
	universityID, ok := model.NormalizeUniversityID(universityID)
	if !ok {
		return ErrNotOnRoster
	}

	entry, err := s.roster.GetByUniversityID(ctx, universityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotOnRoster
		}
		s.logger.Error("roster lookup failed", zap.String("university_id", universityID), zap.Error(err))
		return err
	}

	code, err := generateOTP()
	if err != nil {
		s.logger.Error("generate otp failed", zap.Error(err))
		return err
	}

	now := s.now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		existing, err := tx.OTP.GetForUpdate(ctx, universityID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// a resend must not lift an active lockout
		if existing != nil && existing.IsLocked(now) {
			return ErrOTPLocked.With("locked_until", existing.LockedUntil.Format(time.RFC3339))
		}
		return tx.OTP.Upsert(ctx, &model.OneTimePasscode{
			UniversityID: universityID,
			OTPCode:      code,
			CreatedAt:    now,
		})
	})
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("store otp failed", zap.String("university_id", universityID), zap.Error(err))
		}
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour internship registration code is %s.\nIt expires in %d minutes.\n\nIf you did not request this code, ignore this email.\n",
		entry.FullName, code, int(s.cfg.OTPTTL.Minutes()),
	)
	msg := notify.Email([]string{entry.InstitutionalEmail}, "Your internship registration code", body)
	if err := s.notifier.Dispatch(ctx, msg); err != nil {
		s.logger.Error("otp email not dispatched", zap.String("university_id", universityID), zap.Error(err))
		return ErrOTPDelivery.Wrap(err)
	}

	s.logger.Info("otp issued", zap.String("university_id", universityID))
	return nil
}

// ────────────────────── Register ──────────────────────

func (s *registrationService) Register(ctx context.Context, req *dto.StudentRegisterRequest) (*dto.StudentRegisterResponse, error) {
	universityID, ok := model.NormalizeUniversityID(req.UniversityID)
	if !ok {
		return nil, ErrNotOnRoster
	}

	var (
		student *model.Student
		otpErr  error
	)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		now := s.now()

		otp, err := tx.OTP.GetForUpdate(ctx, universityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOTPNotFound
			}
			return err
		}

		if otp.IsLocked(now) {
			return ErrOTPLocked.With("locked_until", otp.LockedUntil.Format(time.RFC3339))
		}

		// expiry and mismatch commit their bookkeeping, then fail the call
		if otp.IsExpired(now, s.cfg.OTPTTL) {
			otpErr = ErrOTPExpired
			return tx.OTP.Delete(ctx, universityID)
		}

		if subtle.ConstantTimeCompare([]byte(otp.OTPCode), []byte(req.OTPCode)) != 1 {
			otp.AttemptCount++
			otpErr = ErrOTPInvalid.With("attempts_remaining", max(s.cfg.OTPMaxAttempts-otp.AttemptCount, 0))
			if otp.AttemptCount >= s.cfg.OTPMaxAttempts {
				until := now.Add(s.cfg.OTPLockDuration)
				otp.LockedUntil = &until
				otpErr = ErrOTPLocked.With("locked_until", until.Format(time.RFC3339))
			}
			return tx.OTP.Update(ctx, otp)
		}

		if err := tx.OTP.Delete(ctx, universityID); err != nil {
			return err
		}

		entry, err := s.roster.GetByUniversityID(ctx, universityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotOnRoster
			}
			return err
		}

		student, err = s.activate(ctx, tx, entry, req)
		return err
	})

	if err == nil && otpErr != nil {
		return nil, otpErr
	}
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("student registration failed", zap.String("university_id", universityID), zap.Error(err))
		}
		return nil, err
	}

	resp := &dto.StudentRegisterResponse{
		Message:      "Registration successful",
		OTPVerified:  true,
		StudentID:    student.StudentID,
		UniversityID: student.UniversityID,
		Status:       string(student.Status),
	}

	advisor := s.loadAdvisor(ctx, student.AssignedAdvisorID)
	if advisor != nil {
		resp.Advisor = &dto.AdvisorContact{
			Name:        advisor.FullName(),
			Email:       advisor.Email,
			PhoneNumber: advisor.PhoneNumber,
		}
	}
	s.sendConfirmation(ctx, student, advisor)

	s.logger.Info("student activated", zap.String("university_id", student.UniversityID))
	return resp, nil
}

// activate upserts the student keyed on university_id
func (s *registrationService) activate(ctx context.Context, tx *repository.Repository, entry *model.RosterEntry, req *dto.StudentRegisterRequest) (*model.Student, error) {
	bound, err := tx.Student.GetByTelegramID(ctx, req.TelegramID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if bound != nil && bound.UniversityID != entry.UniversityID {
		return nil, ErrTelegramIDTaken
	}

	dept, err := tx.Department.GetLatest(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if dept != nil && !dept.IsValidCalendar() {
		return nil, ErrInvalidDepartmentCalendar
	}

	student, err := tx.Student.GetByUniversityID(ctx, entry.UniversityID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if student == nil {
		student = &model.Student{UniversityID: entry.UniversityID}
	}
	// last write wins, lifecycle included
	student.Status = model.StudentPending
	student.FullName = entry.FullName
	student.InstitutionalEmail = entry.InstitutionalEmail
	student.PhoneNumber = req.PhoneNumber
	student.TelegramID = strPtr(req.TelegramID)
	student.OTPVerified = true
	if student.AssignedAdvisorID == nil {
		student.AssignedAdvisorID = entry.AssignedAdvisorID
	}
	if dept != nil {
		student.DepartmentID = strPtr(dept.DepartmentID)
	}

	if student.StudentID == "" {
		err = tx.Student.Create(ctx, student)
	} else {
		err = tx.Student.Update(ctx, student)
	}
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrTelegramIDTaken
		}
		return nil, err
	}
	return student, nil
}

func (s *registrationService) loadAdvisor(ctx context.Context, advisorID *string) *model.Advisor {
	if advisorID == nil {
		return nil
	}
	advisor, err := s.repo.Advisor.GetByID(ctx, *advisorID)
	if err != nil {
		s.logger.Warn("load advisor for confirmation failed", zap.String("advisor_id", *advisorID), zap.Error(err))
		return nil
	}
	return advisor
}

func (s *registrationService) sendConfirmation(ctx context.Context, student *model.Student, advisor *model.Advisor) {
	text := fmt.Sprintf("Hello %s, your internship registration is complete.\n", student.FullName)
	if advisor != nil {
		text += fmt.Sprintf("Your advisor is %s", advisor.FullName())
		if advisor.Email != "" {
			text += " (" + advisor.Email + ")"
		}
		if advisor.PhoneNumber != "" {
			text += ", phone " + advisor.PhoneNumber
		}
		text += ".\n"
	} else {
		text += "An advisor will be assigned to you after the registration period closes.\n"
	}
	text += "Next step: submit your internship offer letter.\n"

	dispatchBestEffort(ctx, s.notifier, s.logger, notify.Email(
		[]string{student.InstitutionalEmail}, "Internship registration confirmed", text,
	))
	dispatchBestEffort(ctx, s.notifier, s.logger, notify.Telegram(derefStr(student.TelegramID), text))
}

// generateOTP uniform six-digit code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
