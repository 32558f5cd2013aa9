package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"internship-tracker/backend/config"
	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/notify"
	"internship-tracker/backend/internal/repository"
	apperrors "internship-tracker/backend/pkg/errors"
)

// SubmissionService offer letters and numbered reports submitted by students
type SubmissionService interface {
	SubmitOfferLetter(ctx context.Context, form *dto.OfferLetterForm, doc *dto.Document) (*dto.OfferLetterResponse, error)
	SubmitReport(ctx context.Context, form *dto.ReportForm, doc *dto.Document) (*dto.ReportResponse, error)
	OfferLetterStatus(ctx context.Context, telegramID string) (*dto.OfferLetterStatusResponse, error)
	ReportStatus(ctx context.Context, telegramID string) (*dto.ReportStatusResponse, error)
	// ReportCalendar iCalendar feed of the earliest date for each remaining report
	ReportCalendar(ctx context.Context, telegramID string) ([]byte, error)
}

type submissionService struct {
	cfg      *config.Config
	repo     *repository.Repository
	store    DocumentStore
	notifier notify.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService
func NewSubmissionService(
	cfg *config.Config,
	repo *repository.Repository,
	store DocumentStore,
	notifier notify.Dispatcher,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *submissionService) today() time.Time {
	return dayOf(s.now(), s.cfg.Internship.Location())
}

// ────────────────────── SubmitOfferLetter ──────────────────────

func (s *submissionService) SubmitOfferLetter(ctx context.Context, form *dto.OfferLetterForm, doc *dto.Document) (*dto.OfferLetterResponse, error) {
	student, err := s.studentForSubmission(ctx, form.TelegramID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOfferLetter(ctx, s.repo, student.StudentID); err != nil {
		return nil, err
	}

	url, err := s.upload(ctx, "offer_letters", student.UniversityID, doc)
	if err != nil {
		return nil, err
	}

	companyName := strings.TrimSpace(form.CompanyName)
	now := s.now()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Student.GetByIDForUpdate(ctx, student.StudentID); err != nil {
			return err
		}

		active, err := tx.OfferLetter.GetActiveByStudent(ctx, student.StudentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if active != nil && active.Status == model.ApprovalApproved {
			return ErrOfferAlreadyApproved
		}

		var companyID *string
		if companyName != "" {
			company, err := tx.Company.FindOrCreate(ctx, companyName)
			if err != nil {
				return err
			}
			companyID = strPtr(company.CompanyID)
		}

		// a pending letter is replaced in place
		if active != nil {
			active.DocumentURL = url
			active.SubmissionDate = now
			if companyID != nil {
				active.CompanyID = companyID
			}
			return tx.OfferLetter.Update(ctx, active)
		}

		letter := &model.OfferLetter{
			StudentID:      student.StudentID,
			CompanyID:      companyID,
			DocumentURL:    url,
			Status:         model.ApprovalPending,
			SubmissionDate: now,
		}
		if err := tx.OfferLetter.Create(ctx, letter); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return ErrOfferAlreadySubmitted
			}
			return err
		}
		return nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("save offer letter failed", zap.String("student_id", student.StudentID), zap.Error(err))
		}
		return nil, err
	}

	if advisor := student.AssignedAdvisor; advisor != nil {
		dispatchBestEffort(ctx, s.notifier, s.logger, notify.Email(
			[]string{advisor.Email},
			"Offer letter awaiting your review",
			fmt.Sprintf("%s (%s) submitted an internship offer letter.\nDocument: %s\n", student.FullName, student.UniversityID, url),
		))
	}

	return &dto.OfferLetterResponse{
		Message:     "Offer letter submitted successfully",
		Status:      "Pending advisor approval",
		DocumentURL: url,
	}, nil
}

// checkOfferLetter rejects a resubmission once a letter is approved
func (s *submissionService) checkOfferLetter(ctx context.Context, repo *repository.Repository, studentID string) error {
	active, err := repo.OfferLetter.GetActiveByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("get offer letter failed", zap.String("student_id", studentID), zap.Error(err))
		return err
	}
	if active.Status == model.ApprovalApproved {
		return ErrOfferAlreadyApproved
	}
	return nil
}

// ────────────────────── SubmitReport ──────────────────────

// reportPlan what a successful report submission will write
type reportPlan struct {
	offer     *model.OfferLetter
	submitted int
}

func (s *submissionService) SubmitReport(ctx context.Context, form *dto.ReportForm, doc *dto.Document) (*dto.ReportResponse, error) {
	student, err := s.studentForSubmission(ctx, form.TelegramID)
	if err != nil {
		return nil, err
	}
	advisor := student.AssignedAdvisor
	expected := advisor.ExpectedReports()

	if form.ReportNumber < 1 || form.ReportNumber > expected {
		return nil, ErrReportNumberRange.
			Withf("Report number must be between 1 and %d", expected).
			With("expected_reports", expected)
	}

	// fail fast before paying for the upload
	if _, err := s.checkReport(ctx, s.repo, student, advisor, form.ReportNumber); err != nil {
		return nil, err
	}

	url, err := s.upload(ctx, "reports", student.UniversityID, doc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := s.today()
	completed := false

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Student.GetByIDForUpdate(ctx, student.StudentID)
		if err != nil {
			return err
		}

		plan, err := s.checkReport(ctx, tx, locked, advisor, form.ReportNumber)
		if err != nil {
			return err
		}

		report := &model.Report{
			StudentID:      locked.StudentID,
			ReportNumber:   form.ReportNumber,
			DocumentURL:    url,
			Status:         model.ApprovalPending,
			SubmissionDate: now,
		}
		if err := tx.Report.Create(ctx, report); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return ErrReportAlreadySubmitted
			}
			return err
		}

		if form.ReportNumber < expected {
			return nil
		}

		completed = true
		locked.Status = model.StudentCompleted
		if err := tx.Student.Update(ctx, locked); err != nil {
			return err
		}

		start := today
		if locked.StartDate != nil {
			start = asDay(*locked.StartDate)
		}
		return tx.History.Create(ctx, &model.InternshipHistory{
			StudentID: locked.StudentID,
			CompanyID: plan.offer.CompanyID,
			Year:      today.Year(),
			StartDate: start,
			EndDate:   today,
		})
	})
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("save report failed",
				zap.String("student_id", student.StudentID),
				zap.Int("report_number", form.ReportNumber),
				zap.Error(err),
			)
		}
		return nil, err
	}

	resp := &dto.ReportResponse{
		Message:          fmt.Sprintf("Report #%d submitted successfully", form.ReportNumber),
		Progress:         fmt.Sprintf("%d/%d reports submitted", form.ReportNumber, expected),
		RemainingReports: expected - form.ReportNumber,
		DocumentURL:      url,
	}

	if completed {
		resp.Status = string(model.StudentCompleted)
		s.logger.Info("internship completed", zap.String("university_id", student.UniversityID))
		dispatchBestEffort(ctx, s.notifier, s.logger, notify.Telegram(
			derefStr(student.TelegramID),
			fmt.Sprintf("Congratulations %s! All %d reports are in and your internship is marked Completed.", student.FullName, expected),
		))
	}

	dispatchBestEffort(ctx, s.notifier, s.logger, notify.Email(
		[]string{advisor.Email},
		fmt.Sprintf("Report #%d from %s", form.ReportNumber, student.FullName),
		fmt.Sprintf("%s (%s) submitted report #%d of %d.\nDocument: %s\n",
			student.FullName, student.UniversityID, form.ReportNumber, expected, url),
	))

	return resp, nil
}

// checkReport sequencing rules, in order. Runs once before the upload and
// again under the student row lock.
func (s *submissionService) checkReport(
	ctx context.Context,
	repo *repository.Repository,
	student *model.Student,
	advisor *model.Advisor,
	number int,
) (*reportPlan, error) {
	offer, err := repo.OfferLetter.GetActiveByStudent(ctx, student.StudentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if offer == nil || offer.Status != model.ApprovalApproved {
		return nil, ErrOfferNotApproved
	}

	reports, err := repo.Report.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}

	for _, r := range reports {
		if r.ReportNumber == number {
			return nil, ErrReportAlreadySubmitted.Withf("Report #%d has already been submitted", number)
		}
	}

	next := len(reports) + 1
	if number != next {
		return nil, ErrReportOutOfOrder.
			Withf("Expected report #%d next", next).
			With("expected_report", next)
	}

	today := s.today()
	if len(reports) > 0 {
		last := reports[len(reports)-1]
		elapsed := daysBetween(dayOf(last.SubmissionDate, s.cfg.Internship.Location()), today)
		if interval := advisor.IntervalDays(); elapsed < interval {
			remaining := interval - elapsed
			return nil, ErrReportTooSoon.
				Withf("Wait %d more day(s) before submitting report #%d", remaining, number).
				With("remaining_days", remaining)
		}
	} else if student.StartDate == nil || today.Before(asDay(*student.StartDate)) {
		e := ErrInternshipNotStarted
		if student.StartDate != nil {
			e = e.Withf("Your internship starts on %s", formatDay(student.StartDate)).
				With("start_date", formatDay(student.StartDate))
		}
		return nil, e
	}

	return &reportPlan{offer: offer, submitted: len(reports)}, nil
}

// ────────────────────── read models ──────────────────────

func (s *submissionService) OfferLetterStatus(ctx context.Context, telegramID string) (*dto.OfferLetterStatusResponse, error) {
	student, err := s.studentByTelegram(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	letter, err := s.repo.OfferLetter.GetLatestByStudent(ctx, student.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferLetterNotFound
		}
		s.logger.Error("get offer letter failed", zap.Error(err))
		return nil, err
	}
	return toOfferLetterStatus(letter), nil
}

func (s *submissionService) ReportStatus(ctx context.Context, telegramID string) (*dto.ReportStatusResponse, error) {
	student, err := s.studentByTelegram(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if student.AssignedAdvisor == nil {
		return nil, ErrNoAdvisorAssigned
	}

	reports, err := s.repo.Report.ListByStudent(ctx, student.StudentID)
	if err != nil {
		s.logger.Error("list reports failed", zap.Error(err))
		return nil, err
	}

	advisor := student.AssignedAdvisor
	expected := advisor.ExpectedReports()
	resp := &dto.ReportStatusResponse{
		ExpectedReports: expected,
		Submitted:       len(reports),
		IntervalDays:    advisor.IntervalDays(),
		StudentStatus:   string(student.Status),
		Reports:         reportSlots(reports, expected),
	}

	if len(reports) < expected {
		resp.NextReportNumber = len(reports) + 1
		if next, ok := s.nextAllowedDay(student, reports, advisor.IntervalDays()); ok {
			resp.NextAllowedDate = next.Format(dateLayout)
		}
	}
	return resp, nil
}

// nextAllowedDay earliest day the next report is accepted; false before approval
func (s *submissionService) nextAllowedDay(student *model.Student, reports []model.Report, interval int) (time.Time, bool) {
	if len(reports) == 0 {
		if student.StartDate == nil {
			return time.Time{}, false
		}
		return asDay(*student.StartDate), true
	}
	last := reports[len(reports)-1]
	return dayOf(last.SubmissionDate, s.cfg.Internship.Location()).AddDate(0, 0, interval), true
}

// ────────────────────── helpers ──────────────────────

func (s *submissionService) studentByTelegram(ctx context.Context, telegramID string) (*model.Student, error) {
	student, err := s.repo.Student.GetByTelegramID(ctx, strings.TrimSpace(telegramID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("get student failed", zap.Error(err))
		return nil, err
	}
	return student, nil
}

// studentForSubmission existence, OTP verification and an assigned advisor
func (s *submissionService) studentForSubmission(ctx context.Context, telegramID string) (*model.Student, error) {
	student, err := s.studentByTelegram(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if !student.OTPVerified {
		return nil, ErrStudentNotVerified
	}
	if student.AssignedAdvisorID == nil {
		return nil, ErrNoAdvisorAssigned
	}
	if student.AssignedAdvisor == nil {
		advisor, err := s.repo.Advisor.GetByID(ctx, *student.AssignedAdvisorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoAdvisorAssigned
			}
			s.logger.Error("get advisor failed", zap.Error(err))
			return nil, err
		}
		student.AssignedAdvisor = advisor
	}
	return student, nil
}

func (s *submissionService) upload(ctx context.Context, kind, universityID string, doc *dto.Document) (string, error) {
	if doc == nil || doc.Content == nil || doc.Size == 0 {
		return "", ErrDocumentRequired
	}
	if limit := s.cfg.Storage.MaxFileBytes; limit > 0 && doc.Size > limit {
		return "", ErrDocumentTooLarge.With("max_bytes", limit)
	}

	name := strings.ToLower(strings.ReplaceAll(universityID, "/", "-")) + "-" + uuid.NewString()[:8]
	url, err := s.store.Upload(ctx, kind, name, doc.Content)
	if err != nil {
		s.logger.Error("document upload failed",
			zap.String("university_id", universityID),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return "", ErrUploadFailed.Wrap(err)
	}
	return url, nil
}

func reportSlots(reports []model.Report, expected int) []dto.ReportItem {
	byNumber := make(map[int]*model.Report, len(reports))
	for i := range reports {
		byNumber[reports[i].ReportNumber] = &reports[i]
	}

	slots := make([]dto.ReportItem, 0, expected)
	for n := 1; n <= expected; n++ {
		r, ok := byNumber[n]
		if !ok {
			slots = append(slots, dto.ReportItem{ReportNumber: n, Status: "Not submitted"})
			continue
		}
		slots = append(slots, toReportItem(r))
	}
	return slots
}

func toReportItem(r *model.Report) dto.ReportItem {
	return dto.ReportItem{
		ReportID:       r.ReportID,
		ReportNumber:   r.ReportNumber,
		Status:         string(r.Status),
		DocumentURL:    r.DocumentURL,
		SubmissionDate: formatTime(&r.SubmissionDate),
		ApprovalDate:   formatTime(r.ApprovalDate),
	}
}

func toOfferLetterStatus(l *model.OfferLetter) *dto.OfferLetterStatusResponse {
	resp := &dto.OfferLetterStatusResponse{
		OfferLetterID:  l.OfferLetterID,
		Status:         string(l.Status),
		DocumentURL:    l.DocumentURL,
		SubmissionDate: formatTime(&l.SubmissionDate),
		ApprovalDate:   formatTime(l.ApprovalDate),
	}
	if l.Company != nil {
		resp.CompanyName = l.Company.Name
	}
	return resp
}
