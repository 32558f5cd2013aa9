package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/repository"
	apperrors "internship-tracker/backend/pkg/errors"
)

var advisorColumns = map[string][]string{
	"name":       {"name", "full_name"},
	"email":      {"email", "email_address"},
	"first_name": {"first_name", "firstname"},
	"last_name":  {"last_name", "lastname", "surname"},
	"phone":      {"phone", "phone_number"},
}

// AdvisorService advisor self-service and admin management of advisors
type AdvisorService interface {
	Profile(ctx context.Context, actor Actor) (*dto.AdvisorResponse, error)
	UpdateSettings(ctx context.Context, actor Actor, req *dto.AdvisorSettingsRequest) (*dto.AdvisorResponse, error)
	Dashboard(ctx context.Context, actor Actor) (*dto.DashboardResponse, error)
	// StudentDetail accepts the compact id form (UGR102517)
	StudentDetail(ctx context.Context, actor Actor, universityID string) (*dto.StudentDetailResponse, error)
	List(ctx context.Context) ([]dto.AdvisorResponse, error)
	ImportAdvisors(ctx context.Context, r io.Reader) (*dto.AdvisorImportResult, error)
}

type advisorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdvisorService creates an AdvisorService
func NewAdvisorService(repo *repository.Repository, logger *zap.Logger) AdvisorService {
	return &advisorService{repo: repo, logger: logger}
}

// ────────────────────── Profile ──────────────────────

func (s *advisorService) Profile(ctx context.Context, actor Actor) (*dto.AdvisorResponse, error) {
	advisor, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	return toAdvisorResponse(advisor, nil), nil
}

// ────────────────────── UpdateSettings ──────────────────────

func (s *advisorService) UpdateSettings(ctx context.Context, actor Actor, req *dto.AdvisorSettingsRequest) (*dto.AdvisorResponse, error) {
	advisor, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.NumberOfExpectedReports != nil {
		// a smaller N would strand students past their final report
		submitted, err := s.repo.Report.MaxSubmittedByAdvisor(ctx, advisor.AdvisorID)
		if err != nil {
			return nil, s.internal("max submitted reports", err)
		}
		if *req.NumberOfExpectedReports < submitted {
			return nil, ErrExpectedReportsBelowSubmitted.With("max_submitted", submitted)
		}
		advisor.NumberOfExpectedReports = *req.NumberOfExpectedReports
	}
	if req.ReportSubmissionIntervalDays != nil {
		advisor.ReportSubmissionIntervalDays = *req.ReportSubmissionIntervalDays
	}
	if req.PhoneNumber != nil {
		advisor.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}

	if err := s.repo.Advisor.Update(ctx, advisor); err != nil {
		s.logger.Error("update advisor settings failed", zap.String("advisor_id", advisor.AdvisorID), zap.Error(err))
		return nil, err
	}
	return toAdvisorResponse(advisor, nil), nil
}

// ────────────────────── Dashboard ──────────────────────

func (s *advisorService) Dashboard(ctx context.Context, actor Actor) (*dto.DashboardResponse, error) {
	advisor, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	id := advisor.AdvisorID

	assigned, err := s.repo.Roster.CountByAdvisor(ctx, id)
	if err != nil {
		return nil, s.internal("count roster", err)
	}
	pendingOffers, err := s.repo.OfferLetter.CountPendingByAdvisor(ctx, id)
	if err != nil {
		return nil, s.internal("count pending offer letters", err)
	}
	pendingReports, err := s.repo.Report.CountPendingByAdvisor(ctx, id)
	if err != nil {
		return nil, s.internal("count pending reports", err)
	}
	students, err := s.repo.Student.ListByAdvisor(ctx, id)
	if err != nil {
		return nil, s.internal("list students", err)
	}

	resp := &dto.DashboardResponse{
		Stats: dto.DashboardStats{
			AssignedStudents:    assigned,
			PendingOfferLetters: pendingOffers,
			PendingReports:      pendingReports,
		},
		Students: make([]dto.StudentSummary, 0, len(students)),
	}

	for i := range students {
		st := &students[i]
		if st.OTPVerified {
			resp.Stats.ActivatedStudents++
		}
		switch st.Status {
		case model.StudentOngoing:
			resp.Stats.OngoingStudents++
		case model.StudentCompleted:
			resp.Stats.CompletedStudents++
		}

		summary := dto.StudentSummary{
			UniversityID: st.UniversityID,
			FullName:     st.FullName,
			Status:       string(st.Status),
		}
		letter, err := s.repo.OfferLetter.GetLatestByStudent(ctx, st.StudentID)
		switch {
		case err == nil:
			summary.OfferLetterStatus = string(letter.Status)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, s.internal("get offer letter", err)
		}
		reports, err := s.repo.Report.ListByStudent(ctx, st.StudentID)
		if err != nil {
			return nil, s.internal("list reports", err)
		}
		summary.ReportsSubmitted = len(reports)
		resp.Students = append(resp.Students, summary)
	}

	return resp, nil
}

// ────────────────────── StudentDetail ──────────────────────

func (s *advisorService) StudentDetail(ctx context.Context, actor Actor, universityID string) (*dto.StudentDetailResponse, error) {
	uid, ok := model.NormalizeUniversityID(universityID)
	if !ok {
		return nil, ErrStudentNotFound
	}

	student, err := s.repo.Student.GetByUniversityID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, s.internal("get student", err)
	}
	if !actor.canActOn(student) {
		return nil, ErrNotAssignedAdvisor
	}

	resp := &dto.StudentDetailResponse{
		StudentID:          student.StudentID,
		UniversityID:       student.UniversityID,
		FullName:           student.FullName,
		InstitutionalEmail: student.InstitutionalEmail,
		PhoneNumber:        student.PhoneNumber,
		Status:             string(student.Status),
		StartDate:          formatDay(student.StartDate),
		EndDate:            formatDay(student.EndDate),
		History:            []dto.HistoryItem{},
	}
	if student.Department != nil {
		resp.Department = student.Department.Name
	}

	letter, err := s.repo.OfferLetter.GetLatestByStudent(ctx, student.StudentID)
	switch {
	case err == nil:
		resp.OfferLetter = toOfferLetterStatus(letter)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, s.internal("get offer letter", err)
	}

	reports, err := s.repo.Report.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, s.internal("list reports", err)
	}
	expected := len(reports)
	if student.AssignedAdvisor != nil {
		expected = max(expected, student.AssignedAdvisor.ExpectedReports())
	}
	resp.Reports = reportSlots(reports, expected)

	history, err := s.repo.History.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, s.internal("list history", err)
	}
	for i := range history {
		h := &history[i]
		item := dto.HistoryItem{
			Year:      h.Year,
			StartDate: h.StartDate.Format(dateLayout),
			EndDate:   h.EndDate.Format(dateLayout),
		}
		if h.Company != nil {
			item.CompanyName = h.Company.Name
		}
		resp.History = append(resp.History, item)
	}

	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *advisorService) List(ctx context.Context) ([]dto.AdvisorResponse, error) {
	advisors, err := s.repo.Advisor.ListWithLoad(ctx)
	if err != nil {
		return nil, s.internal("list advisors", err)
	}
	result := make([]dto.AdvisorResponse, 0, len(advisors))
	for i := range advisors {
		load := advisors[i].Load
		result = append(result, *toAdvisorResponse(&advisors[i].Advisor, &load))
	}
	return result, nil
}

// ────────────────────── ImportAdvisors ──────────────────────

// ImportAdvisors creates a login per row; the username is the lowercased email
func (s *advisorService) ImportAdvisors(ctx context.Context, r io.Reader) (*dto.AdvisorImportResult, error) {
	rows, err := readSheet(r, advisorColumns, "email")
	if err != nil {
		return nil, err
	}

	result := &dto.AdvisorImportResult{ImportResult: dto.ImportResult{Total: len(rows)}}
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		email := strings.ToLower(row.Fields["email"])
		first, last := row.Fields["first_name"], row.Fields["last_name"]
		if first == "" {
			first, last = splitName(row.Fields["name"])
		}

		switch {
		case email == "" || !strings.Contains(email, "@"):
			result.Errors = append(result.Errors, dto.ImportRowError{Row: row.Row, Message: "a valid email is required"})
			continue
		case first == "":
			result.Errors = append(result.Errors, dto.ImportRowError{Row: row.Row, Message: "name or first_name is required"})
			continue
		case seen[email]:
			result.Skipped++
			continue
		}
		seen[email] = true

		if _, err := s.repo.User.GetByUsername(ctx, email); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.internal("get user", err)
		}

		password, err := generateTempPassword(10)
		if err != nil {
			return nil, s.internal("generate password", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, s.internal("hash password", err)
		}

		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			user := &model.User{
				Username:     email,
				Email:        email,
				PasswordHash: string(hash),
				Role:         model.RoleAdvisor,
				IsActive:     true,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				return err
			}
			return tx.Advisor.Create(ctx, &model.Advisor{
				UserID:                       strPtr(user.UserID),
				FirstName:                    first,
				LastName:                     last,
				Email:                        email,
				PhoneNumber:                  row.Fields["phone"],
				NumberOfExpectedReports:      model.DefaultExpectedReports,
				ReportSubmissionIntervalDays: model.DefaultReportIntervalDays,
			})
		})
		if err != nil {
			if apperrors.IsUniqueViolation(err) {
				result.Skipped++
				continue
			}
			s.logger.Error("advisor import failed", zap.Int("row", row.Row), zap.Error(err))
			return nil, err
		}

		result.Created++
		result.Credentials = append(result.Credentials, dto.AdvisorCredential{
			Username:     email,
			Email:        email,
			TempPassword: password,
		})
	}

	s.logger.Info("advisors imported",
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ── helpers ──

func (s *advisorService) self(ctx context.Context, actor Actor) (*model.Advisor, error) {
	if actor.AdvisorID == "" {
		return nil, ErrNotAnAdvisor
	}
	advisor, err := s.repo.Advisor.GetByID(ctx, actor.AdvisorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAnAdvisor
		}
		return nil, s.internal("get advisor", err)
	}
	return advisor, nil
}

func (s *advisorService) internal(op string, err error) error {
	s.logger.Error(op+" failed", zap.Error(err))
	return err
}

func splitName(full string) (first, last string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func toAdvisorResponse(a *model.Advisor, load *int) *dto.AdvisorResponse {
	return &dto.AdvisorResponse{
		ID:                           a.AdvisorID,
		FirstName:                    a.FirstName,
		LastName:                     a.LastName,
		Email:                        a.Email,
		PhoneNumber:                  a.PhoneNumber,
		NumberOfExpectedReports:      a.ExpectedReports(),
		ReportSubmissionIntervalDays: a.IntervalDays(),
		Load:                         load,
	}
}
