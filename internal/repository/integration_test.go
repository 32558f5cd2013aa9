//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/repository"
	"internship-tracker/backend/pkg/database"
	pkgerrors "internship-tracker/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=internship_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	// same schema as production, constraints included
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// uniq short suffix so parallel runs don't collide on unique columns
func uniq() string {
	return fmt.Sprintf("%04d", time.Now().UnixNano()%10000)
}

func seedAdvisor(t *testing.T, first string) *model.Advisor {
	t.Helper()
	a := &model.Advisor{
		FirstName:                    first,
		LastName:                     "Advisor",
		Email:                        fmt.Sprintf("%s.%d@aau.edu.et", first, time.Now().UnixNano()),
		NumberOfExpectedReports:      4,
		ReportSubmissionIntervalDays: 15,
	}
	if err := testDB.Create(a).Error; err != nil {
		t.Fatalf("create advisor: %v", err)
	}
	t.Cleanup(func() {
		testDB.Model(&model.RosterEntry{}).Where("assigned_advisor_id = ?", a.AdvisorID).Update("assigned_advisor_id", nil)
		testDB.Where("advisor_id = ?", a.AdvisorID).Delete(&model.Advisor{})
	})
	return a
}

func seedRoster(t *testing.T, universityID, name string) *model.RosterEntry {
	t.Helper()
	e := &model.RosterEntry{
		UniversityID:       universityID,
		FullName:           name,
		InstitutionalEmail: model.InstitutionalEmail(name, universityID, "aau.edu.et"),
	}
	if err := testDB.Create(e).Error; err != nil {
		t.Fatalf("create roster entry: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("university_id = ?", universityID).Delete(&model.RosterEntry{})
	})
	return e
}

func seedStudent(t *testing.T, universityID, telegramID string) *model.Student {
	t.Helper()
	tg := telegramID
	s := &model.Student{
		UniversityID:       universityID,
		FullName:           "Abel Tesfaye",
		InstitutionalEmail: model.InstitutionalEmail("Abel Tesfaye", universityID, "aau.edu.et"),
		PhoneNumber:        "+251911000000",
		TelegramID:         &tg,
		Status:             model.StudentPending,
		OTPVerified:        true,
	}
	if err := testDB.Create(s).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("student_id = ?", s.StudentID).Delete(&model.Report{})
		testDB.Where("student_id = ?", s.StudentID).Delete(&model.Student{})
	})
	return s
}

// ═══════════════════════════════════════════════════════════
// Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	id := "TXR/" + uniq() + "/26"
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Roster.Create(ctx, &model.RosterEntry{
			UniversityID:       id,
			FullName:           "Rolled Back",
			InstitutionalEmail: model.InstitutionalEmail("Rolled", id, "aau.edu.et"),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := repo.Roster.GetByUniversityID(ctx, id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("entry should have been rolled back, got err=%v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Allocation primitives
// ═══════════════════════════════════════════════════════════

func TestRoster_AssignAdvisorIfUnassigned(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	a1 := seedAdvisor(t, "Alem")
	a2 := seedAdvisor(t, "Bekele")
	entry := seedRoster(t, "ASG/"+uniq()+"/26", "Assign Me")

	ok, err := repo.Roster.AssignAdvisorIfUnassigned(ctx, entry.UniversityID, a1.AdvisorID)
	if err != nil || !ok {
		t.Fatalf("first assign: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Roster.AssignAdvisorIfUnassigned(ctx, entry.UniversityID, a2.AdvisorID)
	if err != nil || ok {
		t.Fatalf("second assign must not overwrite: ok=%v err=%v", ok, err)
	}

	got, err := repo.Roster.GetByUniversityID(ctx, entry.UniversityID)
	if err != nil {
		t.Fatal(err)
	}
	if got.AssignedAdvisorID == nil || *got.AssignedAdvisorID != a1.AdvisorID {
		t.Errorf("assigned advisor = %v, want %s", got.AssignedAdvisorID, a1.AdvisorID)
	}
}

func TestAdvisor_ListWithLoad(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	busy := seedAdvisor(t, "Busy")
	idle := seedAdvisor(t, "Idle")

	for i := 0; i < 2; i++ {
		e := seedRoster(t, fmt.Sprintf("LD%d/%s/26", i, uniq()), fmt.Sprintf("Load %d", i))
		if _, err := repo.Roster.AssignAdvisorIfUnassigned(ctx, e.UniversityID, busy.AdvisorID); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := repo.Advisor.ListWithLoad(ctx)
	if err != nil {
		t.Fatal(err)
	}
	loads := map[string]int{}
	idleIdx, busyIdx := -1, -1
	for i, r := range rows {
		loads[r.AdvisorID] = r.Load
		switch r.AdvisorID {
		case idle.AdvisorID:
			idleIdx = i
		case busy.AdvisorID:
			busyIdx = i
		}
	}
	if loads[busy.AdvisorID] != 2 || loads[idle.AdvisorID] != 0 {
		t.Errorf("loads = busy:%d idle:%d", loads[busy.AdvisorID], loads[idle.AdvisorID])
	}
	if idleIdx < 0 || busyIdx < 0 || idleIdx > busyIdx {
		t.Errorf("expected idle advisor ordered before busy one: idle=%d busy=%d", idleIdx, busyIdx)
	}
}

func TestPeriod_ListDueAndMarkAssigned(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p := &model.InternshipPeriod{
		Name:              "Due " + uniq(),
		RegistrationStart: now.AddDate(0, -1, 0),
		RegistrationEnd:   now.Add(-time.Hour),
	}
	if err := repo.Period.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { testDB.Where("period_id = ?", p.PeriodID).Delete(&model.InternshipPeriod{}) })

	due, err := repo.Period.ListDue(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if !containsPeriod(due, p.PeriodID) {
		t.Fatal("closed period should be due")
	}

	if err := repo.Period.MarkAssigned(ctx, p.PeriodID, now); err != nil {
		t.Fatal(err)
	}
	due, err = repo.Period.ListDue(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if containsPeriod(due, p.PeriodID) {
		t.Error("assigned period must not be due again")
	}
}

func containsPeriod(ps []model.InternshipPeriod, id string) bool {
	for _, p := range ps {
		if p.PeriodID == id {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════
// Uniqueness guards
// ═══════════════════════════════════════════════════════════

func TestReport_UniquePerStudentAndNumber(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	s := seedStudent(t, "RPT/"+uniq()+"/26", "77"+uniq())

	first := &model.Report{StudentID: s.StudentID, ReportNumber: 1, DocumentURL: "https://cdn/r1.pdf", Status: model.ApprovalPending, SubmissionDate: time.Now()}
	if err := repo.Report.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	dup := &model.Report{StudentID: s.StudentID, ReportNumber: 1, DocumentURL: "https://cdn/r1b.pdf", Status: model.ApprovalPending, SubmissionDate: time.Now()}
	err := repo.Report.Create(ctx, dup)
	if !pkgerrors.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestStudent_TelegramIDUnique(t *testing.T) {
	tg := "88" + uniq()
	seedStudent(t, "TGA/"+uniq()+"/26", tg)

	repo := repository.NewRepository(testDB)
	other := tg
	err := repo.Student.Create(context.Background(), &model.Student{
		UniversityID:       "TGB/" + uniq() + "/26",
		FullName:           "Other Student",
		InstitutionalEmail: fmt.Sprintf("other.%d@aau.edu.et", time.Now().UnixNano()),
		PhoneNumber:        "+251911000001",
		TelegramID:         &other,
		Status:             model.StudentPending,
	})
	if !pkgerrors.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// OTP
// ═══════════════════════════════════════════════════════════

func TestOTP_UpsertResetsAttempts(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	id := "OTP/" + uniq() + "/26"
	t.Cleanup(func() { _ = repo.OTP.Delete(ctx, id) })

	locked := time.Now().Add(time.Hour)
	if err := repo.OTP.Upsert(ctx, &model.OneTimePasscode{
		UniversityID: id, OTPCode: "111111", CreatedAt: time.Now(), AttemptCount: 4, LockedUntil: &locked,
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.OTP.Upsert(ctx, &model.OneTimePasscode{
		UniversityID: id, OTPCode: "222222", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	var got *model.OneTimePasscode
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		got, err = tx.OTP.GetForUpdate(ctx, id)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.OTPCode != "222222" || got.AttemptCount != 0 || got.LockedUntil != nil {
		t.Errorf("otp = %+v", got)
	}
}
