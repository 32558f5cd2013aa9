package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
)

func setupTestAdvisorService() (AdvisorService, *memDB) {
	db := newMemDB()
	return NewAdvisorService(newMockRepository(db), zap.NewNop()), db
}

func advisorActor(a *model.Advisor) Actor {
	return Actor{UserID: "u-" + a.AdvisorID, Role: model.RoleAdvisor, AdvisorID: a.AdvisorID}
}

func intPtr(n int) *int { return &n }

func TestAdvisorProfile_NotAnAdvisor(t *testing.T) {
	svc, _ := setupTestAdvisorService()

	if _, err := svc.Profile(context.Background(), Actor{UserID: "root", Role: model.RoleAdmin}); !errors.Is(err, ErrNotAnAdvisor) {
		t.Errorf("expected ErrNotAnAdvisor, got %v", err)
	}
	if _, err := svc.Profile(context.Background(), Actor{UserID: "x", Role: model.RoleAdvisor, AdvisorID: "gone"}); !errors.Is(err, ErrNotAnAdvisor) {
		t.Errorf("expected ErrNotAnAdvisor for a missing profile, got %v", err)
	}
}

func TestUpdateSettings_PartialUpdate(t *testing.T) {
	svc, db := setupTestAdvisorService()
	adv := db.addAdvisor("Alem", 4, 15)

	resp, err := svc.UpdateSettings(context.Background(), advisorActor(adv), &dto.AdvisorSettingsRequest{
		NumberOfExpectedReports: intPtr(6),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.NumberOfExpectedReports != 6 || resp.ReportSubmissionIntervalDays != 15 {
		t.Errorf("unexpected response %+v", resp)
	}
	if got := db.advisors[adv.AdvisorID]; got.NumberOfExpectedReports != 6 || got.ReportSubmissionIntervalDays != 15 {
		t.Errorf("expected only the report count changed, got %+v", got)
	}
}

func TestUpdateSettings_ExpectedReportsBelowSubmitted(t *testing.T) {
	svc, db := setupTestAdvisorService()
	adv := db.addAdvisor("Alem", 3, 15)
	st := db.addStudent("UGR/1025/17", "Abel Tesfaye", "5550001", strPtr(adv.AdvisorID))
	st.Status = model.StudentOngoing
	for i := 1; i <= 2; i++ {
		id := fmt.Sprintf("r%d", i)
		db.reports[id] = &model.Report{ReportID: id, StudentID: st.StudentID, ReportNumber: i, Status: model.ApprovalApproved}
	}

	_, err := svc.UpdateSettings(context.Background(), advisorActor(adv), &dto.AdvisorSettingsRequest{
		NumberOfExpectedReports: intPtr(1),
	})
	if !errors.Is(err, ErrExpectedReportsBelowSubmitted) {
		t.Fatalf("expected ErrExpectedReportsBelowSubmitted, got %v", err)
	}
	if got := db.advisors[adv.AdvisorID].NumberOfExpectedReports; got != 3 {
		t.Errorf("expected report count unchanged at 3, got %d", got)
	}

	// equal to the submitted count is allowed
	resp, err := svc.UpdateSettings(context.Background(), advisorActor(adv), &dto.AdvisorSettingsRequest{
		NumberOfExpectedReports: intPtr(2),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.NumberOfExpectedReports != 2 {
		t.Errorf("expected 2, got %d", resp.NumberOfExpectedReports)
	}
}

func TestDashboard(t *testing.T) {
	svc, db := setupTestAdvisorService()
	adv := db.addAdvisor("Alem", 4, 15)
	other := db.addAdvisor("Bekele", 4, 15)

	db.addRoster("UGR/1025/17", "Abel Tesfaye", strPtr(adv.AdvisorID))
	db.addRoster("UGR/1026/17", "Hana Bekele", strPtr(adv.AdvisorID))
	db.addRoster("UGR/1027/17", "Someone Else", strPtr(other.AdvisorID))

	abel := db.addStudent("UGR/1025/17", "Abel Tesfaye", "5550001", strPtr(adv.AdvisorID))
	abel.Status = model.StudentOngoing
	db.addLetter(abel.StudentID, model.ApprovalApproved)
	db.reports["r1"] = &model.Report{ReportID: "r1", StudentID: abel.StudentID, ReportNumber: 1, Status: model.ApprovalPending}

	hana := db.addStudent("UGR/1026/17", "Hana Bekele", "5550002", strPtr(adv.AdvisorID))
	db.addLetter(hana.StudentID, model.ApprovalPending)

	resp, err := svc.Dashboard(context.Background(), advisorActor(adv))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := dto.DashboardStats{
		AssignedStudents:    2,
		ActivatedStudents:   2,
		OngoingStudents:     1,
		PendingOfferLetters: 1,
		PendingReports:      1,
	}
	if resp.Stats != want {
		t.Errorf("expected %+v, got %+v", want, resp.Stats)
	}
	if len(resp.Students) != 2 || resp.Students[0].ReportsSubmitted != 1 || resp.Students[1].OfferLetterStatus != "Pending" {
		t.Errorf("unexpected rows %+v", resp.Students)
	}
}

func TestStudentDetail(t *testing.T) {
	svc, db := setupTestAdvisorService()
	adv := db.addAdvisor("Alem", 3, 15)
	st := db.addStudent("UGR/1025/17", "Abel Tesfaye", "5550001", strPtr(adv.AdvisorID))
	db.addLetter(st.StudentID, model.ApprovalApproved)
	db.reports["r1"] = &model.Report{
		ReportID: "r1", StudentID: st.StudentID, ReportNumber: 1,
		Status: model.ApprovalApproved, SubmissionDate: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	resp, err := svc.StudentDetail(context.Background(), advisorActor(adv), "UGR102517")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.OfferLetter == nil || resp.OfferLetter.Status != "Approved" {
		t.Errorf("expected offer letter status, got %+v", resp.OfferLetter)
	}
	if len(resp.Reports) != 3 || resp.Reports[0].Status != "Approved" || resp.Reports[2].Status != "Not submitted" {
		t.Errorf("expected one slot per expected report, got %+v", resp.Reports)
	}
	if resp.History == nil {
		t.Error("expected an empty history list, not nil")
	}
}

func TestStudentDetail_OtherAdvisor(t *testing.T) {
	svc, db := setupTestAdvisorService()
	adv := db.addAdvisor("Alem", 4, 15)
	other := db.addAdvisor("Bekele", 4, 15)
	db.addStudent("UGR/1025/17", "Abel Tesfaye", "5550001", strPtr(adv.AdvisorID))

	if _, err := svc.StudentDetail(context.Background(), advisorActor(other), "UGR/1025/17"); !errors.Is(err, ErrNotAssignedAdvisor) {
		t.Errorf("expected ErrNotAssignedAdvisor, got %v", err)
	}
	if _, err := svc.StudentDetail(context.Background(), advisorActor(adv), "UGR/9999/17"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestAdvisorList_WithLoad(t *testing.T) {
	svc, db := setupTestAdvisorService()
	adv := db.addAdvisor("Alem", 4, 15)
	db.addAdvisor("Bekele", 4, 15)
	db.addRoster("UGR/1025/17", "Abel Tesfaye", strPtr(adv.AdvisorID))

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 2 || list[0].FirstName != "Bekele" || *list[0].Load != 0 || *list[1].Load != 1 {
		t.Errorf("expected advisors ordered by load, got %+v", list)
	}
}

func TestImportAdvisors(t *testing.T) {
	svc, db := setupTestAdvisorService()
	db.users["u-0"] = &model.User{UserID: "u-0", Username: "existing@aau.edu.et", Role: model.RoleAdvisor}

	buf := buildSheet(t,
		[]interface{}{"Name", "Email", "Phone"},
		[]interface{}{"Alem Kebede", "Alem.Kebede@aau.edu.et", "0911000001"},
		[]interface{}{"Existing Person", "existing@aau.edu.et", ""},
		[]interface{}{"No Email", "", ""},
		[]interface{}{"Alem Again", "alem.kebede@aau.edu.et", ""},
	)

	result, err := svc.ImportAdvisors(context.Background(), buf)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Total != 4 || result.Created != 1 || result.Skipped != 2 || len(result.Errors) != 1 {
		t.Fatalf("unexpected result %+v", result.ImportResult)
	}
	if len(result.Credentials) != 1 || result.Credentials[0].Username != "alem.kebede@aau.edu.et" || result.Credentials[0].TempPassword == "" {
		t.Errorf("unexpected credentials %+v", result.Credentials)
	}

	var created *model.Advisor
	for _, a := range db.advisors {
		created = a
	}
	if created == nil || created.FirstName != "Alem" || created.LastName != "Kebede" || created.PhoneNumber != "0911000001" {
		t.Errorf("unexpected advisor %+v", created)
	}
}
