package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/notify"
	"internship-tracker/backend/internal/repository"
)

// ── in-memory database shared by every mock repository ──

type memDB struct {
	seq int

	users       map[string]*model.User
	advisors    map[string]*model.Advisor
	departments map[string]*model.Department
	periods     map[string]*model.InternshipPeriod
	roster      map[string]*model.RosterEntry
	students    map[string]*model.Student
	companies   map[string]*model.Company
	letters     map[string]*model.OfferLetter
	reports     map[string]*model.Report
	otps        map[string]*model.OneTimePasscode
	histories   map[string]*model.InternshipHistory

	// fail injects an error into the named operation, e.g. "Report.Create"
	fail map[string]error
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[string]*model.User),
		advisors:    make(map[string]*model.Advisor),
		departments: make(map[string]*model.Department),
		periods:     make(map[string]*model.InternshipPeriod),
		roster:      make(map[string]*model.RosterEntry),
		students:    make(map[string]*model.Student),
		companies:   make(map[string]*model.Company),
		letters:     make(map[string]*model.OfferLetter),
		reports:     make(map[string]*model.Report),
		otps:        make(map[string]*model.OneTimePasscode),
		histories:   make(map[string]*model.InternshipHistory),
		fail:        make(map[string]error),
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%03d", prefix, db.seq)
}

func (db *memDB) failed(op string) error {
	return db.fail[op]
}

// newMockRepository repository aggregate over db; Transaction runs inline
func newMockRepository(db *memDB) *repository.Repository {
	return &repository.Repository{
		User:        &mockUserRepo{db},
		Advisor:     &mockAdvisorRepo{db},
		Department:  &mockDepartmentRepo{db},
		Period:      &mockPeriodRepo{db},
		Roster:      &mockRosterRepo{db},
		Student:     &mockStudentRepo{db},
		Company:     &mockCompanyRepo{db},
		OfferLetter: &mockOfferLetterRepo{db},
		Report:      &mockReportRepo{db},
		OTP:         &mockOTPRepo{db},
		History:     &mockHistoryRepo{db},
	}
}

// ── seed helpers ──

func (db *memDB) addAdvisor(first string, expected, interval int) *model.Advisor {
	a := &model.Advisor{
		AdvisorID:                    db.nextID("adv"),
		FirstName:                    first,
		LastName:                     "Advisor",
		Email:                        fmt.Sprintf("%s@aau.edu.et", first),
		NumberOfExpectedReports:      expected,
		ReportSubmissionIntervalDays: interval,
	}
	db.advisors[a.AdvisorID] = a
	return a
}

func (db *memDB) addRoster(uid, name string, advisorID *string) *model.RosterEntry {
	e := &model.RosterEntry{
		UniversityID:       uid,
		FullName:           name,
		InstitutionalEmail: model.InstitutionalEmail(name, uid, "aau.edu.et"),
		AssignedAdvisorID:  advisorID,
	}
	db.roster[uid] = e
	return e
}

func (db *memDB) addStudent(uid, name, telegramID string, advisorID *string) *model.Student {
	st := &model.Student{
		StudentID:          db.nextID("stu"),
		UniversityID:       uid,
		FullName:           name,
		InstitutionalEmail: model.InstitutionalEmail(name, uid, "aau.edu.et"),
		PhoneNumber:        "0911000000",
		TelegramID:         strPtr(telegramID),
		Status:             model.StudentPending,
		AssignedAdvisorID:  advisorID,
		OTPVerified:        true,
	}
	db.students[st.StudentID] = st
	return st
}

func (db *memDB) addLetter(studentID string, status model.ApprovalStatus) *model.OfferLetter {
	l := &model.OfferLetter{
		OfferLetterID:  db.nextID("ol"),
		StudentID:      studentID,
		DocumentURL:    "https://files.test/offer.pdf",
		Status:         status,
		SubmissionDate: time.Now(),
	}
	db.letters[l.OfferLetterID] = l
	return l
}

func (db *memDB) studentByUID(uid string) *model.Student {
	for _, s := range db.students {
		if s.UniversityID == uid {
			return s
		}
	}
	return nil
}

func (db *memDB) reportsOf(studentID string) []model.Report {
	var out []model.Report
	for _, r := range db.reports {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportNumber < out[j].ReportNumber })
	return out
}

func (db *memDB) historiesOf(studentID string) []model.InternshipHistory {
	var out []model.InternshipHistory
	for _, h := range db.histories {
		if h.StudentID == studentID {
			out = append(out, *h)
		}
	}
	return out
}

// ── Users ──

type mockUserRepo struct{ db *memDB }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if err := m.db.failed("User.Create"); err != nil {
		return err
	}
	for _, u := range m.db.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = m.db.nextID("usr")
	}
	cp := *user
	m.db.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Advisors ──

type mockAdvisorRepo struct{ db *memDB }

func (m *mockAdvisorRepo) Create(_ context.Context, advisor *model.Advisor) error {
	if advisor.AdvisorID == "" {
		advisor.AdvisorID = m.db.nextID("adv")
	}
	cp := *advisor
	cp.User = nil
	m.db.advisors[advisor.AdvisorID] = &cp
	return nil
}

func (m *mockAdvisorRepo) GetByID(_ context.Context, id string) (*model.Advisor, error) {
	if a, ok := m.db.advisors[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdvisorRepo) GetByUserID(_ context.Context, userID string) (*model.Advisor, error) {
	for _, a := range m.db.advisors {
		if a.UserID != nil && *a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdvisorRepo) Update(_ context.Context, advisor *model.Advisor) error {
	if _, ok := m.db.advisors[advisor.AdvisorID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *advisor
	m.db.advisors[advisor.AdvisorID] = &cp
	return nil
}

func (m *mockAdvisorRepo) List(_ context.Context) ([]model.Advisor, error) {
	out := make([]model.Advisor, 0, len(m.db.advisors))
	for _, a := range m.db.advisors {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdvisorID < out[j].AdvisorID })
	return out, nil
}

func (m *mockAdvisorRepo) ListWithLoad(ctx context.Context) ([]model.AdvisorLoad, error) {
	if err := m.db.failed("Advisor.ListWithLoad"); err != nil {
		return nil, err
	}
	advisors, _ := m.List(ctx)
	out := make([]model.AdvisorLoad, 0, len(advisors))
	for _, a := range advisors {
		load := 0
		for _, e := range m.db.roster {
			if e.AssignedAdvisorID != nil && *e.AssignedAdvisorID == a.AdvisorID {
				load++
			}
		}
		out = append(out, model.AdvisorLoad{Advisor: a, Load: load})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Load != out[j].Load {
			return out[i].Load < out[j].Load
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].AdvisorID < out[j].AdvisorID
	})
	return out, nil
}

// ── Departments ──

type mockDepartmentRepo struct{ db *memDB }

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.db.departments {
		if d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if dept.DepartmentID == "" {
		dept.DepartmentID = m.db.nextID("dept")
	}
	cp := *dept
	m.db.departments[dept.DepartmentID] = &cp
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.db.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetLatest(_ context.Context) (*model.Department, error) {
	var latest *model.Department
	for _, d := range m.db.departments {
		if latest == nil || d.InternshipEnd.After(latest.InternshipEnd) {
			latest = d
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	for id, d := range m.db.departments {
		if id != dept.DepartmentID && d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *dept
	m.db.departments[dept.DepartmentID] = &cp
	return nil
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	out := make([]model.Department, 0, len(m.db.departments))
	for _, d := range m.db.departments {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Internship periods ──

type mockPeriodRepo struct{ db *memDB }

func (m *mockPeriodRepo) Create(_ context.Context, period *model.InternshipPeriod) error {
	if period.PeriodID == "" {
		period.PeriodID = m.db.nextID("per")
	}
	cp := *period
	m.db.periods[period.PeriodID] = &cp
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.InternshipPeriod, error) {
	if p, ok := m.db.periods[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.InternshipPeriod) error {
	cp := *period
	m.db.periods[period.PeriodID] = &cp
	return nil
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.InternshipPeriod, error) {
	out := make([]model.InternshipPeriod, 0, len(m.db.periods))
	for _, p := range m.db.periods {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationStart.After(out[j].RegistrationStart) })
	return out, nil
}

func (m *mockPeriodRepo) ListDue(_ context.Context, now time.Time) ([]model.InternshipPeriod, error) {
	var out []model.InternshipPeriod
	for _, p := range m.db.periods {
		if !p.AdvisorsAssigned && !p.RegistrationEnd.After(now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPeriodRepo) MarkAssigned(_ context.Context, id string, at time.Time) error {
	p, ok := m.db.periods[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.AdvisorsAssigned = true
	p.AssignedAt = &at
	return nil
}

// ── Roster ──

type mockRosterRepo struct{ db *memDB }

func (m *mockRosterRepo) Create(_ context.Context, entry *model.RosterEntry) error {
	if _, ok := m.db.roster[entry.UniversityID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *entry
	m.db.roster[entry.UniversityID] = &cp
	return nil
}

func (m *mockRosterRepo) BatchCreate(_ context.Context, entries []model.RosterEntry) (int64, error) {
	var n int64
	for _, e := range entries {
		if _, ok := m.db.roster[e.UniversityID]; ok {
			continue
		}
		cp := e
		m.db.roster[e.UniversityID] = &cp
		n++
	}
	return n, nil
}

func (m *mockRosterRepo) GetByUniversityID(_ context.Context, universityID string) (*model.RosterEntry, error) {
	e, ok := m.db.roster[universityID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	if cp.AssignedAdvisorID != nil {
		if a, ok := m.db.advisors[*cp.AssignedAdvisorID]; ok {
			ac := *a
			cp.AssignedAdvisor = &ac
		}
	}
	return &cp, nil
}

func (m *mockRosterRepo) ListUnassigned(_ context.Context) ([]model.RosterEntry, error) {
	var out []model.RosterEntry
	for _, e := range m.db.roster {
		if e.AssignedAdvisorID == nil {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *mockRosterRepo) AssignAdvisorIfUnassigned(_ context.Context, universityID, advisorID string) (bool, error) {
	if err := m.db.failed("Roster.AssignAdvisorIfUnassigned"); err != nil {
		return false, err
	}
	e, ok := m.db.roster[universityID]
	if !ok || e.AssignedAdvisorID != nil {
		return false, nil
	}
	e.AssignedAdvisorID = strPtr(advisorID)
	return true, nil
}

func (m *mockRosterRepo) SetAdvisor(_ context.Context, universityID, advisorID string) error {
	e, ok := m.db.roster[universityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.AssignedAdvisorID = strPtr(advisorID)
	return nil
}

func (m *mockRosterRepo) CountByAdvisor(_ context.Context, advisorID string) (int64, error) {
	var n int64
	for _, e := range m.db.roster {
		if e.AssignedAdvisorID != nil && *e.AssignedAdvisorID == advisorID {
			n++
		}
	}
	return n, nil
}

func (m *mockRosterRepo) CountUnassigned(_ context.Context) (int64, error) {
	var n int64
	for _, e := range m.db.roster {
		if e.AssignedAdvisorID == nil {
			n++
		}
	}
	return n, nil
}

func (m *mockRosterRepo) List(_ context.Context, offset, limit int) ([]model.RosterEntry, int64, error) {
	all := make([]model.RosterEntry, 0, len(m.db.roster))
	for _, e := range m.db.roster {
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullName < all[j].FullName })
	return page(all, offset, limit), int64(len(all)), nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := min(offset+limit, len(all))
	return all[offset:end]
}

// ── Students ──

type mockStudentRepo struct{ db *memDB }

func (m *mockStudentRepo) checkUnique(student *model.Student) error {
	for id, s := range m.db.students {
		if id == student.StudentID {
			continue
		}
		if s.UniversityID == student.UniversityID {
			return gorm.ErrDuplicatedKey
		}
		if s.TelegramID != nil && student.TelegramID != nil && *s.TelegramID == *student.TelegramID {
			return gorm.ErrDuplicatedKey
		}
	}
	return nil
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if err := m.checkUnique(student); err != nil {
		return err
	}
	if student.StudentID == "" {
		student.StudentID = m.db.nextID("stu")
	}
	cp := *student
	cp.AssignedAdvisor, cp.Department = nil, nil
	m.db.students[student.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	if err := m.db.failed("Student.Update"); err != nil {
		return err
	}
	if err := m.checkUnique(student); err != nil {
		return err
	}
	cp := *student
	cp.AssignedAdvisor, cp.Department = nil, nil
	m.db.students[student.StudentID] = &cp
	return nil
}

// load copy with associations preloaded
func (m *mockStudentRepo) load(s *model.Student) *model.Student {
	cp := *s
	if cp.AssignedAdvisorID != nil {
		if a, ok := m.db.advisors[*cp.AssignedAdvisorID]; ok {
			ac := *a
			cp.AssignedAdvisor = &ac
		}
	}
	if cp.DepartmentID != nil {
		if d, ok := m.db.departments[*cp.DepartmentID]; ok {
			dc := *d
			cp.Department = &dc
		}
	}
	return &cp
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.db.students[id]; ok {
		return m.load(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.db.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUniversityID(_ context.Context, universityID string) (*model.Student, error) {
	if s := m.db.studentByUID(universityID); s != nil {
		return m.load(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByTelegramID(_ context.Context, telegramID string) (*model.Student, error) {
	for _, s := range m.db.students {
		if s.TelegramID != nil && *s.TelegramID == telegramID {
			return m.load(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) SetAdvisorIfUnassigned(_ context.Context, universityID, advisorID string) (bool, error) {
	s := m.db.studentByUID(universityID)
	if s == nil || s.AssignedAdvisorID != nil {
		return false, nil
	}
	s.AssignedAdvisorID = strPtr(advisorID)
	return true, nil
}

func (m *mockStudentRepo) SetAdvisor(_ context.Context, universityID, advisorID string) error {
	if s := m.db.studentByUID(universityID); s != nil {
		s.AssignedAdvisorID = strPtr(advisorID)
	}
	return nil
}

func (m *mockStudentRepo) ListByAdvisor(_ context.Context, advisorID string) ([]model.Student, error) {
	var out []model.Student
	for _, s := range m.db.students {
		if s.AssignedAdvisorID != nil && *s.AssignedAdvisorID == advisorID {
			out = append(out, *m.load(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *mockStudentRepo) List(_ context.Context, offset, limit int) ([]model.Student, int64, error) {
	all := make([]model.Student, 0, len(m.db.students))
	for _, s := range m.db.students {
		all = append(all, *m.load(s))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UniversityID < all[j].UniversityID })
	return page(all, offset, limit), int64(len(all)), nil
}

// ── Companies ──

type mockCompanyRepo struct{ db *memDB }

func (m *mockCompanyRepo) FindOrCreate(_ context.Context, name string) (*model.Company, error) {
	for _, c := range m.db.companies {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	c := &model.Company{CompanyID: m.db.nextID("co"), Name: name}
	m.db.companies[c.CompanyID] = c
	cp := *c
	return &cp, nil
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id string) (*model.Company, error) {
	if c, ok := m.db.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Offer letters ──

type mockOfferLetterRepo struct{ db *memDB }

func (m *mockOfferLetterRepo) Create(_ context.Context, letter *model.OfferLetter) error {
	if err := m.db.failed("OfferLetter.Create"); err != nil {
		return err
	}
	for _, l := range m.db.letters {
		if l.StudentID == letter.StudentID && l.Status != model.ApprovalRejected && letter.Status != model.ApprovalRejected {
			return gorm.ErrDuplicatedKey
		}
	}
	if letter.OfferLetterID == "" {
		letter.OfferLetterID = m.db.nextID("ol")
	}
	cp := *letter
	cp.Student, cp.Company = nil, nil
	m.db.letters[letter.OfferLetterID] = &cp
	return nil
}

func (m *mockOfferLetterRepo) Update(_ context.Context, letter *model.OfferLetter) error {
	cp := *letter
	cp.Student, cp.Company = nil, nil
	m.db.letters[letter.OfferLetterID] = &cp
	return nil
}

func (m *mockOfferLetterRepo) withCompany(l *model.OfferLetter) *model.OfferLetter {
	cp := *l
	if cp.CompanyID != nil {
		if c, ok := m.db.companies[*cp.CompanyID]; ok {
			cc := *c
			cp.Company = &cc
		}
	}
	return &cp
}

func (m *mockOfferLetterRepo) GetActiveByStudent(_ context.Context, studentID string) (*model.OfferLetter, error) {
	for _, l := range m.db.letters {
		if l.StudentID == studentID && l.Status != model.ApprovalRejected {
			return m.withCompany(l), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfferLetterRepo) GetLatestByStudent(_ context.Context, studentID string) (*model.OfferLetter, error) {
	var latest *model.OfferLetter
	for _, l := range m.db.letters {
		if l.StudentID != studentID {
			continue
		}
		if latest == nil || l.SubmissionDate.After(latest.SubmissionDate) ||
			(l.SubmissionDate.Equal(latest.SubmissionDate) && l.OfferLetterID > latest.OfferLetterID) {
			latest = l
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withCompany(latest), nil
}

func (m *mockOfferLetterRepo) CountPendingByAdvisor(_ context.Context, advisorID string) (int64, error) {
	var n int64
	for _, l := range m.db.letters {
		s, ok := m.db.students[l.StudentID]
		if ok && l.Status == model.ApprovalPending && s.AssignedAdvisorID != nil && *s.AssignedAdvisorID == advisorID {
			n++
		}
	}
	return n, nil
}

// ── Reports ──

type mockReportRepo struct{ db *memDB }

func (m *mockReportRepo) Create(_ context.Context, report *model.Report) error {
	if err := m.db.failed("Report.Create"); err != nil {
		return err
	}
	for _, r := range m.db.reports {
		if r.StudentID == report.StudentID && r.ReportNumber == report.ReportNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if report.ReportID == "" {
		report.ReportID = m.db.nextID("rep")
	}
	cp := *report
	cp.Student = nil
	m.db.reports[report.ReportID] = &cp
	return nil
}

func (m *mockReportRepo) Update(_ context.Context, report *model.Report) error {
	cp := *report
	cp.Student = nil
	m.db.reports[report.ReportID] = &cp
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id string) (*model.Report, error) {
	r, ok := m.db.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	if s, ok := m.db.students[cp.StudentID]; ok {
		sc := *s
		cp.Student = &sc
	}
	return &cp, nil
}

func (m *mockReportRepo) ListByStudent(_ context.Context, studentID string) ([]model.Report, error) {
	return m.db.reportsOf(studentID), nil
}

func (m *mockReportRepo) CountPendingByAdvisor(_ context.Context, advisorID string) (int64, error) {
	var n int64
	for _, r := range m.db.reports {
		s, ok := m.db.students[r.StudentID]
		if ok && r.Status == model.ApprovalPending && s.AssignedAdvisorID != nil && *s.AssignedAdvisorID == advisorID {
			n++
		}
	}
	return n, nil
}

func (m *mockReportRepo) MaxSubmittedByAdvisor(_ context.Context, advisorID string) (int, error) {
	n := 0
	for _, r := range m.db.reports {
		s, ok := m.db.students[r.StudentID]
		if ok && s.AssignedAdvisorID != nil && *s.AssignedAdvisorID == advisorID && r.ReportNumber > n {
			n = r.ReportNumber
		}
	}
	return n, nil
}

// ── One-time passcodes ──

type mockOTPRepo struct{ db *memDB }

func (m *mockOTPRepo) Upsert(_ context.Context, otp *model.OneTimePasscode) error {
	cp := *otp
	m.db.otps[otp.UniversityID] = &cp
	return nil
}

func (m *mockOTPRepo) GetForUpdate(_ context.Context, universityID string) (*model.OneTimePasscode, error) {
	if o, ok := m.db.otps[universityID]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOTPRepo) Update(_ context.Context, otp *model.OneTimePasscode) error {
	o, ok := m.db.otps[otp.UniversityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.AttemptCount = otp.AttemptCount
	o.LockedUntil = otp.LockedUntil
	return nil
}

func (m *mockOTPRepo) Delete(_ context.Context, universityID string) error {
	delete(m.db.otps, universityID)
	return nil
}

// ── Internship history ──

type mockHistoryRepo struct{ db *memDB }

func (m *mockHistoryRepo) Create(_ context.Context, history *model.InternshipHistory) error {
	if history.HistoryID == "" {
		history.HistoryID = m.db.nextID("his")
	}
	cp := *history
	m.db.histories[history.HistoryID] = &cp
	return nil
}

func (m *mockHistoryRepo) ListByStudent(_ context.Context, studentID string) ([]model.InternshipHistory, error) {
	out := m.db.historiesOf(studentID)
	for i := range out {
		if out[i].CompanyID != nil {
			if c, ok := m.db.companies[*out[i].CompanyID]; ok {
				cc := *c
				out[i].Company = &cc
			}
		}
	}
	return out, nil
}

// ── infrastructure fakes ──

// recordingDispatcher keeps every dispatched message; err fails every call
type recordingDispatcher struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, msg notify.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, msg)
	return nil
}

func (d *recordingDispatcher) byChannel(ch notify.Channel) []notify.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notify.Message
	for _, m := range d.messages {
		if m.Channel == ch {
			out = append(out, m)
		}
	}
	return out
}

// fakeStore records uploads; err fails every upload
type fakeStore struct {
	uploads []string
	err     error
}

func (s *fakeStore) Upload(_ context.Context, subdir, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := "https://files.test/" + subdir + "/" + name
	s.uploads = append(s.uploads, url)
	return url, nil
}

// fakeLocker single in-process lock
type fakeLocker struct {
	held bool
	err  error
}

func (l *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() { l.held = false }, true, nil
}

// fakeBlacklist remembers revoked token ids
type fakeBlacklist struct {
	revoked map[string]time.Duration
}

func (b *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if b.revoked == nil {
		b.revoked = make(map[string]time.Duration)
	}
	b.revoked[jti] = ttl
	return nil
}

// fixedClock returns a settable clock
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }
