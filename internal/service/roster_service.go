package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"internship-tracker/backend/config"
	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/repository"
)

var rosterColumns = map[string][]string{
	"university_id": {"university_id", "id", "student_id", "id_number"},
	"full_name":     {"full_name", "name", "student_name"},
}

// RosterService the eligible-student roster and activated students
type RosterService interface {
	// ImportRoster loads an Excel roster; existing university IDs are skipped
	ImportRoster(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
	List(ctx context.Context, q *dto.ListQuery) ([]dto.RosterEntryResponse, int64, error)
	ListStudents(ctx context.Context, q *dto.ListQuery) ([]dto.StudentResponse, int64, error)
}

type rosterService struct {
	cfg    *config.InternshipConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService creates a RosterService
func NewRosterService(cfg *config.InternshipConfig, repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── ImportRoster ──────────────────────

func (s *rosterService) ImportRoster(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	rows, err := readSheet(r, rosterColumns, "university_id", "full_name")
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Total: len(rows)}
	seen := make(map[string]int, len(rows))
	entries := make([]model.RosterEntry, 0, len(rows))

	for _, row := range rows {
		name := row.Fields["full_name"]
		uid, ok := model.NormalizeUniversityID(row.Fields["university_id"])
		switch {
		case !ok:
			result.Errors = append(result.Errors, dto.ImportRowError{Row: row.Row, Message: "invalid university_id: " + row.Fields["university_id"]})
			continue
		case name == "":
			result.Errors = append(result.Errors, dto.ImportRowError{Row: row.Row, Message: "full_name is required"})
			continue
		}
		if first, dup := seen[uid]; dup {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: row.Row, Message: fmt.Sprintf("duplicate of row %d", first)})
			continue
		}
		seen[uid] = row.Row

		entries = append(entries, model.RosterEntry{
			UniversityID:       uid,
			FullName:           name,
			InstitutionalEmail: model.InstitutionalEmail(name, uid, s.cfg.EmailDomain),
		})
	}

	created, err := s.repo.Roster.BatchCreate(ctx, entries)
	if err != nil {
		s.logger.Error("roster import failed", zap.Int("rows", len(entries)), zap.Error(err))
		return nil, err
	}

	result.Created = int(created)
	result.Skipped = len(entries) - result.Created
	s.logger.Info("roster imported",
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

// ────────────────────── listings ──────────────────────

func (s *rosterService) List(ctx context.Context, q *dto.ListQuery) ([]dto.RosterEntryResponse, int64, error) {
	q.Normalize()
	entries, total, err := s.repo.Roster.List(ctx, q.Offset(), q.PageSize)
	if err != nil {
		s.logger.Error("list roster failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.RosterEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := dto.RosterEntryResponse{
			UniversityID:       e.UniversityID,
			FullName:           e.FullName,
			InstitutionalEmail: e.InstitutionalEmail,
			AdvisorID:          derefStr(e.AssignedAdvisorID),
		}
		if e.AssignedAdvisor != nil {
			item.AdvisorName = e.AssignedAdvisor.FullName()
		}
		list = append(list, item)
	}
	return list, total, nil
}

func (s *rosterService) ListStudents(ctx context.Context, q *dto.ListQuery) ([]dto.StudentResponse, int64, error) {
	q.Normalize()
	students, total, err := s.repo.Student.List(ctx, q.Offset(), q.PageSize)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		st := &students[i]
		item := dto.StudentResponse{
			StudentID:    st.StudentID,
			UniversityID: st.UniversityID,
			FullName:     st.FullName,
			Email:        st.InstitutionalEmail,
			PhoneNumber:  st.PhoneNumber,
			Status:       string(st.Status),
			StartDate:    formatDay(st.StartDate),
			EndDate:      formatDay(st.EndDate),
		}
		if st.AssignedAdvisor != nil {
			item.AdvisorName = st.AssignedAdvisor.FullName()
		}
		list = append(list, item)
	}
	return list, total, nil
}
