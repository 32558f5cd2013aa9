package service

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/notify"
	"internship-tracker/backend/internal/repository"
)

const (
	allocationLockName = "advisor-allocation"
	allocationLockTTL  = 5 * time.Minute
)

// Assignment one roster entry handed to one advisor
type Assignment struct {
	UniversityID string
	AdvisorID    string
}

// AllocationResult assignments made by one run, in order
type AllocationResult struct {
	Assignments []Assignment
}

// AllocationService balances unassigned roster entries across advisors
type AllocationService interface {
	// AssignPending gives every unassigned entry to the least-loaded advisor.
	// Each assignment is persisted as it is made, so a failed run can be resumed.
	AssignPending(ctx context.Context) (*AllocationResult, error)
	// RunScheduledAssignment runs AssignPending for periods whose registration closed
	RunScheduledAssignment(ctx context.Context, now time.Time) error
	// AssignAdvisor admin override for a single student
	AssignAdvisor(ctx context.Context, req *dto.AssignAdvisorRequest) error
}

type allocationService struct {
	repo     *repository.Repository
	locker   Locker
	notifier notify.Dispatcher
	logger   *zap.Logger
}

// NewAllocationService locker may be nil
func NewAllocationService(repo *repository.Repository, locker Locker, notifier notify.Dispatcher, logger *zap.Logger) AllocationService {
	return &allocationService{repo: repo, locker: locker, notifier: notifier, logger: logger}
}

// ── advisor heap ──

// advisorHeap min-heap on (load, first_name, advisor_id)
type advisorHeap []*model.AdvisorLoad

func (h advisorHeap) Len() int { return len(h) }

func (h advisorHeap) Less(i, j int) bool {
	if h[i].Load != h[j].Load {
		return h[i].Load < h[j].Load
	}
	if h[i].FirstName != h[j].FirstName {
		return h[i].FirstName < h[j].FirstName
	}
	return h[i].AdvisorID < h[j].AdvisorID
}

func (h advisorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *advisorHeap) Push(x interface{}) { *h = append(*h, x.(*model.AdvisorLoad)) }

func (h *advisorHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ────────────────────── AssignPending ──────────────────────

func (s *allocationService) AssignPending(ctx context.Context) (*AllocationResult, error) {
	if s.locker != nil {
		release, acquired, err := s.locker.TryLock(ctx, allocationLockName, allocationLockTTL)
		switch {
		case err != nil:
			s.logger.Warn("allocation lock unavailable, running unlocked", zap.Error(err))
		case !acquired:
			return nil, ErrAllocationInProgress
		default:
			defer release()
		}
	}

	advisors, err := s.repo.Advisor.ListWithLoad(ctx)
	if err != nil {
		s.logger.Error("load advisors failed", zap.Error(err))
		return nil, err
	}
	if len(advisors) == 0 {
		return &AllocationResult{}, ErrNoAdvisorsAvailable
	}

	entries, err := s.repo.Roster.ListUnassigned(ctx)
	if err != nil {
		s.logger.Error("load unassigned roster failed", zap.Error(err))
		return nil, err
	}

	h := make(advisorHeap, len(advisors))
	byID := make(map[string]*model.AdvisorLoad, len(advisors))
	for i := range advisors {
		h[i] = &advisors[i]
		byID[advisors[i].AdvisorID] = &advisors[i]
	}
	heap.Init(&h)

	result := &AllocationResult{}
	assigned := make(map[string][]model.RosterEntry)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		top := h[0]
		changed, err := s.assignOne(ctx, entry.UniversityID, top.AdvisorID)
		if err != nil {
			s.logger.Error("persist assignment failed",
				zap.String("university_id", entry.UniversityID),
				zap.String("advisor_id", top.AdvisorID),
				zap.Error(err),
			)
			return result, err
		}
		if !changed {
			// assigned concurrently by an admin override
			continue
		}

		top.Load++
		heap.Fix(&h, 0)

		result.Assignments = append(result.Assignments, Assignment{
			UniversityID: entry.UniversityID,
			AdvisorID:    top.AdvisorID,
		})
		assigned[top.AdvisorID] = append(assigned[top.AdvisorID], entry)
	}

	if len(result.Assignments) > 0 {
		s.logger.Info("advisors assigned",
			zap.Int("assigned", len(result.Assignments)),
			zap.Int("advisors", len(advisors)),
		)
	}

	for advisorID, list := range assigned {
		s.notifyAdvisor(ctx, &byID[advisorID].Advisor, list)
	}

	return result, nil
}

// assignOne roster entry plus activated student, in one transaction
func (s *allocationService) assignOne(ctx context.Context, universityID, advisorID string) (bool, error) {
	var changed bool
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Roster.AssignAdvisorIfUnassigned(ctx, universityID, advisorID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		changed = true
		_, err = tx.Student.SetAdvisorIfUnassigned(ctx, universityID, advisorID)
		return err
	})
	return changed, err
}

// ────────────────────── RunScheduledAssignment ──────────────────────

func (s *allocationService) RunScheduledAssignment(ctx context.Context, now time.Time) error {
	periods, err := s.repo.Period.ListDue(ctx, now)
	if err != nil {
		s.logger.Error("load due periods failed", zap.Error(err))
		return err
	}
	if len(periods) == 0 {
		return nil
	}

	if _, err := s.AssignPending(ctx); err != nil {
		return err
	}

	remaining, err := s.repo.Roster.CountUnassigned(ctx)
	if err != nil {
		s.logger.Error("count unassigned failed", zap.Error(err))
		return err
	}
	if remaining > 0 {
		s.logger.Warn("unassigned roster entries remain", zap.Int64("remaining", remaining))
		return nil
	}

	for _, p := range periods {
		if err := s.repo.Period.MarkAssigned(ctx, p.PeriodID, now); err != nil {
			s.logger.Error("mark period assigned failed", zap.String("period_id", p.PeriodID), zap.Error(err))
			return err
		}
		s.logger.Info("internship period fully assigned", zap.String("period", p.Name))
	}
	return nil
}

// ────────────────────── AssignAdvisor ──────────────────────

func (s *allocationService) AssignAdvisor(ctx context.Context, req *dto.AssignAdvisorRequest) error {
	advisor, err := s.repo.Advisor.GetByID(ctx, req.AdvisorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdvisorNotFound
		}
		s.logger.Error("get advisor failed", zap.Error(err))
		return err
	}

	uid, ok := model.NormalizeUniversityID(req.UniversityID)
	if !ok {
		return ErrNotOnRoster
	}
	entry, err := s.repo.Roster.GetByUniversityID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotOnRoster
		}
		s.logger.Error("get roster entry failed", zap.Error(err))
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Roster.SetAdvisor(ctx, entry.UniversityID, advisor.AdvisorID); err != nil {
			return err
		}
		return tx.Student.SetAdvisor(ctx, entry.UniversityID, advisor.AdvisorID)
	})
	if err != nil {
		s.logger.Error("manual assignment failed", zap.String("university_id", entry.UniversityID), zap.Error(err))
		return err
	}

	s.notifyAdvisor(ctx, advisor, []model.RosterEntry{*entry})
	return nil
}

func (s *allocationService) notifyAdvisor(ctx context.Context, advisor *model.Advisor, entries []model.RosterEntry) {
	if advisor.Email == "" || len(entries) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\nThe following students have been assigned to you for internship supervision:\n\n", advisor.FullName())
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s (%s)\n", e.FullName, e.UniversityID)
	}
	b.WriteString("\nYou can review their offer letters and reports from your dashboard.\n")

	dispatchBestEffort(ctx, s.notifier, s.logger, notify.Email(
		[]string{advisor.Email},
		fmt.Sprintf("%d new internship student(s) assigned", len(entries)),
		b.String(),
	))
}
