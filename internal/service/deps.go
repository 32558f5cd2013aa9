package service

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/notify"
)

// DocumentStore blob store for uploaded documents
type DocumentStore interface {
	Upload(ctx context.Context, subdir, name string, r io.Reader) (string, error)
}

// Locker short-lived mutual exclusion across processes
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), acquired bool, err error)
}

// TokenBlacklist revoked access tokens
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// RosterLookup read access to the roster
type RosterLookup interface {
	GetByUniversityID(ctx context.Context, universityID string) (*model.RosterEntry, error)
}

// Actor the authenticated caller
type Actor struct {
	UserID    string
	Role      string
	AdvisorID string
}

// IsAdmin superuser
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// canActOn admins act on anyone; advisors only on their own students
func (a Actor) canActOn(student *model.Student) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == model.RoleAdvisor &&
		a.AdvisorID != "" &&
		student.AssignedAdvisorID != nil &&
		*student.AssignedAdvisorID == a.AdvisorID
}

// dispatchBestEffort never fails the caller; failures are logged
func dispatchBestEffort(ctx context.Context, d notify.Dispatcher, logger *zap.Logger, msg notify.Message) {
	if d == nil {
		return
	}
	nonEmpty := false
	for _, r := range msg.Recipients {
		if strings.TrimSpace(r) != "" {
			nonEmpty = true
			break
		}
	}
	if !nonEmpty {
		return
	}
	if err := d.Dispatch(ctx, msg); err != nil {
		logger.Warn("notification not dispatched",
			zap.String("channel", string(msg.Channel)),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
	}
}

// ── calendar days ──
// Calendar days are carried as UTC midnight so DATE columns round-trip unchanged.

// dayOf the calendar day of t in loc
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// asDay the calendar day of a value read from a DATE column
func asDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween whole days from a to b; both must be calendar days
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

const dateLayout = "2006-01-02"

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func strPtr(s string) *string { return &s }

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
