package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
)

const calendarProductID = "-//AAU//Internship Tracker//EN"

// ReportCalendar one all-day event per outstanding report, placed on the
// earliest day it is accepted assuming each earlier report lands on its own
// earliest day.
func (s *submissionService) ReportCalendar(ctx context.Context, telegramID string) ([]byte, error) {
	student, err := s.studentByTelegram(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	advisor := student.AssignedAdvisor
	if advisor == nil {
		return nil, ErrNoAdvisorAssigned
	}

	reports, err := s.repo.Report.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(fmt.Sprintf("Internship reports: %s", student.FullName))

	next, ok := s.nextAllowedDay(student, reports, advisor.IntervalDays())
	if !ok {
		return []byte(cal.Serialize()), nil
	}

	stamp := s.now()
	expected := advisor.ExpectedReports()
	for n := len(reports) + 1; n <= expected; n++ {
		event := cal.AddEvent(fmt.Sprintf("report-%s-%d@internship-tracker", student.StudentID, n))
		event.SetDtStampTime(stamp)
		event.SetSummary(fmt.Sprintf("Internship report #%d of %d opens", n, expected))
		event.SetDescription(fmt.Sprintf("Report #%d can be submitted from this day. Advisor: %s", n, advisor.FullName()))
		event.SetAllDayStartAt(next)
		event.SetAllDayEndAt(next.AddDate(0, 0, 1))
		next = next.AddDate(0, 0, advisor.IntervalDays())
	}

	return []byte(cal.Serialize()), nil
}
