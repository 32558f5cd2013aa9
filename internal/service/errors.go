package service

import (
	apperrors "internship-tracker/backend/pkg/errors"
)

// ── registration ──

var (
	ErrNotOnRoster               = apperrors.NotFound("NOT_ON_ROSTER", "University ID not found in roster")
	ErrOTPNotFound               = apperrors.NotFound("OTP_NOT_FOUND", "No OTP found for this university ID; request a new one")
	ErrOTPExpired                = apperrors.NotFound("OTP_EXPIRED", "OTP has expired; request a new one")
	ErrOTPInvalid                = apperrors.Validation("OTP_INVALID", "Invalid OTP")
	ErrOTPLocked                 = apperrors.Locked("OTP_LOCKED", "Too many failed attempts; try again later")
	ErrOTPDelivery               = apperrors.Upstream("OTP_DELIVERY_FAILED", "Could not send the OTP email; try again later")
	ErrTelegramIDTaken           = apperrors.Conflict("TELEGRAM_ID_TAKEN", "This Telegram account is already linked to another student")
	ErrInvalidDepartmentCalendar = apperrors.Validation("INVALID_DEPARTMENT_CALENDAR", "Department internship start date must be before its end date")
)

// ── submission ──

var (
	ErrStudentNotFound        = apperrors.NotFound("STUDENT_NOT_FOUND", "Student not found")
	ErrStudentNotVerified     = apperrors.Authorization("STUDENT_NOT_VERIFIED", "Complete OTP registration before submitting documents")
	ErrNoAdvisorAssigned      = apperrors.Validation("NO_ADVISOR_ASSIGNED", "No advisor has been assigned to you yet")
	ErrOfferAlreadyApproved   = apperrors.Conflict("OFFER_ALREADY_APPROVED", "An approved offer letter already exists")
	ErrOfferAlreadySubmitted  = apperrors.Conflict("OFFER_ALREADY_SUBMITTED", "An offer letter is already awaiting review")
	ErrOfferNotApproved       = apperrors.Conflict("OFFER_NOT_APPROVED", "Your offer letter must be approved before submitting reports")
	ErrReportAlreadySubmitted = apperrors.Conflict("REPORT_ALREADY_SUBMITTED", "This report has already been submitted")
	ErrReportOutOfOrder       = apperrors.Conflict("REPORT_OUT_OF_ORDER", "Reports must be submitted in order")
	ErrReportTooSoon          = apperrors.Conflict("REPORT_TOO_SOON", "It is too soon to submit the next report")
	ErrInternshipNotStarted   = apperrors.Conflict("INTERNSHIP_NOT_STARTED", "Your internship has not started yet")
	ErrReportNumberRange      = apperrors.Validation("REPORT_NUMBER_OUT_OF_RANGE", "Report number is out of range")
	ErrDocumentRequired       = apperrors.Validation("DOCUMENT_REQUIRED", "A document file is required")
	ErrDocumentTooLarge       = apperrors.Validation("DOCUMENT_TOO_LARGE", "Document exceeds the maximum upload size")
	ErrUploadFailed           = apperrors.Upstream("UPLOAD_FAILED", "Document upload failed; nothing was saved")
	ErrOfferLetterNotFound    = apperrors.NotFound("OFFER_LETTER_NOT_FOUND", "No offer letter found")
)

// ── approval ──

var (
	ErrInvalidDecision    = apperrors.Validation("INVALID_DECISION", "status must be Approved or Rejected")
	ErrNotAssignedAdvisor = apperrors.Authorization("NOT_ASSIGNED_ADVISOR", "You are not the assigned advisor for this student")
	ErrOfferNotPending    = apperrors.Conflict("OFFER_NOT_PENDING", "Only a pending offer letter can be reviewed")
	ErrReportNotFound     = apperrors.NotFound("REPORT_NOT_FOUND", "Report not found")
	ErrReportNotPending   = apperrors.Conflict("REPORT_NOT_PENDING", "Only a pending report can be reviewed")
)

// ── allocation ──

var (
	ErrNoAdvisorsAvailable  = apperrors.Conflict("NO_ADVISORS_AVAILABLE", "No advisors available for assignment")
	ErrAllocationInProgress = apperrors.Conflict("ALLOCATION_IN_PROGRESS", "Advisor assignment is already running")
	ErrAdvisorNotFound      = apperrors.NotFound("ADVISOR_NOT_FOUND", "Advisor not found")
)

// ── accounts ──

var (
	ErrInvalidCredentials            = apperrors.New(apperrors.KindUnauthenticated, "INVALID_CREDENTIALS", "Invalid username or password")
	ErrAccountDisabled               = apperrors.Authorization("ACCOUNT_DISABLED", "Account is disabled")
	ErrUsernameTaken                 = apperrors.Conflict("USERNAME_TAKEN", "Username is already taken")
	ErrNotAnAdvisor                  = apperrors.NotFound("ADVISOR_PROFILE_NOT_FOUND", "No advisor profile is linked to this account")
	ErrExpectedReportsBelowSubmitted = apperrors.Conflict("EXPECTED_REPORTS_BELOW_SUBMITTED", "A student has already submitted more reports than the new expected number")
)

// ── calendars ──

var (
	ErrDepartmentNotFound   = apperrors.NotFound("DEPARTMENT_NOT_FOUND", "Department not found")
	ErrDepartmentNameExists = apperrors.Conflict("DEPARTMENT_NAME_EXISTS", "Department name already exists")
	ErrPeriodNotFound       = apperrors.NotFound("PERIOD_NOT_FOUND", "Internship period not found")
	ErrInvalidPeriodWindow  = apperrors.Validation("INVALID_PERIOD_WINDOW", "Registration start must be before registration end")
	ErrInvalidDate          = apperrors.Validation("INVALID_DATE", "Invalid date")
)

// ── spreadsheet import ──

const maxImportRows = 2000

var (
	ErrImportUnreadable  = apperrors.Validation("IMPORT_UNREADABLE", "Could not read the spreadsheet")
	ErrImportNoData      = apperrors.Validation("IMPORT_NO_DATA", "Spreadsheet has no data rows (row 1 is the header)")
	ErrImportBadHeader   = apperrors.Validation("IMPORT_BAD_HEADER", "Spreadsheet header is missing required columns")
	ErrImportTooManyRows = apperrors.Validation("IMPORT_TOO_MANY_ROWS", "Spreadsheet has too many rows")
)
