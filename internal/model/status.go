package model

// StudentStatus internship lifecycle of an activated student
type StudentStatus string

const (
	StudentPending   StudentStatus = "Pending"
	StudentOngoing   StudentStatus = "Ongoing"
	StudentCompleted StudentStatus = "Completed"
)

// ApprovalStatus review state of an offer letter or report.
// Both documents use the same three states.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// ParseDecision accepts only the two terminal review decisions
func ParseDecision(s string) (ApprovalStatus, bool) {
	switch ApprovalStatus(s) {
	case ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s), true
	}
	return "", false
}
