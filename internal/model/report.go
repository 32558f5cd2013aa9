package model

import "time"

// Report numbered progress document (table reports), unique on (student_id, report_number)
type Report struct {
	ReportID       string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"report_id"`
	StudentID      string         `gorm:"type:uuid;not null;uniqueIndex:uq_reports_student_number" json:"student_id"`
	ReportNumber   int            `gorm:"not null;uniqueIndex:uq_reports_student_number"        json:"report_number"`
	DocumentURL    string         `gorm:"type:text;not null"                                    json:"document_url"`
	Status         ApprovalStatus `gorm:"type:varchar(10);not null;default:'Pending'"           json:"advisor_approved"`
	SubmissionDate time.Time      `gorm:"not null"                                              json:"submission_date"`
	ApprovalDate   *time.Time     `json:"approval_date,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"created_at"`

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName overrides the table name
func (Report) TableName() string { return "reports" }
