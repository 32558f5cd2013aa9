package model

import "time"

// OfferLetter placement evidence awaiting advisor review (table offer_letters)
// At most one non-rejected row per student; rejected rows stay as history.
type OfferLetter struct {
	OfferLetterID  string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"offer_letter_id"`
	StudentID      string         `gorm:"type:uuid;not null;index"                       json:"student_id"`
	CompanyID      *string        `gorm:"type:uuid"                                      json:"company_id,omitempty"`
	DocumentURL    string         `gorm:"type:text;not null"                             json:"document_url"`
	Status         ApprovalStatus `gorm:"type:varchar(10);not null;default:'Pending'"    json:"advisor_approved"`
	SubmissionDate time.Time      `gorm:"not null"                                       json:"submission_date"`
	ApprovalDate   *time.Time     `json:"approval_date,omitempty"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName overrides the table name
func (OfferLetter) TableName() string { return "offer_letters" }
