package model

import "time"

// InternshipHistory completion record written when the final report arrives (table internship_histories)
type InternshipHistory struct {
	HistoryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	StudentID string    `gorm:"type:uuid;not null;index"                       json:"student_id"`
	CompanyID *string   `gorm:"type:uuid"                                      json:"company_id,omitempty"`
	Year      int       `gorm:"not null"                                       json:"year"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"company,omitempty"`
}

// TableName overrides the table name
func (InternshipHistory) TableName() string { return "internship_histories" }
