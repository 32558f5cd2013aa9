package model

// RosterEntry pre-registered eligible student (table roster_entries)
type RosterEntry struct {
	UniversityID       string  `gorm:"type:varchar(20);primaryKey"            json:"university_id"`
	FullName           string  `gorm:"type:varchar(100);not null"             json:"full_name"`
	InstitutionalEmail string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"institutional_email"`
	AssignedAdvisorID  *string `gorm:"type:uuid;index"                        json:"assigned_advisor_id,omitempty"`
	BaseModel

	AssignedAdvisor *Advisor `gorm:"foreignKey:AssignedAdvisorID;references:AdvisorID" json:"assigned_advisor,omitempty"`
}

// TableName overrides the table name
func (RosterEntry) TableName() string { return "roster_entries" }
