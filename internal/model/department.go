package model

import "time"

// Department academic unit that defines the internship calendar (table departments)
type Department struct {
	DepartmentID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name                    string    `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	InternshipDurationWeeks int       `gorm:"not null"                                       json:"internship_duration_weeks"`
	InternshipStart         time.Time `gorm:"type:date;not null"                             json:"internship_start"`
	InternshipEnd           time.Time `gorm:"type:date;not null"                             json:"internship_end"`
	BaseModel
}

// TableName overrides the table name
func (Department) TableName() string { return "departments" }

// IsValidCalendar start strictly before end
func (d *Department) IsValidCalendar() bool {
	return d.InternshipStart.Before(d.InternshipEnd)
}
