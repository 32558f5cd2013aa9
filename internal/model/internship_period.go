package model

import "time"

// InternshipPeriod registration window; AdvisorsAssigned is the "fully assigned" flag (table internship_periods)
type InternshipPeriod struct {
	PeriodID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	Name              string     `gorm:"type:varchar(100);not null"                     json:"name"`
	RegistrationStart time.Time  `gorm:"not null"                                       json:"registration_start"`
	RegistrationEnd   time.Time  `gorm:"not null"                                       json:"registration_end"`
	AdvisorsAssigned  bool       `gorm:"not null;default:false"                         json:"advisors_assigned"`
	AssignedAt        *time.Time `json:"assigned_at,omitempty"`
	BaseModel
}

// TableName overrides the table name
func (InternshipPeriod) TableName() string { return "internship_periods" }
