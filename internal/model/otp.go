package model

import "time"

// OneTimePasscode registration proof bound to a university id (table one_time_passcodes)
type OneTimePasscode struct {
	UniversityID string     `gorm:"type:varchar(20);primaryKey" json:"university_id"`
	OTPCode      string     `gorm:"column:otp_code;type:varchar(6);not null" json:"-"`
	CreatedAt    time.Time  `gorm:"not null"                    json:"created_at"`
	AttemptCount int        `gorm:"not null;default:0"          json:"attempt_count"`
	LockedUntil  *time.Time `json:"locked_until,omitempty"`
}

// TableName overrides the table name
func (OneTimePasscode) TableName() string { return "one_time_passcodes" }

// IsExpired age strictly greater than ttl
func (o *OneTimePasscode) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.After(o.CreatedAt.Add(ttl))
}

// IsLocked lock still in force
func (o *OneTimePasscode) IsLocked(now time.Time) bool {
	return o.LockedUntil != nil && now.Before(*o.LockedUntil)
}
