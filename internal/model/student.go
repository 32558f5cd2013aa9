package model

import "time"

// Student activated internship record, created only after OTP verification (table students)
type Student struct {
	StudentID          string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	UniversityID       string        `gorm:"type:varchar(20);not null;uniqueIndex"          json:"university_id"`
	FullName           string        `gorm:"type:varchar(100);not null"                     json:"full_name"`
	InstitutionalEmail string        `gorm:"type:varchar(255);not null;uniqueIndex"         json:"institutional_email"`
	PhoneNumber        string        `gorm:"type:varchar(20);not null"                      json:"phone_number"`
	TelegramID         *string       `gorm:"type:varchar(50);uniqueIndex"                   json:"telegram_id,omitempty"`
	Status             StudentStatus `gorm:"type:varchar(10);not null;default:'Pending'"    json:"status"`
	StartDate          *time.Time    `gorm:"type:date"                                      json:"start_date,omitempty"`
	EndDate            *time.Time    `gorm:"type:date"                                      json:"end_date,omitempty"`
	AssignedAdvisorID  *string       `gorm:"type:uuid;index"                                json:"assigned_advisor_id,omitempty"`
	DepartmentID       *string       `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	OTPVerified        bool          `gorm:"column:otp_verified;not null;default:false"     json:"otp_verified"`
	BaseModel

	AssignedAdvisor *Advisor    `gorm:"foreignKey:AssignedAdvisorID;references:AdvisorID" json:"assigned_advisor,omitempty"`
	Department      *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID"   json:"department,omitempty"`
}

// TableName overrides the table name
func (Student) TableName() string { return "students" }
