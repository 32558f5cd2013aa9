package model

const (
	DefaultExpectedReports    = 4
	DefaultReportIntervalDays = 15
)

// Advisor supervises students (table advisors)
type Advisor struct {
	AdvisorID                    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"advisor_id"`
	UserID                       *string `gorm:"type:uuid;uniqueIndex"                          json:"user_id,omitempty"`
	FirstName                    string  `gorm:"type:varchar(50);not null"                      json:"first_name"`
	LastName                     string  `gorm:"type:varchar(50);not null"                      json:"last_name"`
	Email                        string  `gorm:"type:varchar(255)"                              json:"email"`
	PhoneNumber                  string  `gorm:"type:varchar(20)"                               json:"phone_number"`
	NumberOfExpectedReports      int     `gorm:"not null;default:4"                             json:"number_of_expected_reports"`
	ReportSubmissionIntervalDays int     `gorm:"not null;default:15"                            json:"report_submission_interval_days"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName overrides the table name
func (Advisor) TableName() string { return "advisors" }

// FullName first and last name joined
func (a *Advisor) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// ExpectedReports N, never below one
func (a *Advisor) ExpectedReports() int {
	if a.NumberOfExpectedReports <= 0 {
		return DefaultExpectedReports
	}
	return a.NumberOfExpectedReports
}

// IntervalDays I, never negative
func (a *Advisor) IntervalDays() int {
	if a.ReportSubmissionIntervalDays < 0 {
		return 0
	}
	return a.ReportSubmissionIntervalDays
}

// AdvisorLoad advisor with its current roster assignment count
type AdvisorLoad struct {
	Advisor
	Load int `gorm:"column:student_load" json:"load"`
}
