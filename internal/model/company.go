package model

// Company internship host (table companies)
type Company struct {
	CompanyID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"company_id"`
	Name           string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"name"`
	Email          string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone          string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Address        string `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	SupervisorName string `gorm:"type:varchar(100)"                              json:"supervisor_name,omitempty"`
	BaseModel
}

// TableName overrides the table name
func (Company) TableName() string { return "companies" }
