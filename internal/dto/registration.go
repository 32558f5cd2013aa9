package dto

// SendOTPRequest POST /send-otp
type SendOTPRequest struct {
	UniversityID string `json:"university_id" binding:"required,university_id"`
}

// StudentRegisterRequest POST /students/register
type StudentRegisterRequest struct {
	UniversityID string `json:"university_id" binding:"required,university_id"`
	PhoneNumber  string `json:"phone_number"  binding:"required,max=20"`
	TelegramID   string `json:"telegram_id"   binding:"required,numeric,max=50"`
	OTPCode      string `json:"otp_code"      binding:"required,len=6,numeric"`
}

// StudentRegisterResponse activation result
type StudentRegisterResponse struct {
	Message      string          `json:"message"`
	OTPVerified  bool            `json:"OTPVerified"`
	StudentID    string          `json:"student_id"`
	UniversityID string          `json:"university_id"`
	Status       string          `json:"status"`
	Advisor      *AdvisorContact `json:"advisor,omitempty"`
}

// AdvisorContact what a student sees of their advisor
type AdvisorContact struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
