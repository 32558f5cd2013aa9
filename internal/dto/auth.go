package dto

// ── auth ──

// LoginRequest advisor or admin login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdvisorRegisterRequest advisor self-registration
type AdvisorRegisterRequest struct {
	Username    string `json:"username"     binding:"required,min=3,max=150"`
	Email       string `json:"email"        binding:"required,email"`
	Password    string `json:"password"     binding:"required,min=8,max=64"`
	FirstName   string `json:"first_name"   binding:"required,max=50"`
	LastName    string `json:"last_name"    binding:"max=50"`
	PhoneNumber string `json:"phone_number" binding:"max=20"`
}

// TokenResponse token pair
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// UserResponse account summary, no secrets
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AdvisorID string `json:"advisor_id,omitempty"`
}

// MessageResponse bare acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
