// File: internal/auth/model.go
package auth

// RegisterRequest defines the structure for registration requests.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	UserType string `json:"user_type" binding:"required,oneof=farmer buyer"`
	Contact  string `json:"contact" binding:"required,numeric,min=7,max=15"`
}

// LoginRequest defines the structure for login requests.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
