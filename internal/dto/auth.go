package dto

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"Password123!"` // 8-64 characters, at most 72 bytes
}

// LoginRequest is the JSON form of the login payload. The canonical form is
// application/x-www-form-urlencoded with the same field names.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by every successful sign-in
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// UserResponse is the public view of a user; it never includes the hash
type UserResponse struct {
	ID    int64  `json:"id" example:"1"`
	Email string `json:"email" example:"a@x.com"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
