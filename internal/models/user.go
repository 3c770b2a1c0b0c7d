package models

// User is the authenticated visitor's profile as held by the upstream API.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Credentials carries a login or signup request forwarded to the upstream
// auth endpoints. The gateway never stores the password.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// TokenPair is the bearer/refresh token pair issued by the upstream auth
// service. It lives only in the server-side session.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the upstream response to a successful login or signup.
type AuthResult struct {
	TokenPair
	User User `json:"user"`
}
