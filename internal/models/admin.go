package models

// AdminLoginRequest is the admin login payload
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

// AdminLoginResponse carries the bearer token
type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// AdminSession is the verified identity behind a request
type AdminSession struct {
	Subject   string `json:"subject"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	Method    string `json:"method"` // token | key
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Verification is the result of checking a credential
type Verification struct {
	Valid   bool `json:"valid"`
	IsAdmin bool `json:"isAdmin"`
}
