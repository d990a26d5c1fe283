package dto

// LoginRequest payload for credential verification.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token alongside the role snapshot the UI
// uses to decide what to render. ExpiresAt is epoch milliseconds.
type LoginResponse struct {
	Valid        bool            `json:"valid"`
	Token        string          `json:"token"`
	ExpiresAt    int64           `json:"expiresAt"`
	IsAdmin      bool            `json:"isAdmin"`
	IsSuperAdmin bool            `json:"isSuperAdmin"`
	Capabilities map[string]bool `json:"capabilities"`
	User         any             `json:"user"`
}

// VerifyTokenResponse reports token validity and the renewal hint.
type VerifyTokenResponse struct {
	Valid           bool   `json:"valid"`
	Reason          string `json:"reason,omitempty"`
	ExpiresSoon     bool   `json:"expiresSoon,omitempty"`
	CanRenew        bool   `json:"canRenew"`
	ExpiresAt       int64  `json:"expiresAt,omitempty"`
	TimeUntilExpiry int64  `json:"timeUntilExpiry,omitempty"`
}

// RenewTokenResponse carries the rotated credential the client must adopt.
type RenewTokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// RegisterRequest payload for self-registration.
type RegisterRequest struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	Email            string `json:"email"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// RecoverPasswordRequest payload for security-question recovery.
type RecoverPasswordRequest struct {
	Username       string `json:"username"`
	SecurityAnswer string `json:"securityAnswer"`
	NewPassword    string `json:"newPassword"`
}
