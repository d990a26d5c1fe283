package dto

// CreateUserRequest payload for admin-created accounts.
type CreateUserRequest struct {
	Username         string          `json:"username"`
	Password         string          `json:"password"`
	Email            string          `json:"email"`
	Approved         bool            `json:"approved"`
	IsAdmin          bool            `json:"isAdmin"`
	Capabilities     map[string]bool `json:"capabilities"`
	SecurityQuestion string          `json:"securityQuestion"`
}

// UpdateUserRequest payload; omitted fields are left untouched.
type UpdateUserRequest struct {
	Email        *string         `json:"email"`
	Approved     *bool           `json:"approved"`
	Frozen       *bool           `json:"frozen"`
	IsAdmin      *bool           `json:"isAdmin"`
	Capabilities map[string]bool `json:"capabilities"`
}

// UserPermissions is one row of the admin permissions overview.
type UserPermissions struct {
	Username     string          `json:"username"`
	IsAdmin      bool            `json:"isAdmin"`
	IsSuperAdmin bool            `json:"isSuperAdmin"`
	Capabilities map[string]bool `json:"capabilities"`
}
