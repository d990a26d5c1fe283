package dto

import "github.com/spec-kit/countdown-service/internal/domain"

// TokenOverviewResponse is the admin token dashboard payload.
type TokenOverviewResponse struct {
	Stats               domain.TokenStats `json:"stats"`
	AutoCleanInterval   int               `json:"autoCleanInterval"`
	TokenExpirationDays int               `json:"tokenExpirationDays"`
}

// SetExpirationRequest payload; days bounded to [1,365].
type SetExpirationRequest struct {
	ExpirationDays int `json:"expirationDays"`
}

// SetAutoCleanRequest payload; days bounded to [1,365].
type SetAutoCleanRequest struct {
	AutoCleanDays int `json:"autoCleanDays"`
}
