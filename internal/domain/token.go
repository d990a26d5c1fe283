package domain

import "time"

// Token is an opaque bearer credential referencing a subject and the
// role/capability snapshot taken at issuance. The snapshot is informational
// only; authorization always re-resolves the live user record.
type Token struct {
	ID           string          `json:"token"`
	Username     string          `json:"username"`
	IsAdmin      bool            `json:"isAdmin"`
	IsSuperAdmin bool            `json:"isSuperAdmin"`
	Capabilities map[string]bool `json:"capabilities"`
	IssuedAt     int64           `json:"createdAt"`
	ExpiresAt    int64           `json:"expiresAt"`
}

// ExpiredAt reports whether the token is past its expiry at the given instant.
func (t Token) ExpiredAt(now time.Time) bool {
	return t.ExpiresAt <= now.UnixMilli()
}

// TimeUntilExpiry returns the remaining validity window, negative when expired.
func (t Token) TimeUntilExpiry(now time.Time) time.Duration {
	return time.Duration(t.ExpiresAt-now.UnixMilli()) * time.Millisecond
}

// TokenCollection is the single serialized map of all live tokens keyed by id.
// It is the unit of read-modify-write against the KV backend.
type TokenCollection map[string]Token

// TokenStats is a point-in-time snapshot of the collection.
type TokenStats struct {
	Total   int            `json:"total"`
	Active  int            `json:"active"`
	Expired int            `json:"expired"`
	ByUser  map[string]int `json:"byUser"`
}

// StatsAt computes counts against the given instant from one snapshot.
func (c TokenCollection) StatsAt(now time.Time) TokenStats {
	stats := TokenStats{ByUser: make(map[string]int)}
	for _, token := range c {
		stats.Total++
		if token.ExpiredAt(now) {
			stats.Expired++
		} else {
			stats.Active++
		}
		stats.ByUser[token.Username]++
	}
	return stats
}
