package domain

import "time"

// Capability names independent per-grant flags. SuperAdmin implicitly
// satisfies any capability check; plain admin does not.
const (
	CapabilityBasic        = "basic"
	CapabilityTimeControl  = "timeControl"
	CapabilityNotification = "notification"
	CapabilityAppearance   = "appearance"
	CapabilityData         = "data"
	CapabilityFeedback     = "feedback"
	CapabilityVisits       = "visits"
	CapabilityUsers        = "users"
)

// AllCapabilities returns a full grant map, used when seeding the default admin.
func AllCapabilities() map[string]bool {
	return map[string]bool{
		CapabilityBasic:        true,
		CapabilityTimeControl:  true,
		CapabilityNotification: true,
		CapabilityAppearance:   true,
		CapabilityData:         true,
		CapabilityFeedback:     true,
		CapabilityVisits:       true,
		CapabilityUsers:        true,
	}
}

// User is a directory record. A user may hold tokens only while approved and
// not frozen; the authorization gate re-checks both on every request.
type User struct {
	Username           string
	Email              string
	PasswordHash       string
	Approved           bool
	Frozen             bool
	IsAdmin            bool
	IsSuperAdmin       bool
	Capabilities       map[string]bool
	SecurityQuestion   string
	SecurityAnswerHash string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Active reports whether the account may authenticate.
func (u User) Active() bool {
	return u.Approved && !u.Frozen
}

// HasCapability reports whether the named grant is satisfied.
func (u User) HasCapability(name string) bool {
	if u.IsSuperAdmin {
		return true
	}
	return u.Capabilities[name]
}
