package domain

import "encoding/json"

// Settings is the configuration document. It carries the bounded token policy
// alongside the opaque display configuration the countdown UI reads; unknown
// keys round-trip untouched so token policy updates never clobber display
// fields, and vice versa. It lives in a separate document from the token
// collection, with no cross-document atomicity.
type Settings struct {
	TokenExpirationDays int
	TokenAutoCleanDays  int
	LastCleanedAt       int64
	Display             map[string]json.RawMessage
}

const (
	// DefaultExpirationDays is the fallback token validity window.
	DefaultExpirationDays = 30
	// DefaultAutoCleanDays is the fallback sweep interval.
	DefaultAutoCleanDays = 30

	// MinPolicyDays and MaxPolicyDays bound both tunables.
	MinPolicyDays = 1
	MaxPolicyDays = 365
)

const (
	keyExpirationDays = "tokenExpirationDays"
	keyAutoCleanDays  = "tokenAutoCleanDays"
	keyLastCleanedAt  = "lastCleanedAt"
)

// DefaultSettings returns the policy applied when no document exists yet.
func DefaultSettings() Settings {
	return Settings{
		TokenExpirationDays: DefaultExpirationDays,
		TokenAutoCleanDays:  DefaultAutoCleanDays,
		Display:             map[string]json.RawMessage{},
	}
}

// ValidPolicyDays reports whether a tunable lies in the accepted range.
func ValidPolicyDays(days int) bool {
	return days >= MinPolicyDays && days <= MaxPolicyDays
}

// MarshalJSON flattens the typed policy fields back into the shared document.
func (s Settings) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(s.Display)+3)
	for k, v := range s.Display {
		doc[k] = v
	}
	var err error
	if doc[keyExpirationDays], err = json.Marshal(s.TokenExpirationDays); err != nil {
		return nil, err
	}
	if doc[keyAutoCleanDays], err = json.Marshal(s.TokenAutoCleanDays); err != nil {
		return nil, err
	}
	if s.LastCleanedAt > 0 {
		if doc[keyLastCleanedAt], err = json.Marshal(s.LastCleanedAt); err != nil {
			return nil, err
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON lifts the policy fields out of the document and keeps the
// rest as opaque display configuration.
func (s *Settings) UnmarshalJSON(data []byte) error {
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*s = DefaultSettings()
	if raw, ok := doc[keyExpirationDays]; ok {
		if err := json.Unmarshal(raw, &s.TokenExpirationDays); err != nil {
			return err
		}
		delete(doc, keyExpirationDays)
	}
	if raw, ok := doc[keyAutoCleanDays]; ok {
		if err := json.Unmarshal(raw, &s.TokenAutoCleanDays); err != nil {
			return err
		}
		delete(doc, keyAutoCleanDays)
	}
	if raw, ok := doc[keyLastCleanedAt]; ok {
		if err := json.Unmarshal(raw, &s.LastCleanedAt); err != nil {
			return err
		}
		delete(doc, keyLastCleanedAt)
	}
	s.Display = doc
	return nil
}
