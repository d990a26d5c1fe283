package domain

// Feedback is a visitor-submitted message, stored as one KV document list.
type Feedback struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Contact   string `json:"contact,omitempty"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}
