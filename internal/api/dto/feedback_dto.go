package dto

// FeedbackSubmitRequest payload for the public feedback endpoint.
type FeedbackSubmitRequest struct {
	Content  string `json:"content"`
	Contact  string `json:"contact"`
	Username string `json:"username"`
}
