package domain

import "time"

// Submission is a visitor-submitted contact-form lead. Submissions are
// created once and never mutated; admins may delete them.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (s Submission) Key() string { return s.ID }

// ChatMessage is one turn of the assistant transcript. The caller owns the
// transcript and resupplies it on every call.
type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}
