package chat

import "time"

// Session captures a single therapy conversation.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Personality string    `json:"personality"`
	CreatedAt   time.Time `json:"createdAt"`
}
