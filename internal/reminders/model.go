package reminders

import "time"

// Reminder is a scheduled notification. SentAt records delivery: a nil SentAt
// with a past DueAt means the reminder is due for dispatch.
type Reminder struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Message   string     `json:"message"`
	DueAt     time.Time  `json:"date"`
	SentAt    *time.Time `json:"sentAt"`
	CreatedAt time.Time  `json:"createdAt"`
}
