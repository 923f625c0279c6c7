package users

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Age          *int      `json:"age"`
	Gender       *string   `json:"gender"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns the response shape without credential material.
func (u User) Public() map[string]any {
	return map[string]any{
		"id":     u.ID,
		"email":  u.Email,
		"name":   u.Name,
		"age":    u.Age,
		"gender": u.Gender,
	}
}
