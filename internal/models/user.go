package models

// User mirrors the backend's user object. It is the only entity the
// client keeps hold of between requests, cached wholesale in the
// profile cookie and overwritten on every successful auth response.
type User struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Points    int    `json:"points"`
	IsAdmin   Flag   `json:"is_admin"`
	CreatedAt string `json:"created_at,omitempty"`
}
