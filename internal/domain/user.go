package domain

// UserContext is the authenticated caller context injected into request
// handlers by the JWT middleware.
type UserContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
