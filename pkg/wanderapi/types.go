package wanderapi

import "time"

// Session is the authenticated session returned by Login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Account   `json:"account"`
}

// Account is the authenticated user's profile.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	HomeState string    `json:"home_state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// loginRequest is the body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status string `json:"status"`
}
