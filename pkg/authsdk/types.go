package authsdk

import "encoding/json"

// LoginRequest is the body of POST /api/auth/login. IDToken is sent as
// id_token; the server also accepts idToken.
type LoginRequest struct {
	IDToken string          `json:"id_token"`
	Profile json.RawMessage `json:"profile,omitempty"`
	Decoded json.RawMessage `json:"decoded,omitempty"`
}

// User is the authenticated user as shown by the dashboard.
type User struct {
	Sub     string  `json:"sub"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

// UserResponse is returned by login, me and profile updates.
type UserResponse struct {
	OK   bool `json:"ok"`
	User User `json:"user"`
}

// OKResponse is returned by logout.
type OKResponse struct {
	OK bool `json:"ok"`
}

// UpdateProfileRequest is the body of PATCH /api/auth/profile.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists readiness of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
