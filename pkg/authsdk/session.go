package authsdk

import (
	"context"
	"net/http"
	"sync"
)

// Session is a logged-in client. It is safe for concurrent use.
type Session struct {
	client *SDKClient

	mu         sync.RWMutex
	credential string

	// User is the user returned at login.
	User User
}

// Credential returns the session credential, empty after Logout.
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Me returns the current user.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.client.doJSON(ctx, http.MethodGet, APIPrefix+"/auth/me", nil, s.Credential())
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile changes the user's dashboard display name.
func (s *Session) UpdateProfile(ctx context.Context, displayName string) (*User, error) {
	resp, err := s.client.doJSON(ctx, http.MethodPatch, APIPrefix+"/auth/profile",
		UpdateProfileRequest{DisplayName: displayName}, s.Credential())
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout asks the server to clear the session cookie and forgets the
// credential locally. The credential itself stays valid until it expires.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.doJSON(ctx, http.MethodPost, APIPrefix+"/auth/logout", nil, s.Credential())
	if err != nil {
		return err
	}

	var out OKResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()
	return nil
}
