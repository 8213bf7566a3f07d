package api

import (
	"context"

	"autorevise/internal/models"
)

// Register creates a new account. On success the backend also
// establishes a session, relayed via ApplySetCookies.
func (s *Session) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := s.post(ctx, "/register", body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.UserID == 0 {
		return nil, &DecodeError{Endpoint: "/register", Reason: "missing user in response"}
	}
	return resp.User, nil
}

// Login authenticates with email and password.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := s.post(ctx, "/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.UserID == 0 {
		return nil, &DecodeError{Endpoint: "/login", Reason: "missing user in response"}
	}
	return resp.User, nil
}

// Logout ends the backend session. Callers clear the cached profile
// even when this fails.
func (s *Session) Logout(ctx context.Context) error {
	return s.post(ctx, "/logout", nil, nil)
}

// Me returns the user the backend associates with the current session.
// A 401 here means the cached profile is stale and must be cleared.
func (s *Session) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := s.get(ctx, "/me", &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.UserID == 0 {
		return nil, &DecodeError{Endpoint: "/me", Reason: "missing user in response"}
	}
	return resp.User, nil
}
