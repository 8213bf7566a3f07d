// Package session keeps the client-side state the browser would keep:
// the cached user profile (the one persisted entity) and a visitor id
// for the in-memory study-session store. Both live in cookies; domain
// data is never persisted client-side.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"autorevise/internal/models"
	"autorevise/internal/security"
)

// ProfileCookie holds the cached user profile as a signed token.
const ProfileCookie = "autorevise_user"

// VisitorCookie identifies a browser for in-memory study state.
const VisitorCookie = "autorevise_visitor"

// ErrNoProfile means no cached profile exists: the visitor is logged
// out as far as this client can tell.
var ErrNoProfile = errors.New("no cached profile")

// ProfileStore reads and writes the cached user profile. The profile
// is serialized into an HS256-signed JWT so a tampered cookie is
// indistinguishable from an absent one. Every write is a full
// overwrite, never a partial merge.
type ProfileStore struct {
	secret []byte
	maxAge time.Duration
}

// NewProfileStore creates a store signing with the given secret.
func NewProfileStore(secret string, maxAge time.Duration) *ProfileStore {
	return &ProfileStore{secret: []byte(secret), maxAge: maxAge}
}

type profileClaims struct {
	jwt.RegisteredClaims
	User models.User `json:"user"`
}

// Save replaces the cached profile wholesale with the given user.
func (s *ProfileStore) Save(w http.ResponseWriter, r *http.Request, user *models.User) error {
	now := time.Now()
	claims := profileClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
		User: *user,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign profile: %w", err)
	}

	http.SetCookie(w, security.NewCookie(r, ProfileCookie, signed, now.Add(s.maxAge)))
	return nil
}

// Load returns the cached profile, or ErrNoProfile when the cookie is
// absent, expired, or fails signature verification.
func (s *ProfileStore) Load(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(ProfileCookie)
	if err != nil {
		return nil, ErrNoProfile
	}

	claims := &profileClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	_, err = parser.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrNoProfile
	}
	if claims.User.UserID == 0 {
		return nil, ErrNoProfile
	}
	return &claims.User, nil
}

// Clear removes the cached profile.
func (s *ProfileStore) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.DeleteCookie(r, ProfileCookie))
}

// IsLoggedIn reports whether a cached profile with an identifier
// exists. This is a local check only; the backend session may still
// have expired.
func (s *ProfileStore) IsLoggedIn(r *http.Request) bool {
	_, err := s.Load(r)
	return err == nil
}

// VisitorID returns the browser's study-state key, minting and setting
// a new one when absent.
func VisitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(VisitorCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := security.NewVisitorID()
	http.SetCookie(w, security.NewCookie(r, VisitorCookie, id, time.Now().Add(24*time.Hour)))
	return id
}
