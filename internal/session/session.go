// Package session keeps the signed-in provider and their API token.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotSignedIn is returned when no user is stored.
var ErrNotSignedIn = errors.New("session: not signed in")

// User is the signed-in provider.
type User struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email,omitempty" yaml:"email"`
	AvatarURL string `json:"avatar_url" yaml:"avatar_url"`
}

// Auth is what a successful sign-in returns.
type Auth struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Authenticator exchanges credentials for an Auth.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*Auth, error)
}

// Holder stores the current Auth. The zero value is an empty, usable holder.
type Holder struct {
	mu   sync.RWMutex
	auth Auth
}

// NewHolder returns a holder seeded with auth (which may be empty).
func NewHolder(auth Auth) *Holder {
	return &Holder{auth: auth}
}

// SignIn authenticates through a and stores the result.
func (h *Holder) SignIn(ctx context.Context, a Authenticator, email, password string) (User, error) {
	auth, err := a.SignIn(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	h.Set(*auth)
	return auth.User, nil
}

// Set replaces the stored auth.
func (h *Holder) Set(auth Auth) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.auth = auth
}

// SignOut clears the stored auth.
func (h *Holder) SignOut() {
	h.Set(Auth{})
}

// CurrentUser returns the signed-in user (zero value when signed out).
func (h *Holder) CurrentUser() User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.auth.User
}

// Token returns the API token, or ErrNotSignedIn.
func (h *Holder) Token() (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.auth.Token == "" {
		return "", ErrNotSignedIn
	}
	return h.auth.Token, nil
}

// SignedIn reports whether both a user and a token are stored.
func (h *Holder) SignedIn() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.auth.User.ID != "" && h.auth.Token != ""
}
