// Package session owns authentication state: the current user, the
// durable bearer token and the loading/error flags, plus the account
// operations against the backend.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/api"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// Store is the session store. Safe for concurrent use. Other stores
// take it by reference for the authenticated-request token and login
// status.
type Store struct {
	client   *api.Client
	tokens   TokenStore
	validate *validator.Validate

	mu            sync.RWMutex
	user          *models.User
	authenticated bool
	loading       bool
	err           string
}

// New creates a session store. The api.Client passed in must read its
// bearer token from the same TokenStore.
func New(client *api.Client, tokens TokenStore) *Store {
	return &Store{
		client:   client,
		tokens:   tokens,
		validate: validator.New(),
		loading:  true,
	}
}

// User returns the current user, or nil when logged out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a token is present and the last
// profile fetch for it succeeded.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Token returns the current bearer token, or "".
func (s *Store) Token() string { return s.tokens.Token() }

// Loading reports whether an operation is in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message recorded by the last failed operation.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

// settle marks a successful operation finished.
func (s *Store) settle() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// fail records a human-readable message and hands the error back to
// the caller; the store never swallows failures.
func (s *Store) fail(err error, fallback string) error {
	s.mu.Lock()
	s.loading = false
	s.err = api.Message(err, fallback)
	s.mu.Unlock()
	return err
}

// Bootstrap validates a persisted token on startup. A token that no
// longer passes /users/me is discarded together with the user so the
// session is never half-authenticated.
func (s *Store) Bootstrap(ctx context.Context) error {
	if s.tokens.Token() == "" {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return nil
	}

	env, err := s.client.Get(ctx, "/users/me", nil)
	if err != nil {
		s.clearCredentials(api.Message(err, "Authentication failed"))
		return err
	}

	var user models.User
	if err := env.Decode(&user); err != nil {
		s.clearCredentials("Authentication failed")
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()
	return nil
}

// clearCredentials drops token and user in one critical section.
func (s *Store) clearCredentials(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokens.Set(""); err != nil {
		slog.Warn("failed to clear persisted token", "error", err)
	}
	s.user = nil
	s.authenticated = false
	s.loading = false
	s.err = reason
}

// Register creates an account and signs in. On failure the previous
// token and user are left untouched.
func (s *Store) Register(ctx context.Context, in models.RegisterInput) error {
	if err := s.validate.Struct(in); err != nil {
		return s.fail(err, "Registration failed")
	}
	s.begin()

	env, err := s.client.Post(ctx, "/users/register", in)
	if err != nil {
		return s.fail(err, "Registration failed")
	}
	return s.adoptSession(env, "Registration failed")
}

// Login signs in with email and password.
func (s *Store) Login(ctx context.Context, in models.LoginInput) error {
	if err := s.validate.Struct(in); err != nil {
		return s.fail(err, "Login failed")
	}
	s.begin()

	env, err := s.client.Post(ctx, "/users/login", in)
	if err != nil {
		return s.fail(err, "Login failed")
	}
	return s.adoptSession(env, "Login failed")
}

// adoptSession persists the token and installs the user from an auth
// response envelope.
func (s *Store) adoptSession(env *api.Envelope, fallback string) error {
	var user models.User
	if err := env.DecodeUser(&user); err != nil {
		return s.fail(err, fallback)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokens.Set(env.Token); err != nil {
		s.loading = false
		s.err = fallback
		return err
	}
	s.user = &user
	s.authenticated = true
	s.loading = false
	return nil
}

// Logout invalidates the session server-side on a best-effort basis
// and always clears local state, even when the network call fails.
func (s *Store) Logout(ctx context.Context) {
	if _, err := s.client.Get(ctx, "/users/logout", nil); err != nil {
		slog.Debug("server-side logout failed", "error", err)
	}
	s.clearCredentials("")
}

// UpdateProfile replaces the profile with the server's response. The
// avatar, when given, is uploaded as a file part.
func (s *Store) UpdateProfile(ctx context.Context, in models.ProfileInput) error {
	if err := s.validate.Struct(in); err != nil {
		return s.fail(err, "Profile update failed")
	}
	s.begin()

	form := api.NewForm()
	form.Field("name", in.Name)
	form.Field("email", in.Email)
	if in.AvatarPath != "" {
		form.File("avatar", in.AvatarPath)
	}

	env, err := s.client.PutForm(ctx, "/users/me", form)
	if err != nil {
		return s.fail(err, "Profile update failed")
	}

	var user models.User
	if err := env.Decode(&user); err != nil {
		return s.fail(err, "Profile update failed")
	}

	s.mu.Lock()
	s.user = &user
	s.loading = false
	s.mu.Unlock()
	return nil
}

// UpdatePassword changes the password and rotates the token, since the
// server invalidates prior sessions on a password change.
func (s *Store) UpdatePassword(ctx context.Context, in models.PasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return s.fail(err, "Password update failed")
	}
	s.begin()

	env, err := s.client.Put(ctx, "/users/password", in)
	if err != nil {
		return s.fail(err, "Password update failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokens.Set(env.Token); err != nil {
		s.loading = false
		s.err = "Password update failed"
		return err
	}
	s.loading = false
	return nil
}
