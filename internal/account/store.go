// Package account owns the local user directory and the signed-in identity.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/grocerymate/internal/local"
	"github.com/dukerupert/grocerymate/internal/model"
	"github.com/dukerupert/grocerymate/internal/notify"
)

var (
	ErrDuplicateEmail    = errors.New("user with this email already exists")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("invalid password")

	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

const (
	DemoUserID   = "demo-user-1"
	DemoUsername = "demouser"
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

// AvatarURL returns the generated avatar for a username.
func AvatarURL(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username) + "&background=random"
}

// Remote is the subset of the backend the directory reports to.
type Remote interface {
	RegisterUser(ctx context.Context, u model.User) error
	Login(ctx context.Context, userID, email string) error
	Logout(ctx context.Context, userID string) error
}

// Store is the Auth Store. Local state is the source of truth; the
// backend is only told about changes.
type Store struct {
	local    *local.Adapter
	remote   Remote
	notifier notify.Notifier
	logger   *slog.Logger
	hashCost int

	mu      sync.RWMutex
	users   []model.User
	current *model.CurrentUser
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Store) {
		s.hashCost = cost
	}
}

// NewStore loads the directory and the signed-in user from local storage.
// A missing or unreadable directory is replaced by the demo directory.
func NewStore(adapter *local.Adapter, r Remote, opts ...Option) (*Store, error) {
	s := &Store{
		local:    adapter,
		remote:   r,
		notifier: notify.Discard{},
		logger:   slog.Default(),
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	users, found, err := adapter.Users()
	switch {
	case errors.Is(err, local.ErrCorrupt):
		s.logger.Warn("user directory unreadable, using defaults", "error", err)
		found = false
	case err != nil:
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !found || len(users) == 0 {
		users, err = s.defaultUsers()
		if err != nil {
			return nil, err
		}
		if err := adapter.SaveUsers(users); err != nil {
			return nil, fmt.Errorf("save default users: %w", err)
		}
	}
	s.users = users

	current, err := adapter.CurrentUser()
	if errors.Is(err, local.ErrCorrupt) {
		s.logger.Warn("stored current user unreadable, signing out", "error", err)
		if err := adapter.ClearCurrentUser(); err != nil {
			return nil, fmt.Errorf("clear current user: %w", err)
		}
		current = nil
	} else if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	s.current = current

	return s, nil
}

func (s *Store) defaultUsers() ([]model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return []model.User{{
		ID:           DemoUserID,
		Username:     DemoUsername,
		Email:        DemoEmail,
		PasswordHash: string(hash),
		AvatarURL:    AvatarURL(DemoUsername),
	}}, nil
}

func validateSignUp(username, email, password string) error {
	if utf8.RuneCountInString(username) < 3 {
		return ErrUsernameTooShort
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < 6 {
		return ErrPasswordTooShort
	}
	// bcrypt only accepts 72 bytes of input.
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *Store) SignUp(ctx context.Context, username, email, password string) (*model.CurrentUser, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateSignUp(username, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			s.mu.Unlock()
			return nil, ErrDuplicateEmail
		}
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			s.mu.Unlock()
			return nil, ErrDuplicateUsername
		}
	}

	user := model.User{
		ID:           "user-" + uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		AvatarURL:    AvatarURL(username),
	}
	users := append(append([]model.User(nil), s.users...), user)
	if err := s.local.SaveUsers(users); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save users: %w", err)
	}
	s.users = users

	current := user.Public(true)
	if err := s.setCurrentLocked(&current); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	if err := s.remote.RegisterUser(ctx, user); err != nil {
		s.logger.Warn("remote registration failed", "user_id", user.ID, "error", err)
		s.notifier.Toast(notify.Warning, "Account created on this device, but the server could not be reached")
	}
	s.notifier.Toast(notify.Success, "Account created successfully!")
	s.notifier.Changed("user", "signed_up", user.ID)

	out := current
	return &out, nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) (*model.CurrentUser, error) {
	email = strings.TrimSpace(email)

	s.mu.Lock()
	user := s.findLocked(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
	if user == nil {
		s.mu.Unlock()
		return nil, ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.mu.Unlock()
		return nil, ErrInvalidPassword
	}

	current := user.Public(true)
	if err := s.setCurrentLocked(&current); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.logger.Info("user signed in", "user_id", user.ID)
	if err := s.remote.Login(ctx, user.ID, user.Email); err != nil {
		s.logger.Warn("remote login failed", "user_id", user.ID, "error", err)
	}
	s.notifier.Toast(notify.Success, "Login successful!")
	s.notifier.Changed("user", "signed_in", user.ID)

	out := current
	return &out, nil
}

// Logout clears the signed-in user whatever the backend answers.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.RLock()
	var userID string
	if s.current != nil {
		userID = s.current.ID
	}
	s.mu.RUnlock()

	if err := s.remote.Logout(ctx, userID); err != nil {
		s.logger.Warn("remote logout failed, proceeding with local logout", "user_id", userID, "error", err)
	}

	s.mu.Lock()
	err := s.setCurrentLocked(nil)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("user logged out", "user_id", userID)
	s.notifier.Toast(notify.Info, "You've been logged out")
	s.notifier.Changed("user", "logged_out", userID)
	return nil
}

func (s *Store) setCurrentLocked(u *model.CurrentUser) error {
	if u == nil {
		if err := s.local.ClearCurrentUser(); err != nil {
			return fmt.Errorf("clear current user: %w", err)
		}
		if err := s.local.SetUserEmail(""); err != nil {
			return fmt.Errorf("clear user email: %w", err)
		}
		s.current = nil
		return nil
	}
	if err := s.local.SaveCurrentUser(*u); err != nil {
		return fmt.Errorf("save current user: %w", err)
	}
	if err := s.local.SetUserEmail(u.Email); err != nil {
		return fmt.Errorf("save user email: %w", err)
	}
	c := *u
	s.current = &c
	return nil
}

func (s *Store) findLocked(match func(model.User) bool) *model.User {
	for i := range s.users {
		if match(s.users[i]) {
			u := s.users[i]
			return &u
		}
	}
	return nil
}

// CurrentUser returns the signed-in user or nil.
func (s *Store) CurrentUser() *model.CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// AllUsers returns the directory without credentials.
func (s *Store) AllUsers() []model.CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CurrentUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Public(false))
	}
	return out
}

func (s *Store) FindUserByUsername(username string) *model.User {
	username = strings.TrimSpace(username)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(func(u model.User) bool { return strings.EqualFold(u.Username, username) })
}

func (s *Store) FindUserByEmail(email string) *model.User {
	email = strings.TrimSpace(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) FindUserByID(id string) *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(func(u model.User) bool { return u.ID == id })
}
