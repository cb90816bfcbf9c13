// Package account signs the single resident user up, in and out.
//
// Only one profile is stored at a time: a later signup with another email
// replaces the resident profile instead of adding a second account.
package account

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/konorlevich/secureshare/internal/apperr"
	"github.com/konorlevich/secureshare/internal/store"
)

// DefaultQuota is the storage quota of a new profile, 10 GiB.
const DefaultQuota int64 = 10 * 1024 * 1024 * 1024

const minPasswordLen = 6

const (
	msgAllFieldsRequired = "All fields are required"
	msgInvalidEmail      = "Invalid email format"
	msgShortPassword     = "Password must be at least 6 characters"
	msgEmailRegistered   = "Email already registered"
	msgCantCreate        = "Failed to create account"
	msgLoginRequired     = "Email and password are required"
	msgUserNotFound      = "User not found. Please sign up first."
	msgInvalidLogin      = "Invalid email or password"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserProfile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	StorageQuota int64     `json:"storageQuota"`
	IsVerified   bool      `json:"isVerified"`
}

// Session records who signed in last and when.
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	StartedAt time.Time `json:"startedAt"`
}

type Service struct {
	s   store.Store
	l   *log.Entry
	now func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(s store.Store, l *log.Entry, opts ...Option) *Service {
	svc := &Service{
		s:   s,
		l:   l.WithField("component", "account"),
		now: time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

func (s *Service) Signup(email, password, name string) (*UserProfile, error) {
	if email == "" || password == "" || name == "" {
		return nil, apperr.New(apperr.ErrValidation, msgAllFieldsRequired)
	}
	if !emailRe.MatchString(email) {
		return nil, apperr.New(apperr.ErrValidation, msgInvalidEmail)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, apperr.New(apperr.ErrValidation, msgShortPassword)
	}
	existing, replacing := s.Current()
	if replacing && existing.Email == email {
		return nil, apperr.New(apperr.ErrConflict, msgEmailRegistered)
	}

	l := s.l.WithField("email", email)
	user := &UserProfile{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		CreatedAt:    s.now().UTC(),
		StorageQuota: DefaultQuota,
		IsVerified:   true,
	}
	cred, err := newCredential(password)
	if err != nil {
		l.WithError(err).Error("can't hash password")
		return nil, apperr.New(apperr.ErrStorage, msgCantCreate)
	}
	// profile last, so a failed signup never leaves a profile without a credential
	if err := store.Save(s.s, store.PasswordKey(user.ID), cred, l); err != nil {
		return nil, apperr.New(apperr.ErrStorage, msgCantCreate)
	}
	if err := store.Save(s.s, store.KeyUser, user, l); err != nil {
		if err := store.Remove(s.s, store.PasswordKey(user.ID), l); err != nil {
			l.WithError(err).Warn("orphaned credential left behind")
		}
		return nil, apperr.New(apperr.ErrStorage, msgCantCreate)
	}
	if replacing {
		if err := store.Remove(s.s, store.PasswordKey(existing.ID), l); err != nil {
			l.WithError(err).WithField("user_id", existing.ID).Warn("previous credential left behind")
		}
	}
	s.startSession(user, l)
	l.WithField("user_id", user.ID).Info("account created")
	return user, nil
}

// Login fails with the same AuthError whether the email or the password is
// wrong.
func (s *Service) Login(email, password string) (*UserProfile, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ErrValidation, msgLoginRequired)
	}
	user, ok := s.Current()
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, msgUserNotFound)
	}

	l := s.l.WithField("email", email)
	cred := &Credential{}
	if !store.Load(s.s, store.PasswordKey(user.ID), cred, l) {
		cred = nil
	}
	// hash even on an email mismatch so both failures take the same time
	passwordOk := cred.Matches(password)
	if user.Email != email || !passwordOk {
		l.Info("login rejected")
		return nil, apperr.New(apperr.ErrAuth, msgInvalidLogin)
	}

	if fresh, err := newCredential(password); err != nil {
		l.WithError(err).Warn("can't rehash password")
	} else if err := store.Save(s.s, store.PasswordKey(user.ID), fresh, l); err != nil {
		l.WithError(err).Warn("keeping previous credential")
	}
	s.startSession(user, l)
	l.Info("logged in")
	return user, nil
}

// Logout drops the resident profile, its credential and the session.
// Calling it without a resident profile is a no-op.
func (s *Service) Logout() error {
	if user, ok := s.Current(); ok {
		if err := store.Remove(s.s, store.PasswordKey(user.ID), s.l); err != nil {
			return err
		}
	}
	if err := store.Remove(s.s, store.KeyUser, s.l); err != nil {
		return err
	}
	return store.Remove(s.s, store.KeySession, s.l)
}

// Current returns the resident profile.
func (s *Service) Current() (*UserProfile, bool) {
	user := &UserProfile{}
	if !store.Load(s.s, store.KeyUser, user, s.l) {
		return nil, false
	}
	return user, true
}

func (s *Service) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Service) Session() (*Session, bool) {
	sess := &Session{}
	if !store.Load(s.s, store.KeySession, sess, s.l) {
		return nil, false
	}
	return sess, true
}

func (s *Service) startSession(user *UserProfile, l *log.Entry) {
	sess := &Session{UserID: user.ID, Email: user.Email, StartedAt: s.now().UTC()}
	if err := store.Save(s.s, store.KeySession, sess, l); err != nil {
		l.WithError(err).Warn("session not recorded")
	}
}
