package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// Manager orchestrates the credential/session lifecycle. It is stateless
// between calls: every operation is a self-contained transaction against
// the injected store and the token service.
type Manager struct {
	store          UserStore
	cookieName     string
	cookieDomain   string
	cookieDuration time.Duration
	tokenService   TokenService
	hasher         Hasher
	logger         Logger
}

// New returns a Manager wired to the given store and configuration.
func New(store UserStore, cfg Config) *Manager {
	return &Manager{
		store:          store,
		cookieName:     cfg.GetCookieName(),
		cookieDomain:   cfg.GetCookieDomain(),
		cookieDuration: time.Duration(cfg.GetTokenExpiration()) * time.Hour,
		tokenService:   NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenExpiration(), defLogger{}),
		hasher:         SHA256Hasher{},
		logger:         defLogger{},
	}
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithHasher swaps the password hasher. Changing it invalidates digests
// produced by the previous one.
func (m *Manager) WithHasher(hasher Hasher) *Manager {
	if hasher != nil {
		m.hasher = hasher
	}
	return m
}

func (m *Manager) WithTokenService(ts TokenService) *Manager {
	if ts != nil {
		m.tokenService = ts
	}
	return m
}

// Tokens returns the TokenService instance used by this Manager
func (m *Manager) Tokens() TokenService {
	return m.tokenService
}

// Register creates a credential record and issues a session token. A
// collision on email or username fails with ErrUserAlreadyExists: once via
// the identifier pre-check, and again atomically at insert through the
// store's unique indexes, which is what settles concurrent registrations.
func (m *Manager) Register(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload")
	}

	existing, err := m.store.Find(ctx, Filter{Email: creds.Email, Username: creds.Username})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrUserAlreadyExists
	}

	digest, err := m.hasher.Digest(creds.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:          creds.Email,
		Username:       creds.Username,
		Name:           creds.Name,
		ProfilePicture: creds.ProfilePicture,
		PasswordDigest: digest,
	}

	id, err := m.store.InsertOne(ctx, user)
	if err != nil {
		m.logger.Error("Register insert failed", "error", err, "identifier", creds.Email)
		return nil, err
	}
	user.ID = id

	return m.result(user)
}

// Authenticate verifies an identifier/password pair and issues a token.
// Unknown identifier and wrong password yield the same error kind so a
// caller cannot tell which check failed.
//
// The identifier may resolve to more than one record, since one user's
// username can equal another user's email. The password settles which
// record the caller meant.
func (m *Manager) Authenticate(ctx context.Context, identifier, password string) (*AuthResult, error) {
	users, err := m.store.Find(ctx, ByIdentifier(identifier))
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if err := m.hasher.Compare(password, user.PasswordDigest); err == nil {
			return m.result(user)
		}
	}

	return nil, ErrInvalidCredentials
}

// CheckIdentifier reports whether any record already claims the given
// email or username.
func (m *Manager) CheckIdentifier(ctx context.Context, identifier string) (bool, error) {
	users, err := m.store.Find(ctx, ByIdentifier(identifier))
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}

// UpdateUser applies a partial patch to the record with the given id and
// re-issues a token reflecting the merged view. The id itself is never
// patchable; a password field is digested before it reaches the store.
func (m *Manager) UpdateUser(ctx context.Context, id string, patch UserPatch) (*AuthResult, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	users, err := m.store.Find(ctx, ByID(uid))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}

	if patch.Password != nil {
		digest, err := m.hasher.Digest(*patch.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordDigest = &digest
		patch.Password = nil
	}

	if !patch.IsZero() {
		if err := m.store.UpdateOne(ctx, ByID(uid), patch); err != nil {
			m.logger.Error("UpdateUser patch failed", "error", err, "patch", print.MaybePrettyJSON(patch))
			return nil, err
		}
	}

	return m.result(patch.ApplyTo(users[0]))
}

// DeleteUser removes the record with the given id, reporting true on
// removal. Outstanding tokens for the id keep verifying cryptographically
// but stop resolving to a user.
func (m *Manager) DeleteUser(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, ErrUserNotFound
	}

	users, err := m.store.Find(ctx, ByID(uid))
	if err != nil {
		return false, err
	}
	if len(users) == 0 {
		return false, ErrUserNotFound
	}

	return m.store.DeleteOne(ctx, ByID(uid))
}

// UserFromToken validates a raw token and resolves its subject against the
// store. An invalid token or a subject with no record yields (nil, nil):
// an unauthenticated session is a routine state, not a failure. Store
// faults still propagate.
func (m *Manager) UserFromToken(ctx context.Context, raw string) (*User, error) {
	if raw == "" {
		return nil, nil
	}

	claims, err := m.tokenService.Validate(raw)
	if err != nil {
		m.logger.Debug("UserFromToken rejected token", "error", err)
		return nil, nil
	}

	uid, err := uuid.Parse(claims.UserID())
	if err != nil {
		m.logger.Debug("UserFromToken claim subject is not an id", "claims", print.MaybePrettyJSON(claims))
		return nil, nil
	}

	users, err := m.store.Find(ctx, ByID(uid))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	return users[0].Sanitized(), nil
}

func (m *Manager) result(user *User) (*AuthResult, error) {
	token, err := m.tokenService.Generate(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token: token,
		User:  user.Sanitized(),
	}, nil
}
