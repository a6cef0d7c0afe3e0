package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	defaultIssuer   = "docmesh"
	defaultTokenTTL = time.Hour

	minPasswordLength = 8
)

// Service issues signed credentials at login and verifies them on behalf of
// every downstream service. It holds no session state: a token is validated
// using only the signing secret plus a fresh identity lookup.
type Service struct {
	store  Store
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) error {
		if v := strings.TrimSpace(issuer); v != "" {
			s.issuer = v
		}
		return nil
	}
}

// WithTokenTTL configures the fixed token lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.ttl = ttl
		}
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewService constructs a Service. The signing secret is required; there is no
// ambient lookup of configuration.
func NewService(store Store, secret string, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	svc := &Service{
		store:  store,
		secret: []byte(secret),
		issuer: defaultIssuer,
		ttl:    defaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// TokenTTL exposes the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.ttl
}

// Register creates a new identity. A duplicate email fails with ErrConflict
// whether it is caught by the pre-check or by the store's uniqueness
// constraint; the check-then-create window is closed by the latter.
func (s *Service) Register(ctx context.Context, name, email, password string, roles []Role) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Identity{}, fmt.Errorf("%w: email is not well-formed", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return Identity{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(roles) == 0 {
		roles = []Role{RoleViewer}
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return Identity{}, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return Identity{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	identity := Identity{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.store.Create(ctx, &identity); err != nil {
		if errors.Is(err, ErrConflict) {
			return Identity{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return Identity{}, err
	}
	return identity.Redacted(), nil
}

// Login validates submitted credentials and mints a signed token. An unknown
// email and a wrong password produce the same ErrUnauthorized so callers
// cannot enumerate registered accounts.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", time.Time{}, ErrUnauthorized
	}
	identity, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrUnauthorized
		}
		return "", time.Time{}, err
	}
	if err := VerifyPassword(identity.PasswordHash, password); err != nil {
		return "", time.Time{}, ErrUnauthorized
	}
	return s.signToken(*identity)
}

// Authenticate verifies a bearer token and re-resolves the identity behind it.
// The lookup is mandatory: a deleted account invalidates all of its
// outstanding tokens immediately, and role changes take effect on the next
// request rather than at token expiry.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	identity, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Identity{}, ErrInvalidToken
		}
		return Identity{}, err
	}
	return identity.Redacted(), nil
}

// CreateIdentity is the admin-initiated creation path. Unlike Register it
// accepts an explicit role set.
func (s *Service) CreateIdentity(ctx context.Context, name, email, password string, roles []Role) (Identity, error) {
	return s.Register(ctx, name, email, password, roles)
}

// GetIdentity returns a single identity without credential material.
func (s *Service) GetIdentity(ctx context.Context, id string) (Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Identity{}, fmt.Errorf("%w: identity id is required", ErrInvalidInput)
	}
	identity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	return identity.Redacted(), nil
}

// ListIdentities returns all identities without credential material.
func (s *Service) ListIdentities(ctx context.Context) ([]Identity, error) {
	identities, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Identity, 0, len(identities))
	for _, identity := range identities {
		out = append(out, identity.Redacted())
	}
	return out, nil
}

// UpdateIdentity mutates name and/or roles. Roles stay non-empty: an update
// may replace the set but never clear it.
func (s *Service) UpdateIdentity(ctx context.Context, id string, upd IdentityUpdate) (Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Identity{}, fmt.Errorf("%w: identity id is required", ErrInvalidInput)
	}
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		upd.Name = &trimmed
	}
	identity, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return Identity{}, err
	}
	return identity.Redacted(), nil
}

// DeleteIdentity removes the identity. Resources owned by it are cascaded by
// the store schema so no document is silently orphaned.
func (s *Service) DeleteIdentity(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: identity id is required", ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}
