package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *MemStore) {
	t.Helper()
	store := NewMemStore()
	svc, err := NewService(store, "test-secret", opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestRegisterDefaultsAndStripsHash(t *testing.T) {
	svc, store := newTestService(t)

	identity, err := svc.Register(context.Background(), "Alice", "a@x.com", "password123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if identity.ID == "" {
		t.Fatalf("expected generated id")
	}
	if identity.PasswordHash != "" {
		t.Fatalf("password hash leaked from Register")
	}
	if len(identity.Roles) != 1 || identity.Roles[0] != RoleViewer {
		t.Fatalf("expected default VIEWER role, got %v", identity.Roles)
	}

	stored, err := store.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if stored.PasswordHash == "" || strings.Contains(stored.PasswordHash, "password123") {
		t.Fatalf("stored hash missing or contains plaintext")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a@x.com", "password123", nil); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "", "a@x.com", "differentpass", nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"malformed email", "not-an-email", "password123"},
		{"short password", "b@x.com", "short"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, "", tc.email, tc.password, nil); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a@x.com", "password123", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, unknownErr := svc.Login(ctx, "nobody@x.com", "password123")
	_, _, wrongErr := svc.Login(ctx, "a@x.com", "wrongpassword")
	if !errors.Is(unknownErr, ErrUnauthorized) || !errors.Is(wrongErr, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for both, got %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("unknown-email and wrong-password failures differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "a@x.com", "password123", []Role{RoleEditor, RoleAdmin})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, expiresAt, err := svc.Login(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	claims, err := svc.parseToken(token)
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Fatalf("sub claim %q does not match identity id %q", claims.Subject, registered.ID)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "EDITOR" || claims.Roles[1] != "ADMIN" {
		t.Fatalf("roles snapshot does not match identity roles: %v", claims.Roles)
	}

	identity, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.ID != registered.ID {
		t.Fatalf("unexpected identity: %s", identity.ID)
	}
	if identity.PasswordHash != "" {
		t.Fatalf("password hash leaked from Authenticate")
	}
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a@x.com", "password123", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	truncated := token[:len(token)-1]
	if _, err := svc.Authenticate(ctx, truncated); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	current := time.Now().UTC()
	svc, _ := newTestService(t, WithClock(func() time.Time { return current }), WithTokenTTL(time.Hour))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a@x.com", "password123", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Valid while the clock is inside the TTL.
	if _, err := svc.Authenticate(ctx, token); err != nil {
		t.Fatalf("Authenticate before expiry: %v", err)
	}

	current = current.Add(time.Hour + time.Minute)
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestDeletedIdentityInvalidatesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "", "a@x.com", "password123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.DeleteIdentity(ctx, registered.ID); err != nil {
		t.Fatalf("DeleteIdentity: %v", err)
	}

	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after deletion, got %v", err)
	}
}

func TestRoleChangeVisibleOnNextAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "", "a@x.com", "password123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.UpdateIdentity(ctx, registered.ID, IdentityUpdate{Roles: []Role{RoleAdmin}}); err != nil {
		t.Fatalf("UpdateIdentity: %v", err)
	}
	identity, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !identity.IsAdmin() {
		t.Fatalf("expected fresh roles on authenticate, got %v", identity.Roles)
	}
}

func TestUpdateIdentityKeepsRolesNonEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "", "a@x.com", "password123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	name := "Renamed"
	updated, err := svc.UpdateIdentity(ctx, registered.ID, IdentityUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateIdentity: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("unexpected name: %s", updated.Name)
	}
	if len(updated.Roles) == 0 {
		t.Fatalf("role set must stay non-empty")
	}
}

func TestGetIdentityMissing(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.GetIdentity(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
