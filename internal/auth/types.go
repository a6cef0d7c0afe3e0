package auth

import (
	"fmt"
	"strings"
	"time"
)

// Role is a coarse-grained permission tag attached to an identity.
type Role string

const (
	RoleViewer Role = "VIEWER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole validates a raw role tag against the fixed enumeration.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleViewer:
		return RoleViewer, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

// ParseRoles validates and deduplicates a list of raw role tags.
// An empty input yields the default role set.
func ParseRoles(raw []string) ([]Role, error) {
	if len(raw) == 0 {
		return []Role{RoleViewer}, nil
	}
	seen := make(map[Role]struct{}, len(raw))
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		role, err := ParseRole(r)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles, nil
}

// Identity is the authoritative user record.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the identity carries the given role.
func (i Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

// Redacted returns a copy of the identity with credential material stripped.
// Handlers return this shape; the hash must never leave the package boundary.
func (i Identity) Redacted() Identity {
	i.PasswordHash = ""
	return i
}

// IdentityUpdate describes a partial admin-initiated mutation. Nil fields are
// left untouched.
type IdentityUpdate struct {
	Name  *string
	Roles []Role
}
