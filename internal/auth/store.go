package auth

import "context"

// Store describes persistence operations required by the auth subsystem.
// The store's email uniqueness constraint is the authority on duplicates:
// Create must return ErrConflict when another identity holds the same email,
// regardless of any pre-check done by the caller.
type Store interface {
	Create(ctx context.Context, identity *Identity) error
	FindByID(ctx context.Context, id string) (*Identity, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	List(ctx context.Context) ([]*Identity, error)
	Update(ctx context.Context, id string, upd IdentityUpdate) (*Identity, error)
	Delete(ctx context.Context, id string) error
}
