package docs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmesh.org/internal/auth"
)

var (
	owner = auth.Identity{ID: "owner-1", Roles: []auth.Role{auth.RoleViewer}}
	admin = auth.Identity{ID: "admin-1", Roles: []auth.Role{auth.RoleAdmin}}
	other = auth.Identity{ID: "other-1", Roles: []auth.Role{auth.RoleEditor}}
)

func seedDocument(t *testing.T, svc *Service) Document {
	t.Helper()
	doc, err := svc.Create(context.Background(), owner, "quarterly report", "fy26 numbers", "/uploads/q.pdf")
	require.NoError(t, err)
	return doc
}

func TestCreateSetsOwner(t *testing.T) {
	svc := NewService(NewMemStore())
	doc := seedDocument(t, svc)

	assert.Equal(t, owner.ID, doc.OwnerID)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "quarterly report", doc.Title)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemStore())

	_, err := svc.Create(context.Background(), owner, "  ", "", "/uploads/x")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), owner, "title", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListForOwnerIsScoped(t *testing.T) {
	svc := NewService(NewMemStore())
	seedDocument(t, svc)

	_, err := svc.Create(context.Background(), other, "theirs", "", "/uploads/t.pdf")
	require.NoError(t, err)

	mine, err := svc.ListForOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, owner.ID, mine[0].OwnerID)
}

func TestDeleteOwnershipGate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner succeeds", func(t *testing.T) {
		svc := NewService(NewMemStore())
		doc := seedDocument(t, svc)
		assert.NoError(t, svc.Delete(ctx, owner, doc.ID))
	})

	t.Run("admin overrides ownership", func(t *testing.T) {
		svc := NewService(NewMemStore())
		doc := seedDocument(t, svc)
		assert.NoError(t, svc.Delete(ctx, admin, doc.ID))
	})

	t.Run("other identity is forbidden", func(t *testing.T) {
		svc := NewService(NewMemStore())
		doc := seedDocument(t, svc)
		assert.ErrorIs(t, svc.Delete(ctx, other, doc.ID), ErrForbidden)

		// The denial leaves the document untouched.
		_, err := svc.Get(ctx, owner, doc.ID)
		assert.NoError(t, err)
	})

	t.Run("missing document reports not found before ownership", func(t *testing.T) {
		svc := NewService(NewMemStore())
		assert.ErrorIs(t, svc.Delete(ctx, other, "no-such-doc"), ErrNotFound)
	})
}

func TestGetGate(t *testing.T) {
	svc := NewService(NewMemStore())
	doc := seedDocument(t, svc)
	ctx := context.Background()

	_, err := svc.Get(ctx, owner, doc.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, admin, doc.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, other, doc.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
