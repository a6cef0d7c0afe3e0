package auth

import "fmt"

// Operation names a protected business operation. Each declares its required
// role set in RolePolicy; the guard consults the table instead of per-handler
// ad hoc checks.
type Operation string

const (
	OpDocumentUpload Operation = "document.upload"
	OpDocumentList   Operation = "document.list"
	OpDocumentGet    Operation = "document.get"
	OpDocumentDelete Operation = "document.delete"

	OpIngestionTrigger Operation = "ingestion.trigger"

	OpUserCreate Operation = "user.create"
	OpUserList   Operation = "user.list"
	OpUserGet    Operation = "user.get"
	OpUserUpdate Operation = "user.update"
	OpUserDelete Operation = "user.delete"
)

// RolePolicy maps each operation to its required role set. An empty set means
// any authenticated identity may proceed; otherwise one matching role
// suffices. Ownership checks, where an operation has them, run afterwards
// inside the handler because they need the resource's owner field.
var RolePolicy = map[Operation][]Role{
	OpDocumentUpload: {},
	OpDocumentList:   {},
	OpDocumentGet:    {},
	OpDocumentDelete: {},

	OpIngestionTrigger: {},

	OpUserCreate: {RoleAdmin},
	OpUserList:   {RoleAdmin},
	OpUserGet:    {RoleAdmin},
	OpUserUpdate: {RoleAdmin},
	OpUserDelete: {RoleAdmin},
}

// Authorize applies the role gate for the operation. The identity must come
// from a successful Authenticate call; the guard never re-derives it.
func Authorize(identity Identity, op Operation) error {
	required, ok := RolePolicy[op]
	if !ok {
		return fmt.Errorf("%w: undeclared operation %q", ErrForbidden, op)
	}
	if len(required) == 0 {
		return nil
	}
	for _, role := range required {
		if identity.HasRole(role) {
			return nil
		}
	}
	return ErrForbidden
}

// CanModifyResource applies the ownership gate with ADMIN override: the owner
// or any ADMIN may mutate or delete the resource.
func CanModifyResource(identity Identity, ownerID string) bool {
	return identity.ID == ownerID || identity.IsAdmin()
}

// OwnsResource applies the strict ownership gate used by the ingestion
// trigger, which grants no ADMIN override.
func OwnsResource(identity Identity, ownerID string) bool {
	return identity.ID == ownerID
}
