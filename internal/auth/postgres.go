package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"docmesh.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

const uniqueViolation = "23505"

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, identity *Identity) error {
	if identity.ID == "" {
		identity.ID = ids.New()
	}
	roles, err := json.Marshal(identity.Roles)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into identities(id, email, name, password_hash, roles) values($1,$2,$3,$4,$5)`,
		identity.ID, identity.Email, identity.Name, identity.PasswordHash, roles,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *PGStore) FindByID(ctx context.Context, id string) (*Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, name, password_hash, roles, created_at, updated_at from identities where id=$1`, id)
	return scanIdentity(row)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, name, password_hash, roles, created_at, updated_at from identities where email=$1`, email)
	return scanIdentity(row)
}

func (s *PGStore) List(ctx context.Context) ([]*Identity, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, email, name, password_hash, roles, created_at, updated_at from identities order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, identity)
	}
	return res, rows.Err()
}

func (s *PGStore) Update(ctx context.Context, id string, upd IdentityUpdate) (*Identity, error) {
	if upd.Name != nil {
		if _, err := s.db.ExecContext(ctx,
			`update identities set name=$1, updated_at=now() where id=$2`, *upd.Name, id); err != nil {
			return nil, err
		}
	}
	if len(upd.Roles) > 0 {
		roles, err := json.Marshal(upd.Roles)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.ExecContext(ctx,
			`update identities set roles=$1, updated_at=now() where id=$2`, roles, id); err != nil {
			return nil, err
		}
	}
	return s.FindByID(ctx, id)
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from identities where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*Identity, error) {
	var (
		identity Identity
		roles    []byte
	)
	if err := row.Scan(&identity.ID, &identity.Email, &identity.Name, &identity.PasswordHash,
		&roles, &identity.CreatedAt, &identity.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(roles, &identity.Roles); err != nil {
		return nil, err
	}
	return &identity, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
