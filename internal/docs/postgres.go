package docs

import (
	"context"
	"database/sql"
	"errors"

	"docmesh.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. The documents table carries an
// owner foreign key with ON DELETE CASCADE so deleting an identity never
// orphans its documents.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into documents(id, owner_id, title, description, file_path) values($1,$2,$3,$4,$5)`,
		doc.ID, doc.OwnerID, doc.Title, doc.Description, doc.FilePath,
	)
	return err
}

func (s *PGStore) FindByID(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, owner_id, title, description, file_path, created_at, updated_at from documents where id=$1`, id)
	var doc Document
	if err := row.Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.Description, &doc.FilePath,
		&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *PGStore) ListByOwner(ctx context.Context, ownerID string) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, owner_id, title, description, file_path, created_at, updated_at from documents where owner_id=$1 order by created_at asc`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.Description, &doc.FilePath,
			&doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &doc)
	}
	return res, rows.Err()
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from documents where id=$1`, id)
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
