package views

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a duplicate key.
const uniqueViolation = "23505"

// PostgresStore implements Store backed by the view table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store using db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const viewColumns = `id, project_id, owner_id, name, icon, type, data, columns, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*View, error) {
	var (
		v       View
		ownerID sql.NullString
		icon    sql.NullString
		columns []byte
	)
	if err := row.Scan(&v.ID, &v.ProjectID, &ownerID, &v.Name, &icon, &v.Type,
		&v.Data, &columns, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.OwnerID = ownerID.String
	v.Icon = icon.String
	if len(columns) > 0 {
		if err := json.Unmarshal(columns, &v.Columns); err != nil {
			return nil, fmt.Errorf("failed to decode columns: %w", err)
		}
	}
	return &v, nil
}

// encodeColumns renders columns as text for the jsonb column.
func encodeColumns(columns map[string]any) (sql.NullString, error) {
	if columns == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(columns)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode columns: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *PostgresStore) Add(ctx context.Context, view *View) error {
	columns, err := encodeColumns(view.Columns)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	view.CreatedAt = now
	view.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO view (`+viewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, view.ID, view.ProjectID, nullable(view.OwnerID), view.Name, nullable(view.Icon),
		view.Type, view.Data, columns, view.CreatedAt, view.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("view %s: %w", view.ID, ErrViewExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert view: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, projectID string, id uuid.UUID) (*View, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+viewColumns+`
		FROM view
		WHERE project_id = $1 AND id = $2
	`, projectID, id)

	view, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(projectID, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view: %w", err)
	}
	return view, nil
}

func (s *PostgresStore) ListByProject(ctx context.Context, projectID string) ([]*View, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+viewColumns+`
		FROM view
		WHERE project_id = $1
		ORDER BY updated_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	list := make([]*View, 0)
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		list = append(list, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating views: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) Update(ctx context.Context, view *View) error {
	columns, err := encodeColumns(view.Columns)
	if err != nil {
		return err
	}

	updatedAt := time.Now().UTC()
	var createdAt time.Time
	err = s.db.QueryRowContext(ctx, `
		UPDATE view
		SET name = $1, icon = $2, data = $3, columns = $4, updated_at = $5
		WHERE project_id = $6 AND id = $7
		RETURNING created_at
	`, view.Name, nullable(view.Icon), view.Data, columns, updatedAt,
		view.ProjectID, view.ID).Scan(&createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return notFound(view.ProjectID, view.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update view: %w", err)
	}

	view.CreatedAt = createdAt
	view.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, projectID string, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM view
		WHERE project_id = $1 AND id = $2
	`, projectID, id)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound(projectID, id)
	}
	return nil
}
