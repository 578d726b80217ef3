package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/dbx"
	"github.com/dmitrijs2005/studysync/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Document fields are kept in a JSONB column.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// orderClause renders the ORDER BY expression. Field names other than the
// timestamp columns are bound as the $3 parameter of the query.
func orderClause(o Order) (string, bool) {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	switch o.Field {
	case "", models.FieldCreatedAt:
		return "created_at " + dir + ", id " + dir, false
	case models.FieldUpdatedAt:
		return "updated_at " + dir + ", id " + dir, false
	default:
		return "fields->>($3::text) " + dir + ", created_at " + dir, true
	}
}

func (r *PostgresRepository) List(ctx context.Context, collection, ownerID string, order Order) ([]*models.Document, error) {
	clause, bindField := orderClause(order)
	query := `SELECT id, fields, created_at, updated_at FROM documents
		WHERE collection=$1 AND owner_id=$2
		ORDER BY ` + clause

	args := []any{collection, ownerID}
	if bindField {
		args = append(args, order.Field)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		d := models.Document{Collection: collection, OwnerID: ownerID}
		var raw []byte
		if err := rows.Scan(&d.ID, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &d.Fields); err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) error {
	raw, err := json.Marshal(models.UserFields(doc.Fields))
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	query := `INSERT INTO documents (id, collection, owner_id, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Collection, doc.OwnerID, raw, doc.CreatedAt, doc.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, collection, ownerID, id string, patch map[string]any, now time.Time) error {
	raw, err := json.Marshal(models.UserFields(patch))
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	query := `UPDATE documents SET fields = fields || $4::jsonb, updated_at = $5
		WHERE collection=$1 AND owner_id=$2 AND id=$3`
	res, err := r.db.ExecContext(ctx, query, collection, ownerID, id, raw, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, ownerID, id string) error {
	query := `DELETE FROM documents WHERE collection=$1 AND owner_id=$2 AND id=$3`
	if _, err := r.db.ExecContext(ctx, query, collection, ownerID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
