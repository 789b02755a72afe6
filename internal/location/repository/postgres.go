package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/glowdesk/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, l *model.Location) error {
	query := `
		INSERT INTO locations (
			id, tenant_id, name, description, is_active, created_at, updated_at
		)
		VALUES (
			:id, :tenant_id, :name, :description, :is_active, :created_at, :updated_at
		)`
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Location, error) {
	var l model.Location
	err := r.DB.GetContext(ctx, &l,
		`SELECT * FROM locations WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindAll(ctx context.Context, tenantID string, activeOnly bool) ([]model.Location, error) {
	query := `SELECT * FROM locations WHERE tenant_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name ASC`

	items := []model.Location{}
	err := r.DB.SelectContext(ctx, &items, query, tenantID)
	return items, err
}

func (r *PGRepository) Update(ctx context.Context, l *model.Location) error {
	query := `
		UPDATE locations SET
			name = :name,
			description = :description,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`
	res, err := r.DB.NamedExecContext(ctx, query, l)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM locations WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
