package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/glowdesk/inventory-service/internal/inventory/dto"
	"github.com/glowdesk/inventory-service/internal/model"
)

const uniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// failure. Callers use it to map duplicates to business rule errors.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const stockColumns = `
	i.id, i.tenant_id, i.product_id, i.location_id, i.quantity,
	i.reorder_level, i.reorder_quantity, i.unit_cost, i.supplier_id,
	i.metadata, i.created_at, i.updated_at,
	p.name AS product_name, p.sku AS product_sku,
	p.category AS product_category, p.price AS product_price`

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]dto.StockItem, int, error) {
	conditions := []string{"i.tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.Search != "" {
		conditions = append(conditions, "(p.name ILIKE :search OR p.sku ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}
	if f.Category != "" {
		conditions = append(conditions, "p.category = :category")
		args["category"] = f.Category
	}
	if f.LowStockOnly {
		conditions = append(conditions, "i.quantity < i.reorder_level")
	}

	from := ` FROM inventory i JOIN products p ON p.id = i.product_id AND p.tenant_id = i.tenant_id`
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*)"+from+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err = rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	orderBy := " ORDER BY i.updated_at DESC"
	switch f.SortBy {
	case "quantity":
		orderBy = " ORDER BY i.quantity"
	case "product_name":
		orderBy = " ORDER BY p.name"
	case "updated_at":
		orderBy = " ORDER BY i.updated_at"
	}
	if f.SortBy != "" {
		if f.SortDir == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := "SELECT " + stockColumns + from + whereClause + orderBy
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	items := []dto.StockItem{}
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) GetByID(ctx context.Context, tenantID, id string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.DB.GetContext(ctx, &inv,
		`SELECT * FROM inventory WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) GetByProduct(ctx context.Context, tenantID, productID string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.DB.GetContext(ctx, &inv,
		`SELECT * FROM inventory WHERE tenant_id = $1 AND product_id = $2`, tenantID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) BatchGetByProducts(ctx context.Context, tenantID string, productIDs []string) ([]model.Inventory, error) {
	if len(productIDs) == 0 {
		return []model.Inventory{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT * FROM inventory WHERE tenant_id = ? AND product_id IN (?)`,
		tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.Inventory
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

const insertInventoryQuery = `
	INSERT INTO inventory (
		id, tenant_id, product_id, location_id, quantity,
		reorder_level, reorder_quantity, unit_cost, supplier_id,
		metadata, created_at, updated_at
	)
	VALUES (
		:id, :tenant_id, :product_id, :location_id, :quantity,
		:reorder_level, :reorder_quantity, :unit_cost, :supplier_id,
		:metadata, :created_at, :updated_at
	)`

const updateInventoryQuery = `
	UPDATE inventory SET
		location_id = :location_id,
		quantity = :quantity,
		reorder_level = :reorder_level,
		reorder_quantity = :reorder_quantity,
		unit_cost = :unit_cost,
		supplier_id = :supplier_id,
		metadata = :metadata,
		updated_at = :updated_at
	WHERE tenant_id = :tenant_id AND id = :id`

const insertTransactionQuery = `
	INSERT INTO inventory_transactions (
		id, tenant_id, inventory_id, product_id, transaction_type,
		quantity, previous_quantity, new_quantity,
		reference_type, reference_id, notes, metadata, performed_by, created_at
	)
	VALUES (
		:id, :tenant_id, :inventory_id, :product_id, :transaction_type,
		:quantity, :previous_quantity, :new_quantity,
		:reference_type, :reference_id, :notes, :metadata, :performed_by, :created_at
	)`

func (r *PGRepository) CreateWithEntry(ctx context.Context, inv *model.Inventory, entry *model.InventoryTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, insertInventoryQuery, inv); err != nil {
		return err
	}
	if _, err = tx.NamedExecContext(ctx, insertTransactionQuery, entry); err != nil {
		return fmt.Errorf("failed to log initial entry: %w", err)
	}
	return tx.Commit()
}

// UpdateWithEntry writes the stock row and, when entry is non-nil, its
// adjustment ledger row in one transaction.
func (r *PGRepository) UpdateWithEntry(ctx context.Context, inv *model.Inventory, entry *model.InventoryTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, updateInventoryQuery, inv)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	if entry != nil {
		if _, err = tx.NamedExecContext(ctx, insertTransactionQuery, entry); err != nil {
			return fmt.Errorf("failed to log adjustment: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PGRepository) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM inventory WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) ListServiceProducts(ctx context.Context, tenantID, serviceID string) ([]model.ServiceProduct, error) {
	items := []model.ServiceProduct{}
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM service_products WHERE tenant_id = $1 AND service_id = $2 ORDER BY created_at`,
		tenantID, serviceID)
	return items, err
}

func (r *PGRepository) CreateServiceProduct(ctx context.Context, sp *model.ServiceProduct) error {
	query := `
		INSERT INTO service_products (
			id, tenant_id, service_id, product_id, quantity, is_optional,
			created_at, updated_at
		)
		VALUES (
			:id, :tenant_id, :service_id, :product_id, :quantity, :is_optional,
			:created_at, :updated_at
		)`
	_, err := r.DB.NamedExecContext(ctx, query, sp)
	return err
}

func (r *PGRepository) DeleteServiceProduct(ctx context.Context, tenantID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM service_products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.TransactionType != "" {
		conditions = append(conditions, "transaction_type = :transaction_type")
		args["transaction_type"] = f.TransactionType
	}
	if f.ReferenceType != "" {
		conditions = append(conditions, "reference_type = :reference_type")
		args["reference_type"] = f.ReferenceType
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at <= :to")
		args["to"] = *f.To
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	rows, err := r.DB.NamedQueryContext(ctx,
		"SELECT count(*) FROM inventory_transactions"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err = rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM inventory_transactions" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	items := []model.InventoryTransaction{}
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) GetTransaction(ctx context.Context, tenantID, id string) (*model.InventoryTransaction, error) {
	var t model.InventoryTransaction
	err := r.DB.GetContext(ctx, &t,
		`SELECT * FROM inventory_transactions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) InsertTransaction(ctx context.Context, t *model.InventoryTransaction) error {
	_, err := r.DB.NamedExecContext(ctx, insertTransactionQuery, t)
	return err
}

func (r *PGRepository) UpdateTransactionMetadata(ctx context.Context, tenantID, id string, metadata json.RawMessage) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE inventory_transactions SET metadata = $1 WHERE tenant_id = $2 AND id = $3`,
		metadata, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) DeleteTransaction(ctx context.Context, tenantID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM inventory_transactions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const insertAlertQuery = `
	INSERT INTO inventory_alerts (
		id, tenant_id, product_id, alert_type, severity, status,
		metadata, resolved_at, created_at, updated_at
	)
	VALUES (
		:id, :tenant_id, :product_id, :alert_type, :severity, :status,
		:metadata, :resolved_at, :created_at, :updated_at
	)`

// ApplyDeduction commits every prepared line in one transaction: stock
// update, ledger insert, then the alert candidate if present. An alert is
// skipped when an active one of the same (product, type) already exists; the
// partial unique index backs this, so a unique violation on insert is the
// de-dup signal, not a failure. Returns the alerts actually created.
func (r *PGRepository) ApplyDeduction(ctx context.Context, applies []dto.DeductionApply) ([]model.InventoryAlert, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created := []model.InventoryAlert{}
	for i := range applies {
		a := &applies[i]

		res, err := tx.NamedExecContext(ctx, updateInventoryQuery, &a.Inventory)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, sql.ErrNoRows
		}

		if _, err = tx.NamedExecContext(ctx, insertTransactionQuery, &a.Entry); err != nil {
			return nil, fmt.Errorf("failed to log deduction: %w", err)
		}

		if a.Alert == nil {
			continue
		}
		var exists bool
		err = tx.GetContext(ctx, &exists, `
			SELECT EXISTS (
				SELECT 1 FROM inventory_alerts
				WHERE tenant_id = $1 AND product_id = $2 AND alert_type = $3 AND status = 'active'
			)`, a.Alert.TenantID, a.Alert.ProductID, a.Alert.AlertType)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		if _, err = tx.NamedExecContext(ctx, insertAlertQuery, a.Alert); err != nil {
			if IsUniqueViolation(err) {
				continue
			}
			return nil, fmt.Errorf("failed to create alert: %w", err)
		}
		created = append(created, *a.Alert)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PGRepository) ListAlerts(ctx context.Context, f *dto.AlertFilters) ([]model.InventoryAlert, int, error) {
	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.AlertType != "" {
		conditions = append(conditions, "alert_type = :alert_type")
		args["alert_type"] = f.AlertType
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	rows, err := r.DB.NamedQueryContext(ctx,
		"SELECT count(*) FROM inventory_alerts"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err = rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM inventory_alerts" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	items := []model.InventoryAlert{}
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) GetAlert(ctx context.Context, tenantID, id string) (*model.InventoryAlert, error) {
	var a model.InventoryAlert
	err := r.DB.GetContext(ctx, &a,
		`SELECT * FROM inventory_alerts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// CreateAlert returns (false, nil) when an active alert of the same
// (product, type) already exists.
func (r *PGRepository) CreateAlert(ctx context.Context, alert *model.InventoryAlert) (bool, error) {
	_, err := r.DB.NamedExecContext(ctx, insertAlertQuery, alert)
	if err != nil {
		if IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PGRepository) UpdateAlert(ctx context.Context, alert *model.InventoryAlert) error {
	query := `
		UPDATE inventory_alerts SET
			status = :status,
			metadata = :metadata,
			resolved_at = :resolved_at,
			updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id`
	res, err := r.DB.NamedExecContext(ctx, query, alert)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) DeleteAlert(ctx context.Context, tenantID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM inventory_alerts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) LowStockReport(ctx context.Context, tenantID string) ([]dto.LowStockRow, error) {
	rows := []dto.LowStockRow{}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT i.product_id, p.name AS product_name, i.quantity,
		       i.reorder_level, i.reorder_quantity
		FROM inventory i
		JOIN products p ON p.id = i.product_id AND p.tenant_id = i.tenant_id
		WHERE i.tenant_id = $1 AND i.quantity < i.reorder_level
		ORDER BY i.quantity ASC`, tenantID)
	return rows, err
}

func (r *PGRepository) StockValueReport(ctx context.Context, tenantID, category string) ([]dto.StockValueRow, error) {
	query := `
		SELECT i.product_id, p.name AS product_name, p.category,
		       i.quantity,
		       CASE WHEN i.unit_cost > 0 THEN i.unit_cost ELSE p.price END AS unit_value,
		       i.quantity * CASE WHEN i.unit_cost > 0 THEN i.unit_cost ELSE p.price END AS total_value
		FROM inventory i
		JOIN products p ON p.id = i.product_id AND p.tenant_id = i.tenant_id
		WHERE i.tenant_id = $1`
	args := []interface{}{tenantID}
	if category != "" {
		query += ` AND p.category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY total_value DESC`

	rows := []dto.StockValueRow{}
	err := r.DB.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

func (r *PGRepository) MovementSummary(ctx context.Context, f *dto.ReportFilters) ([]dto.MovementSummaryRow, error) {
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{f.TenantID}
	if f.From != nil {
		args = append(args, *f.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `
		SELECT transaction_type, SUM(quantity) AS total_quantity, COUNT(*) AS count
		FROM inventory_transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY transaction_type
		ORDER BY transaction_type`

	rows := []dto.MovementSummaryRow{}
	err := r.DB.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

func (r *PGRepository) ProductPerformance(ctx context.Context, f *dto.ReportFilters) ([]dto.ProductPerformanceRow, error) {
	conditions := []string{"t.tenant_id = $1"}
	args := []interface{}{f.TenantID}
	if f.From != nil {
		args = append(args, *f.From)
		conditions = append(conditions, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conditions = append(conditions, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}

	query := `
		SELECT t.product_id, p.name AS product_name,
		       COALESCE(SUM(CASE WHEN t.transaction_type = 'deduction' THEN -t.quantity ELSE 0 END), 0) AS deducted,
		       COALESCE(SUM(CASE WHEN t.transaction_type IN ('initial', 'addition') THEN t.quantity ELSE 0 END), 0) AS added,
		       COALESCE(SUM(CASE WHEN t.transaction_type = 'adjustment' THEN t.quantity ELSE 0 END), 0) AS adjusted,
		       COALESCE(SUM(t.quantity), 0) AS net_change
		FROM inventory_transactions t
		JOIN products p ON p.id = t.product_id AND p.tenant_id = t.tenant_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY t.product_id, p.name
		ORDER BY net_change DESC`

	rows := []dto.ProductPerformanceRow{}
	err := r.DB.SelectContext(ctx, &rows, query, args...)
	return rows, err
}
