package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
)

// ItemInput holds the writable fields of an inventory record.
type ItemInput struct {
	ItemID         string
	ItemName       string
	Category       string
	Quantity       int
	Condition      string
	Location       string
	ItemTag        string
	SchoolID       *int64
	MinStockLevel  *int
	Notes          string
	LastModifiedBy string
}

// ItemFilter narrows ListItems. Zero values match everything.
type ItemFilter struct {
	Search    string
	Category  string
	Location  string
	Condition string
	SchoolID  int64
}

const itemSelect = `SELECT i.id, i.item_id, i.item_name, i.category, i.quantity, i.condition, i.location,
        i.item_tag, i.school_id, i.min_stock_level, i.notes, i.last_modified_by,
        i.created_at, i.updated_at, COALESCE(s.name, '') AS school_name
 FROM inventory i
 LEFT JOIN schools s ON s.id = i.school_id`

// CreateItem inserts a new inventory record. Empty optional strings are
// stored as NULL; an empty condition defaults to WORKING.
func CreateItem(ctx context.Context, q db.DBTX, in ItemInput) (*model.Item, error) {
	if in.Condition == "" {
		in.Condition = model.ConditionWorking
	}

	now := time.Now().UTC()
	result, err := q.ExecContext(ctx,
		`INSERT INTO inventory (item_id, item_name, category, quantity, condition, location, item_tag,
		                        school_id, min_stock_level, notes, last_modified_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(in.ItemID), in.ItemName, in.Category, in.Quantity, in.Condition, in.Location,
		nullString(in.ItemTag), in.SchoolID, in.MinStockLevel, nullString(in.Notes), in.LastModifiedBy,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, q, id)
}

// GetItem returns an inventory record by ID, or nil if it does not exist.
func GetItem(ctx context.Context, q db.DBTX, id int64) (*model.Item, error) {
	rows, err := q.QueryContext(ctx, itemSelect+` WHERE i.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ListItems returns inventory records matching the filter, ordered by name.
func ListItems(ctx context.Context, q db.DBTX, f ItemFilter) ([]model.Item, error) {
	query := itemSelect + ` WHERE 1=1`
	var args []any

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query += ` AND (LOWER(i.item_name) LIKE ? OR LOWER(COALESCE(i.item_tag, '')) LIKE ?
		           OR LOWER(COALESCE(i.item_id, '')) LIKE ? OR LOWER(COALESCE(s.name, '')) LIKE ?)`
		args = append(args, like, like, like, like)
	}
	if f.Category != "" {
		query += ` AND i.category = ?`
		args = append(args, f.Category)
	}
	if f.Location != "" {
		query += ` AND i.location = ?`
		args = append(args, f.Location)
	}
	if f.Condition != "" {
		query += ` AND i.condition = ?`
		args = append(args, f.Condition)
	}
	if f.SchoolID > 0 {
		query += ` AND i.school_id = ?`
		args = append(args, f.SchoolID)
	}

	query += ` ORDER BY i.item_name, i.id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItem overwrites every writable field of an inventory record.
func UpdateItem(ctx context.Context, q db.DBTX, id int64, in ItemInput) error {
	_, err := q.ExecContext(ctx,
		`UPDATE inventory SET item_name = ?, category = ?, quantity = ?, condition = ?, location = ?,
		        item_tag = ?, school_id = ?, min_stock_level = ?, notes = ?, last_modified_by = ?,
		        updated_at = ?
		 WHERE id = ?`,
		in.ItemName, in.Category, in.Quantity, in.Condition, in.Location,
		nullString(in.ItemTag), in.SchoolID, in.MinStockLevel, nullString(in.Notes), in.LastModifiedBy,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// SetItemTag stores the generated tag of an inventory record.
func SetItemTag(ctx context.Context, q db.DBTX, id int64, tag string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE inventory SET item_tag = ?, updated_at = ? WHERE id = ?`,
		tag, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item tag: %w", err)
	}
	return nil
}

// DiscardItem marks an item as discarded. Records are never removed.
func DiscardItem(ctx context.Context, q db.DBTX, id int64) error {
	_, err := q.ExecContext(ctx,
		`UPDATE inventory SET location = ?, updated_at = ? WHERE id = ?`,
		model.LocationDiscarded, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("discarding item: %w", err)
	}
	return nil
}

// ListItemsWithoutItemID returns the IDs of records that predate item ids.
func ListItemsWithoutItemID(ctx context.Context, q db.DBTX) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM inventory WHERE item_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing items without item id: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetItemID assigns the human-readable item id of a record.
func SetItemID(ctx context.Context, q db.DBTX, id int64, itemID string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE inventory SET item_id = ?, updated_at = ? WHERE id = ?`,
		itemID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item id: %w", err)
	}
	return nil
}

// ListDefectiveItems returns items that are not working, damaged or
// discarded, most recently updated first.
func ListDefectiveItems(ctx context.Context, q db.DBTX) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx,
		itemSelect+` WHERE i.condition IN (?, ?, ?) ORDER BY i.updated_at DESC, i.id DESC`,
		model.ConditionNotWorking, model.ConditionDamaged, model.ConditionDiscarded,
	)
	if err != nil {
		return nil, fmt.Errorf("listing defective items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListLowStockItems returns items whose quantity is below their configured
// minimum stock level.
func ListLowStockItems(ctx context.Context, q db.DBTX) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx,
		itemSelect+` WHERE i.min_stock_level IS NOT NULL AND i.quantity < i.min_stock_level
		             AND i.location <> ? ORDER BY i.item_name, i.id`,
		model.LocationDiscarded,
	)
	if err != nil {
		return nil, fmt.Errorf("listing low stock items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.ItemID, &it.ItemName, &it.Category, &it.Quantity, &it.Condition,
			&it.Location, &it.ItemTag, &it.SchoolID, &it.MinStockLevel, &it.Notes, &it.LastModifiedBy,
			&it.CreatedAt, &it.UpdatedAt, &it.SchoolName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
