package maintenance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/store"
)

// BackfillItemIDs assigns a generated item id to every record that has none
// and returns how many were updated. fn, if non-nil, is called for each
// assignment.
func BackfillItemIDs(ctx context.Context, database *sql.DB, newItemID func() (string, error), fn func(id int64, itemID string)) (int, error) {
	ids, err := store.ListItemsWithoutItemID(ctx, database)
	if err != nil {
		return 0, err
	}

	updated := 0
	err = db.InTx(ctx, database, func(tx *sql.Tx) error {
		for _, id := range ids {
			itemID, err := newItemID()
			if err != nil {
				return fmt.Errorf("generating item id for %d: %w", id, err)
			}
			if err := store.SetItemID(ctx, tx, id, itemID); err != nil {
				return err
			}
			updated++
			if fn != nil {
				fn(id, itemID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
