package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/devicetrack/internal/db"
)

// Patch is a sparse set of fields applied to many records at once. Empty
// fields are left untouched.
type Patch struct {
	Location  string
	Condition string
}

// BulkUpdate applies the patch to every record in ids and returns the number
// of rows that matched. Unknown ids are ignored. updated_at is refreshed even
// when the patch is empty.
func BulkUpdate(ctx context.Context, q db.DBTX, ids []int64, p Patch) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if p.Location != "" {
		sets = append(sets, "location = ?")
		args = append(args, p.Location)
	}
	if p.Condition != "" {
		sets = append(sets, "condition = ?")
		args = append(args, p.Condition)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	for _, id := range ids {
		args = append(args, id)
	}

	result, err := q.ExecContext(ctx,
		`UPDATE inventory SET `+strings.Join(sets, ", ")+` WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk updating items: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting updated items: %w", err)
	}
	return n, nil
}
