package maintenance

import (
	"context"
	"fmt"
	"testing"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/ident"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

func TestSeed(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	res, err := Seed(ctx, database)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.Schools != 9 || res.Items != 8 || res.Skipped {
		t.Errorf("unexpected result %+v", res)
	}

	items, _ := store.ListItems(ctx, database, store.ItemFilter{Condition: model.ConditionDamaged})
	if len(items) != 1 || items[0].SchoolName != "GPS Khusropur" {
		t.Errorf("unexpected damaged items %+v", items)
	}

	again, err := Seed(ctx, database)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if !again.Skipped {
		t.Error("expected the second seed to be skipped")
	}
	if n, _ := store.CountSchools(ctx, database); n != 9 {
		t.Errorf("expected 9 schools after reseed, got %d", n)
	}
}

func TestBackfillItemIDs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := Seed(ctx, database); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	n := 0
	gen := func() (string, error) {
		n++
		return fmt.Sprintf("INV-1-%06d", n), nil
	}

	var seen []string
	updated, err := BackfillItemIDs(ctx, database, gen, func(_ int64, itemID string) {
		seen = append(seen, itemID)
	})
	if err != nil {
		t.Fatalf("BackfillItemIDs: %v", err)
	}
	if updated != 8 || len(seen) != 8 {
		t.Errorf("expected 8 updates, got %d (%d callbacks)", updated, len(seen))
	}

	remaining, _ := store.ListItemsWithoutItemID(ctx, database)
	if len(remaining) != 0 {
		t.Errorf("expected no items without id, got %d", len(remaining))
	}

	updated, err = BackfillItemIDs(ctx, database, ident.NewItemID, nil)
	if err != nil || updated != 0 {
		t.Errorf("second backfill: updated=%d err=%v", updated, err)
	}
}
