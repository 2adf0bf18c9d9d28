package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
)

var longAgo = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestBulkUpdateAppliesOnlyPresentFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := createTestItem(t, database, ItemInput{ItemName: "A", Category: model.CategoryMouse, Condition: model.ConditionDamaged})
	b := createTestItem(t, database, ItemInput{ItemName: "B", Category: model.CategoryMouse, Condition: model.ConditionNotWorking})

	n, err := BulkUpdate(ctx, database, []int64{a.ID, b.ID}, Patch{Location: model.LocationInOffice})
	if err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 matched rows, got %d", n)
	}

	gotA, _ := GetItem(ctx, database, a.ID)
	gotB, _ := GetItem(ctx, database, b.ID)
	if gotA.Location != model.LocationInOffice || gotB.Location != model.LocationInOffice {
		t.Errorf("expected both items moved to office, got %q and %q", gotA.Location, gotB.Location)
	}
	// Condition was omitted and must keep each record's prior value.
	if gotA.Condition != model.ConditionDamaged || gotB.Condition != model.ConditionNotWorking {
		t.Errorf("condition changed unexpectedly: %q, %q", gotA.Condition, gotB.Condition)
	}
}

func TestBulkUpdateEmptyPatchRefreshesTimestamp(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := createTestItem(t, database, ItemInput{ItemName: "A", Category: model.CategoryCPU, Condition: model.ConditionDamaged})
	if _, err := database.Exec(`UPDATE inventory SET updated_at = ? WHERE id = ?`, longAgo, item.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := BulkUpdate(ctx, database, []int64{item.ID}, Patch{}); err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Condition != item.Condition || got.Location != item.Location {
		t.Errorf("empty patch changed fields: %+v", got)
	}
	if !got.UpdatedAt.After(longAgo) {
		t.Errorf("expected updated_at to be refreshed, got %v", got.UpdatedAt)
	}
}

func TestBulkUpdateIgnoresUnknownIDs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a := createTestItem(t, database, ItemInput{ItemName: "A", Category: model.CategoryCPU})
	b := createTestItem(t, database, ItemInput{ItemName: "B", Category: model.CategoryCPU})

	n, err := BulkUpdate(ctx, database, []int64{a.ID, b.ID, 4242}, Patch{Condition: model.ConditionDamaged})
	if err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 matched rows, got %d", n)
	}

	for _, id := range []int64{a.ID, b.ID} {
		got, _ := GetItem(ctx, database, id)
		if got.Condition != model.ConditionDamaged {
			t.Errorf("item %d: expected DAMAGED, got %q", id, got.Condition)
		}
	}
}

func TestBulkUpdateNoIDs(t *testing.T) {
	database := db.NewTestDB(t)

	n, err := BulkUpdate(context.Background(), database, nil, Patch{Condition: model.ConditionDamaged})
	if err != nil || n != 0 {
		t.Errorf("BulkUpdate(nil) = %d, %v", n, err)
	}
}

func TestBulkUpdateRejectsInvalidEnum(t *testing.T) {
	database := db.NewTestDB(t)
	item := createTestItem(t, database, ItemInput{ItemName: "A", Category: model.CategoryCPU})

	if _, err := BulkUpdate(context.Background(), database, []int64{item.ID}, Patch{Condition: "MELTED"}); err == nil {
		t.Error("expected the store to reject an unknown condition")
	}
}
