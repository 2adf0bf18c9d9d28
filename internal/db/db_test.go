package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestMigrateIsIdempotent(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "migrate.sqlite3"))
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	ctx := context.Background()
	v1, err := Migrate(ctx, database)
	if err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	v2, err := Migrate(ctx, database)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if v1 != v2 || v1 < 1 {
		t.Errorf("expected stable version >= 1, got %d then %d", v1, v2)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO inventory (item_name, category, quantity, location, school_id, last_modified_by, created_at, updated_at)
		 VALUES ('Mouse', 'MOUSE', 1, 'AT_SCHOOL', 999, 'test', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	)
	if err == nil {
		t.Error("expected foreign key violation for unknown school")
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	database := NewTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := InTx(ctx, database, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schools (school_code, name, created_at, updated_at)
			 VALUES ('SCH1', 'Rolled Back', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM schools`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected rollback to leave 0 schools, got %d", count)
	}
}
