package store

import (
	"context"
	"testing"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
)

func TestCreateAndGetSchool(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	school, err := CreateSchool(ctx, database, "SCH100", "Test School")
	if err != nil {
		t.Fatalf("CreateSchool: %v", err)
	}
	if school.ID == 0 {
		t.Error("expected store-assigned id")
	}
	if school.SchoolCode != "SCH100" || school.Name != "Test School" {
		t.Errorf("unexpected school %+v", school)
	}

	got, err := GetSchool(ctx, database, school.ID)
	if err != nil {
		t.Fatalf("GetSchool: %v", err)
	}
	if got == nil || got.Name != "Test School" {
		t.Errorf("expected to read back school, got %+v", got)
	}

	missing, err := GetSchool(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetSchool missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown school")
	}
}

func TestSchoolCodeUnique(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateSchool(ctx, database, "SCH1", "First"); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateSchool(ctx, database, "SCH1", "Second"); err == nil {
		t.Error("expected duplicate school code to be rejected")
	}

	// Legacy schools without a code do not collide.
	if _, err := CreateSchool(ctx, database, "", "Legacy A"); err != nil {
		t.Fatalf("CreateSchool legacy A: %v", err)
	}
	if _, err := CreateSchool(ctx, database, "", "Legacy B"); err != nil {
		t.Fatalf("CreateSchool legacy B: %v", err)
	}
}

func TestUpdateSchool(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	school, _ := CreateSchool(ctx, database, "SCH2", "Old Name")
	if err := UpdateSchool(ctx, database, school.ID, "New Name"); err != nil {
		t.Fatalf("UpdateSchool: %v", err)
	}

	got, _ := GetSchool(ctx, database, school.ID)
	if got.Name != "New Name" {
		t.Errorf("expected renamed school, got %q", got.Name)
	}
	if got.SchoolCode != "SCH2" {
		t.Errorf("rename must not touch the code, got %q", got.SchoolCode)
	}
}

func TestListSchoolInventory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	b, _ := CreateSchool(ctx, database, "B", "Beta")
	a, _ := CreateSchool(ctx, database, "A", "Alpha")

	createTestItem(t, database, ItemInput{ItemName: "Mouse", Category: model.CategoryMouse, SchoolID: &a.ID})
	createTestItem(t, database, ItemInput{ItemName: "CPU", Category: model.CategoryCPU, Condition: model.ConditionDamaged, SchoolID: &a.ID})
	createTestItem(t, database, ItemInput{ItemName: "Unassigned", Category: model.CategoryUPS})

	list, err := ListSchoolInventory(ctx, database)
	if err != nil {
		t.Fatalf("ListSchoolInventory: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 schools, got %d", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("expected schools ordered by name, got %q, %q", list[0].Name, list[1].Name)
	}
	if len(list[0].Inventory) != 2 {
		t.Errorf("expected 2 devices for Alpha, got %d", len(list[0].Inventory))
	}
	if list[1].Inventory == nil || len(list[1].Inventory) != 0 {
		t.Errorf("expected empty non-nil inventory for Beta, got %v", list[1].Inventory)
	}

	n, err := CountSchools(ctx, database)
	if err != nil || n != 2 {
		t.Errorf("CountSchools = %d, %v", n, err)
	}
}
