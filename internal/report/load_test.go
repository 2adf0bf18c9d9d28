package report

import (
	"context"
	"testing"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

func TestLoadReports(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	school, err := store.CreateSchool(ctx, database, "SCH1", "Dhinaur School")
	if err != nil {
		t.Fatalf("CreateSchool: %v", err)
	}
	minStock := 5
	add := func(name, category, condition string, qty int, minLevel *int) *model.Item {
		t.Helper()
		it, err := store.CreateItem(ctx, database, store.ItemInput{
			ItemName: name, Category: category, Quantity: qty, Condition: condition,
			Location: model.LocationAtSchool, SchoolID: &school.ID, MinStockLevel: minLevel,
			LastModifiedBy: "test",
		})
		if err != nil {
			t.Fatalf("CreateItem(%s): %v", name, err)
		}
		return it
	}

	add("Desktop", model.CategoryCPU, model.ConditionWorking, 1, nil)
	broken := add("Monitor", model.CategoryScreen, model.ConditionNotWorking, 1, nil)
	add("Mice", model.CategoryMouse, model.ConditionWorking, 2, &minStock)

	if _, err := store.CreateIssue(ctx, database, broken.ID, nil, model.IssueHardwareFailure, "no signal", "school staff"); err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}

	overview, err := LoadOverview(ctx, database)
	if err != nil {
		t.Fatalf("LoadOverview: %v", err)
	}
	if overview.Schools != 1 || overview.TotalItems != 3 || overview.Defective != 1 || overview.DefectivePct != 33 {
		t.Errorf("unexpected overview %+v", overview)
	}

	health, err := LoadSchoolHealth(ctx, database, HealthOptions{})
	if err != nil {
		t.Fatalf("LoadSchoolHealth: %v", err)
	}
	if len(health.Schools) != 1 || health.Schools[0].HealthScore != 67 || health.Schools[0].Status != StatusModerate {
		t.Errorf("unexpected health %+v", health)
	}

	problems, err := LoadSchoolProblems(ctx, database)
	if err != nil {
		t.Fatalf("LoadSchoolProblems: %v", err)
	}
	if len(problems) != 1 || problems[0].Defective != 1 {
		t.Errorf("unexpected problems %+v", problems)
	}

	categories, err := LoadCategoryDefects(ctx, database)
	if err != nil {
		t.Fatalf("LoadCategoryDefects: %v", err)
	}
	if len(categories) != 1 || categories[0].Category != model.CategoryScreen {
		t.Errorf("unexpected categories %+v", categories)
	}

	maint, err := LoadMaintenance(ctx, database)
	if err != nil {
		t.Fatalf("LoadMaintenance: %v", err)
	}
	if len(maint.Critical) != 1 || maint.Critical[0].LatestIssue == nil {
		t.Errorf("unexpected maintenance %+v", maint)
	}

	low, err := LoadLowStock(ctx, database)
	if err != nil {
		t.Fatalf("LoadLowStock: %v", err)
	}
	if len(low) != 1 || low[0].ItemName != "Mice" {
		t.Errorf("unexpected low stock %+v", low)
	}
}
