package report

import (
	"context"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

// LoadOverview reads the inventory and builds the overview.
func LoadOverview(ctx context.Context, q db.DBTX) (Overview, error) {
	schools, err := store.CountSchools(ctx, q)
	if err != nil {
		return Overview{}, err
	}
	items, err := store.ListItems(ctx, q, store.ItemFilter{})
	if err != nil {
		return Overview{}, err
	}
	return BuildOverview(schools, items), nil
}

// LoadSchoolHealth reads every school's devices and builds the health report.
func LoadSchoolHealth(ctx context.Context, q db.DBTX, opts HealthOptions) (HealthReport, error) {
	schools, err := store.ListSchoolInventory(ctx, q)
	if err != nil {
		return HealthReport{}, err
	}
	return BuildSchoolHealth(schools, opts), nil
}

// LoadCategoryDefects reads the inventory and builds the per-category
// defect list.
func LoadCategoryDefects(ctx context.Context, q db.DBTX) ([]CategoryDefect, error) {
	items, err := store.ListItems(ctx, q, store.ItemFilter{})
	if err != nil {
		return nil, err
	}
	return BuildCategoryDefects(items), nil
}

// LoadSchoolProblems reads every school's devices and ranks the schools by
// defect count.
func LoadSchoolProblems(ctx context.Context, q db.DBTX) ([]SchoolProblem, error) {
	schools, err := store.ListSchoolInventory(ctx, q)
	if err != nil {
		return nil, err
	}
	return BuildSchoolProblems(schools), nil
}

// LoadMaintenance reads the defective items and their latest issues.
func LoadMaintenance(ctx context.Context, q db.DBTX) (Maintenance, error) {
	items, err := store.ListDefectiveItems(ctx, q)
	if err != nil {
		return Maintenance{}, err
	}
	latest, err := store.LatestIssues(ctx, q)
	if err != nil {
		return Maintenance{}, err
	}
	return BuildMaintenance(items, latest), nil
}

// LoadLowStock returns items below their minimum stock level.
func LoadLowStock(ctx context.Context, q db.DBTX) ([]model.Item, error) {
	items, err := store.ListLowStockItems(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}
