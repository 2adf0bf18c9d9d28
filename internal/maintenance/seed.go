// Package maintenance holds the one-off data tasks run from the command line.
package maintenance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

// seedActor is recorded on every seeded item.
const seedActor = "admin@ngo.org"

var seedSchools = []string{
	"Office",
	"GPS Soffi Pind",
	"GPS Dhina",
	"GPS Lohar Sukha Singh",
	"GPS Tajpur",
	"Khurla- Kingra",
	"Olympian Mandeep Singh GPS Mithapur",
	"GPS Dhilwan",
	"GPS Khusropur",
}

type seedItem struct {
	name, category, location, condition string
	quantity                            int
	minStock                            int
	school                              string
	notes                               string
}

var seedItems = []seedItem{
	{"Wireless Mouse", model.CategoryMouse, model.LocationAtSchool, model.ConditionWorking, 30, 10, "Olympian Mandeep Singh GPS Mithapur", "Wireless"},
	{"Mechanical Keyboard", model.CategoryKeyboard, model.LocationAtSchool, model.ConditionWorking, 25, 8, "GPS Tajpur", "Mechanical"},
	{"Desktop CPU", model.CategoryCPU, model.LocationAtSchool, model.ConditionWorking, 12, 4, "GPS Dhilwan", "With SSD"},
	{"UPS Battery Backup", model.CategoryUPS, model.LocationAtSchool, model.ConditionDamaged, 6, 2, "GPS Khusropur", "Needs battery replacement"},
	{"Monitor Cables", model.CategoryScreen, model.LocationAtSchool, model.ConditionWorking, 50, 15, "Khurla- Kingra", "Assorted types"},
	{"LED Monitor", model.CategoryScreen, model.LocationAtSchool, model.ConditionWorking, 18, 5, "GPS Soffi Pind", "Monitor LEDs"},
	{"LED Monitor", model.CategoryScreen, model.LocationAtSchool, model.ConditionWorking, 18, 5, "", "Monitor LEDs"},
	{"Desktop CPU", model.CategoryCPU, model.LocationInOffice, model.ConditionWorking, 1, 0, "Office", "New installed"},
}

// SeedResult reports what Seed created.
type SeedResult struct {
	Schools int
	Items   int
	Skipped bool
}

// Seed loads the sample schools and items into an empty database. A
// database that already has schools is left alone.
func Seed(ctx context.Context, database *sql.DB) (SeedResult, error) {
	var res SeedResult

	n, err := store.CountSchools(ctx, database)
	if err != nil {
		return res, err
	}
	if n > 0 {
		res.Skipped = true
		return res, nil
	}

	err = db.InTx(ctx, database, func(tx *sql.Tx) error {
		ids := make(map[string]int64, len(seedSchools))
		for _, name := range seedSchools {
			s, err := store.CreateSchool(ctx, tx, "", name)
			if err != nil {
				return fmt.Errorf("seeding school %q: %w", name, err)
			}
			ids[name] = s.ID
			res.Schools++
		}

		for _, it := range seedItems {
			in := store.ItemInput{
				ItemName:       it.name,
				Category:       it.category,
				Quantity:       it.quantity,
				Condition:      it.condition,
				Location:       it.location,
				Notes:          it.notes,
				LastModifiedBy: seedActor,
			}
			if it.minStock > 0 {
				minStock := it.minStock
				in.MinStockLevel = &minStock
			}
			if id, ok := ids[it.school]; ok {
				in.SchoolID = &id
			}
			if _, err := store.CreateItem(ctx, tx, in); err != nil {
				return fmt.Errorf("seeding item %q: %w", it.name, err)
			}
			res.Items++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}
