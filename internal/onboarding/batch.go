package onboarding

import (
	"context"
	"fmt"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/ident"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

// AutoGeneratedNote marks records created from an onboarding manifest.
const AutoGeneratedNote = "Auto-generated during school onboarding"

// CreatedDevice describes one record created during onboarding.
type CreatedDevice struct {
	ID       int64  `json:"id"`
	ItemName string `json:"itemName"`
	ItemTag  string `json:"itemTag,omitempty"`
	ItemID   string `json:"itemId,omitempty"`
}

// CreateDeviceBatch creates one unit record per requested device for the
// given school and tags each with GenerateTag. Records are created in
// manifest order, then quantity order. Entries with a quantity below 1
// produce nothing.
func CreateDeviceBatch(ctx context.Context, q db.DBTX, schoolID int64, schoolCode, actor string, entries []ManifestEntry) ([]CreatedDevice, error) {
	return createUnits(ctx, q, schoolID, schoolCode, actor, ident.NewItemID, Manifest(entries...).plan())
}

// createUnits runs the create (and, for tagged units, patch) sequence for
// every planned unit. Each unit is two round trips when auto-tagged because
// the tag embeds the id the store assigns on insert.
func createUnits(ctx context.Context, q db.DBTX, schoolID int64, schoolCode, actor string, newItemID func() (string, error), units []unit) ([]CreatedDevice, error) {
	devices := make([]CreatedDevice, 0, len(units))

	for i, u := range units {
		in := store.ItemInput{
			ItemName:       u.itemName,
			Category:       u.category,
			Quantity:       u.quantity,
			Condition:      model.ConditionWorking,
			Location:       model.LocationAtSchool,
			ItemTag:        u.tag,
			SchoolID:       &schoolID,
			Notes:          u.notes,
			LastModifiedBy: actor,
		}
		if u.itemID {
			id, err := newItemID()
			if err != nil {
				return nil, fmt.Errorf("generating item id for unit %d: %w", i+1, err)
			}
			in.ItemID = id
		}

		item, err := store.CreateItem(ctx, q, in)
		if err != nil {
			return nil, fmt.Errorf("creating unit %d (%s): %w", i+1, u.category, err)
		}

		device := CreatedDevice{ID: item.ID, ItemName: item.ItemName, ItemID: in.ItemID, ItemTag: in.ItemTag}
		if u.autoTag {
			device.ItemTag = ident.GenerateTag(schoolCode, item.ID, u.category)
			if err := store.SetItemTag(ctx, q, item.ID, device.ItemTag); err != nil {
				return nil, fmt.Errorf("tagging unit %d: %w", i+1, err)
			}
		}

		devices = append(devices, device)
	}

	return devices, nil
}
