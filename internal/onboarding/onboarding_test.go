package onboarding

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

type countingRecorder struct {
	calls   int
	devices int
}

func (r *countingRecorder) Onboarded(_ RequestKind, devices int) {
	r.calls++
	r.devices += devices
}

func TestOnboardManifest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	rec := &countingRecorder{}

	svc := NewService(database, "", nil)
	svc.Recorder = rec

	result, err := svc.Onboard(ctx, SchoolInput{SchoolCode: "SCH100", Name: "Dhinaur School"}, Manifest(
		ManifestEntry{DeviceType: model.CategoryMouse, Quantity: 2},
		ManifestEntry{DeviceType: model.CategoryCPU, Quantity: 1},
	))
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}

	if result.School == nil || result.School.SchoolCode != "SCH100" {
		t.Fatalf("unexpected school: %+v", result.School)
	}
	if len(result.Devices) != 3 {
		t.Fatalf("expected 3 devices, got %d", len(result.Devices))
	}

	wantNames := []string{model.CategoryMouse, model.CategoryMouse, model.CategoryCPU}
	seenIDs := map[int64]bool{}
	seenTags := map[string]bool{}
	for i, d := range result.Devices {
		if d.ItemName != wantNames[i] {
			t.Errorf("device %d: expected name %s, got %s", i, wantNames[i], d.ItemName)
		}
		wantTag := fmt.Sprintf("SCH100/%d/%s", d.ID, strings.ToLower(wantNames[i]))
		if d.ItemTag != wantTag {
			t.Errorf("device %d: expected tag %q, got %q", i, wantTag, d.ItemTag)
		}
		if seenIDs[d.ID] || seenTags[d.ItemTag] {
			t.Errorf("device %d: duplicate id or tag", i)
		}
		seenIDs[d.ID] = true
		seenTags[d.ItemTag] = true

		item, err := store.GetItem(ctx, database, d.ID)
		if err != nil || item == nil {
			t.Fatalf("GetItem(%d): %v", d.ID, err)
		}
		if item.Quantity != 1 || item.Condition != model.ConditionWorking || item.Location != model.LocationAtSchool {
			t.Errorf("device %d stored as %+v", i, item)
		}
		if item.SchoolID == nil || *item.SchoolID != result.School.ID {
			t.Errorf("device %d not linked to the new school", i)
		}
		if item.ItemTag == nil || *item.ItemTag != wantTag {
			t.Errorf("device %d: stored tag %v", i, item.ItemTag)
		}
		if item.Notes == nil || *item.Notes != AutoGeneratedNote {
			t.Errorf("device %d: stored notes %v", i, item.Notes)
		}
		if item.LastModifiedBy != DefaultActor {
			t.Errorf("device %d: expected actor %q, got %q", i, DefaultActor, item.LastModifiedBy)
		}
	}

	if rec.calls != 1 || rec.devices != 3 {
		t.Errorf("recorder saw %d calls / %d devices", rec.calls, rec.devices)
	}
}

func TestOnboardWithoutDevices(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	result, err := NewService(database, "", nil).Onboard(ctx, SchoolInput{SchoolCode: "SCH7", Name: "Empty"}, DeviceRequest{})
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}
	if result.Devices == nil || len(result.Devices) != 0 {
		t.Errorf("expected an empty, non-nil device list, got %#v", result.Devices)
	}

	items, _ := store.ListItems(ctx, database, store.ItemFilter{})
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	if n, _ := store.CountSchools(ctx, database); n != 1 {
		t.Errorf("expected 1 school, got %d", n)
	}
}

func TestOnboardZeroQuantity(t *testing.T) {
	database := db.NewTestDB(t)

	result, err := NewService(database, "", nil).Onboard(context.Background(),
		SchoolInput{SchoolCode: "SCH8", Name: "Zero"},
		Manifest(ManifestEntry{DeviceType: model.CategoryUPS, Quantity: 0}),
	)
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}
	if len(result.Devices) != 0 {
		t.Errorf("expected no devices for quantity 0, got %d", len(result.Devices))
	}
}

func TestOnboardRollsBackOnFailure(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := NewService(database, "", nil).Onboard(ctx, SchoolInput{SchoolCode: "SCH9", Name: "Broken"}, Manifest(
		ManifestEntry{DeviceType: model.CategoryMouse, Quantity: 2},
		ManifestEntry{DeviceType: "PRINTER", Quantity: 1},
	))
	if err == nil {
		t.Fatal("expected an error for an unknown device type")
	}

	if n, _ := store.CountSchools(ctx, database); n != 0 {
		t.Errorf("expected the school to be rolled back, found %d", n)
	}
	items, _ := store.ListItems(ctx, database, store.ItemFilter{})
	if len(items) != 0 {
		t.Errorf("expected the devices to be rolled back, found %d", len(items))
	}
}

func TestOnboardDuplicateSchoolCode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	svc := NewService(database, "", nil)

	if _, err := svc.Onboard(ctx, SchoolInput{SchoolCode: "DUP", Name: "First"}, DeviceRequest{}); err != nil {
		t.Fatalf("first Onboard: %v", err)
	}
	if _, err := svc.Onboard(ctx, SchoolInput{SchoolCode: "DUP", Name: "Second"}, DeviceRequest{}); err == nil {
		t.Fatal("expected duplicate school code to fail")
	}
}

func TestOnboardSparseRows(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	n := 0
	svc := NewService(database, "field-team", nil)
	svc.NewItemID = func() (string, error) {
		n++
		return fmt.Sprintf("INV-1700000000000-TEST%02d", n), nil
	}

	result, err := svc.Onboard(ctx, SchoolInput{Name: "Legacy School"}, SparseRows(
		SparseRow{Item: "Dell Optiplex", Category: "CPU", Quantity: "5", Tag: "D-1"},
		SparseRow{Quantity: "3"},
		SparseRow{Category: "SCREEN"},
	))
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}
	if len(result.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(result.Devices))
	}

	first, _ := store.GetItem(ctx, database, result.Devices[0].ID)
	if first.ItemID == nil || *first.ItemID != "INV-1700000000000-TEST01" {
		t.Errorf("unexpected item id %v", first.ItemID)
	}
	if first.Quantity != 5 || first.ItemTag == nil || *first.ItemTag != "D-1" {
		t.Errorf("unexpected first device %+v", first)
	}
	if first.LastModifiedBy != "field-team" {
		t.Errorf("expected configured actor, got %q", first.LastModifiedBy)
	}

	second, _ := store.GetItem(ctx, database, result.Devices[1].ID)
	if second.ItemName != model.CategoryScreen || second.ItemTag != nil {
		t.Errorf("unexpected second device %+v", second)
	}
	if second.ItemID == nil || *second.ItemID != "INV-1700000000000-TEST02" {
		t.Errorf("each row should get its own item id, got %v", second.ItemID)
	}
	if result.School.SchoolCode != "" {
		t.Errorf("legacy schools carry no code, got %q", result.School.SchoolCode)
	}
}

func TestCreateDeviceBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	school, err := store.CreateSchool(ctx, database, "", "No Code")
	if err != nil {
		t.Fatalf("CreateSchool: %v", err)
	}

	devices, err := CreateDeviceBatch(ctx, database, school.ID, "", "tester", []ManifestEntry{
		{DeviceType: model.CategoryKeyboard, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("CreateDeviceBatch: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}
	if want := fmt.Sprintf("/%d/keyboard", devices[0].ID); devices[0].ItemTag != want {
		t.Errorf("expected tag %q, got %q", want, devices[0].ItemTag)
	}
}
