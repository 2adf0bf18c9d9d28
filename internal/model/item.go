package model

import "time"

// Item is a single inventory record. Devices created during onboarding are
// tracked one unit per record; manual entries may carry a larger quantity.
type Item struct {
	ID             int64     `json:"id"`
	ItemID         *string   `json:"itemId"`
	ItemName       string    `json:"itemName"`
	Category       string    `json:"category"`
	Quantity       int       `json:"quantity"`
	Condition      string    `json:"condition"`
	Location       string    `json:"location"`
	ItemTag        *string   `json:"itemTag"`
	SchoolID       *int64    `json:"schoolId"`
	MinStockLevel  *int      `json:"minStockLevel"`
	Notes          *string   `json:"notes"`
	LastModifiedBy string    `json:"lastModifiedBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Joined fields (not always populated).
	SchoolName string `json:"schoolName,omitempty"`
}

// Categories.
const (
	CategoryUPS      = "UPS"
	CategoryKeyboard = "KEYBOARD"
	CategoryMouse    = "MOUSE"
	CategoryCPU      = "CPU"
	CategoryScreen   = "SCREEN"
)

// Conditions.
const (
	ConditionWorking    = "WORKING"
	ConditionNotWorking = "NOT_WORKING"
	ConditionDamaged    = "DAMAGED"
	ConditionDiscarded  = "DISCARDED"
)

// Locations.
const (
	LocationInOffice  = "IN_OFFICE"
	LocationAtSchool  = "AT_SCHOOL"
	LocationDiscarded = "DISCARDED"
)

// Categories lists every category in display order.
var Categories = []string{CategoryUPS, CategoryKeyboard, CategoryMouse, CategoryCPU, CategoryScreen}

// Conditions lists every condition in display order.
var Conditions = []string{ConditionWorking, ConditionNotWorking, ConditionDamaged, ConditionDiscarded}

// Locations lists every location in display order.
var Locations = []string{LocationInOffice, LocationAtSchool, LocationDiscarded}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool { return contains(Categories, c) }

// ValidCondition reports whether c is a known condition.
func ValidCondition(c string) bool { return contains(Conditions, c) }

// ValidLocation reports whether l is a known location.
func ValidLocation(l string) bool { return contains(Locations, l) }

// IsDefective reports whether a condition counts against device health.
func IsDefective(condition string) bool {
	return condition == ConditionNotWorking || condition == ConditionDamaged || condition == ConditionDiscarded
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
