package model

import "time"

// School is a partner school that holds devices.
type School struct {
	ID         int64     `json:"id"`
	SchoolCode string    `json:"schoolId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SchoolDevice is the condition/location pair of one item held by a school,
// as consumed by the health reports.
type SchoolDevice struct {
	Category  string `json:"category"`
	Condition string `json:"condition"`
	Location  string `json:"location"`
}

// SchoolInventory is a school together with a summary of its items.
type SchoolInventory struct {
	School
	Inventory []SchoolDevice `json:"inventory"`
}
