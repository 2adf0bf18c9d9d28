package model

import "time"

// Issue is a problem reported against an inventory item.
type Issue struct {
	ID          int64      `json:"id"`
	InventoryID int64      `json:"inventoryId"`
	SchoolID    *int64     `json:"schoolId"`
	IssueType   string     `json:"issueType"`
	Description string     `json:"description"`
	ReportedBy  string     `json:"reportedBy"`
	Status      string     `json:"status"`
	PhotoMIME   string     `json:"photoMime,omitempty"`
	ReportedAt  time.Time  `json:"reportedAt"`
	ResolvedAt  *time.Time `json:"resolvedAt"`

	// Joined fields (not always populated).
	ItemName   string `json:"itemName,omitempty"`
	ItemTag    string `json:"itemTag,omitempty"`
	SchoolName string `json:"schoolName,omitempty"`
}

// Issue types.
const (
	IssueHardwareFailure = "HARDWARE_FAILURE"
	IssueSoftwareIssue   = "SOFTWARE_ISSUE"
	IssuePhysicalDamage  = "PHYSICAL_DAMAGE"
	IssueMissing         = "MISSING"
	IssueOther           = "OTHER"
)

// Issue statuses.
const (
	IssueStatusOpen       = "OPEN"
	IssueStatusInProgress = "IN_PROGRESS"
	IssueStatusResolved   = "RESOLVED"
	IssueStatusClosed     = "CLOSED"
)

// IsOpen reports whether an issue still needs attention.
func (i Issue) IsOpen() bool {
	return i.Status == IssueStatusOpen || i.Status == IssueStatusInProgress
}
