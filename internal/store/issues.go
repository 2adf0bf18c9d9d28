package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
)

const issueSelect = `SELECT iss.id, iss.inventory_id, iss.school_id, iss.issue_type, iss.description,
        iss.reported_by, iss.status, COALESCE(iss.photo_mime, ''), iss.reported_at, iss.resolved_at,
        inv.item_name, COALESCE(inv.item_tag, ''), COALESCE(s.name, '')
 FROM issues iss
 JOIN inventory inv ON inv.id = iss.inventory_id
 LEFT JOIN schools s ON s.id = iss.school_id`

// CreateIssue records a problem against an existing item. When schoolID is
// nil the item's current school is used.
func CreateIssue(ctx context.Context, q db.DBTX, inventoryID int64, schoolID *int64, issueType, description, reportedBy string) (*model.Issue, error) {
	if schoolID == nil {
		var itemSchool sql.NullInt64
		err := q.QueryRowContext(ctx,
			`SELECT school_id FROM inventory WHERE id = ?`, inventoryID,
		).Scan(&itemSchool)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %d not found", inventoryID)
		}
		if err != nil {
			return nil, fmt.Errorf("looking up item school: %w", err)
		}
		if itemSchool.Valid {
			schoolID = &itemSchool.Int64
		}
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO issues (inventory_id, school_id, issue_type, description, reported_by, reported_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inventoryID, schoolID, issueType, description, reportedBy, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting issue id: %w", err)
	}

	return GetIssue(ctx, q, id)
}

// GetIssue returns an issue by ID, or nil if it does not exist.
func GetIssue(ctx context.Context, q db.DBTX, id int64) (*model.Issue, error) {
	rows, err := q.QueryContext(ctx, issueSelect+` WHERE iss.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting issue: %w", err)
	}
	defer rows.Close()

	issues, err := scanIssues(rows)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, nil
	}
	return &issues[0], nil
}

// ListIssues returns all issues, newest first.
func ListIssues(ctx context.Context, q db.DBTX) ([]model.Issue, error) {
	rows, err := q.QueryContext(ctx, issueSelect+` ORDER BY iss.reported_at DESC, iss.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	return scanIssues(rows)
}

// LatestIssues returns the most recent issue of every item that has one,
// keyed by inventory ID.
func LatestIssues(ctx context.Context, q db.DBTX) (map[int64]model.Issue, error) {
	issues, err := ListIssues(ctx, q)
	if err != nil {
		return nil, err
	}

	latest := make(map[int64]model.Issue)
	for _, iss := range issues {
		if _, ok := latest[iss.InventoryID]; !ok {
			latest[iss.InventoryID] = iss
		}
	}
	return latest, nil
}

// SetIssuePhoto stores a photo for an issue.
func SetIssuePhoto(ctx context.Context, q db.DBTX, id int64, photo []byte, mime string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE issues SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting issue photo: %w", err)
	}
	return nil
}

// GetIssuePhoto returns an issue's photo data and MIME type.
func GetIssuePhoto(ctx context.Context, q db.DBTX, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM issues WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting issue photo: %w", err)
	}
	return photo, mime.String, nil
}

func scanIssues(rows *sql.Rows) ([]model.Issue, error) {
	var issues []model.Issue
	for rows.Next() {
		var iss model.Issue
		if err := rows.Scan(&iss.ID, &iss.InventoryID, &iss.SchoolID, &iss.IssueType, &iss.Description,
			&iss.ReportedBy, &iss.Status, &iss.PhotoMIME, &iss.ReportedAt, &iss.ResolvedAt,
			&iss.ItemName, &iss.ItemTag, &iss.SchoolName); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		issues = append(issues, iss)
	}
	return issues, rows.Err()
}
