package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/model"
)

// CreateSchool creates a new school. An empty code is stored as NULL.
func CreateSchool(ctx context.Context, q db.DBTX, code, name string) (*model.School, error) {
	now := time.Now().UTC()
	result, err := q.ExecContext(ctx,
		`INSERT INTO schools (school_code, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		nullString(code), name, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating school: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting school id: %w", err)
	}

	return GetSchool(ctx, q, id)
}

// GetSchool returns a school by ID, or nil if it does not exist.
func GetSchool(ctx context.Context, q db.DBTX, id int64) (*model.School, error) {
	s := &model.School{}
	var code sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, school_code, name, created_at, updated_at FROM schools WHERE id = ?`, id,
	).Scan(&s.ID, &code, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting school: %w", err)
	}
	s.SchoolCode = code.String
	return s, nil
}

// ListSchools returns all schools ordered by name.
func ListSchools(ctx context.Context, q db.DBTX) ([]model.School, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, school_code, name, created_at, updated_at FROM schools ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing schools: %w", err)
	}
	defer rows.Close()

	var schools []model.School
	for rows.Next() {
		var s model.School
		var code sql.NullString
		if err := rows.Scan(&s.ID, &code, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning school: %w", err)
		}
		s.SchoolCode = code.String
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// CountSchools returns the number of schools.
func CountSchools(ctx context.Context, q db.DBTX) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM schools`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting schools: %w", err)
	}
	return n, nil
}

// ListSchoolInventory returns every school ordered by name together with the
// category, condition and location of each item it holds.
func ListSchoolInventory(ctx context.Context, q db.DBTX) ([]model.SchoolInventory, error) {
	schools, err := ListSchools(ctx, q)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT school_id, category, condition, location
		 FROM inventory WHERE school_id IS NOT NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing school inventory: %w", err)
	}
	defer rows.Close()

	devices := make(map[int64][]model.SchoolDevice)
	for rows.Next() {
		var schoolID int64
		var d model.SchoolDevice
		if err := rows.Scan(&schoolID, &d.Category, &d.Condition, &d.Location); err != nil {
			return nil, fmt.Errorf("scanning school device: %w", err)
		}
		devices[schoolID] = append(devices[schoolID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]model.SchoolInventory, 0, len(schools))
	for _, s := range schools {
		inv := devices[s.ID]
		if inv == nil {
			inv = []model.SchoolDevice{}
		}
		result = append(result, model.SchoolInventory{School: s, Inventory: inv})
	}
	return result, nil
}

// UpdateSchool renames a school.
func UpdateSchool(ctx context.Context, q db.DBTX, id int64, name string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE schools SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating school: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
