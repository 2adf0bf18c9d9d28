package onboarding

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/erazemk/devicetrack/internal/model"
)

// RequestKind distinguishes the two shapes a device request can take.
type RequestKind int

const (
	// KindManifest is a typed list of (device type, quantity) lines. Every
	// unit becomes its own record with a school-scoped tag.
	KindManifest RequestKind = iota
	// KindSparseRows is the loosely validated table submitted by the legacy
	// school form. Every row becomes one record with its own item id.
	KindSparseRows
)

func (k RequestKind) String() string {
	switch k {
	case KindManifest:
		return "manifest"
	case KindSparseRows:
		return "sparse_rows"
	}
	return "unknown"
}

// ManifestEntry asks for Quantity units of one device type.
type ManifestEntry struct {
	DeviceType string `json:"itemType"`
	Quantity   int    `json:"quantity"`
}

// SparseRow is one row of the legacy form. Any field may be empty.
type SparseRow struct {
	Item     string
	Category string
	Quantity string
	Tag      string
}

// DeviceRequest is the device part of an onboarding call.
type DeviceRequest struct {
	Kind    RequestKind
	Entries []ManifestEntry
	Rows    []SparseRow
}

// Manifest wraps typed manifest entries.
func Manifest(entries ...ManifestEntry) DeviceRequest {
	return DeviceRequest{Kind: KindManifest, Entries: entries}
}

// SparseRows wraps legacy form rows.
func SparseRows(rows ...SparseRow) DeviceRequest {
	return DeviceRequest{Kind: KindSparseRows, Rows: rows}
}

// Empty reports whether the request asks for no devices at all.
func (r DeviceRequest) Empty() bool {
	return len(r.Entries) == 0 && len(r.Rows) == 0
}

var deviceFieldKey = regexp.MustCompile(`^devices\[(\d+)\]\.(\w+)$`)

// ParseSparseRows collects "devices[<n>].<field>" form values into rows
// ordered by index. Indices need not be contiguous and unknown fields are
// ignored.
func ParseSparseRows(form url.Values) []SparseRow {
	byIndex := make(map[int]*SparseRow)
	for key, values := range form {
		m := deviceFieldKey.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row, ok := byIndex[idx]
		if !ok {
			row = &SparseRow{}
			byIndex[idx] = row
		}
		value := strings.TrimSpace(values[0])
		switch m[2] {
		case "item":
			row.Item = value
		case "category":
			row.Category = value
		case "quantity":
			row.Quantity = value
		case "tag":
			row.Tag = value
		}
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	rows := make([]SparseRow, 0, len(indices))
	for _, idx := range indices {
		rows = append(rows, *byIndex[idx])
	}
	return rows
}

// unit is one record to be created by the batch core.
type unit struct {
	itemName string
	category string
	quantity int
	tag      string
	notes    string
	autoTag  bool
	itemID   bool
}

// plan expands a request into the records that must be created.
func (r DeviceRequest) plan() []unit {
	var units []unit

	switch r.Kind {
	case KindManifest:
		for _, e := range r.Entries {
			for i := 1; i <= e.Quantity; i++ {
				units = append(units, unit{
					itemName: e.DeviceType,
					category: e.DeviceType,
					quantity: 1,
					notes:    AutoGeneratedNote,
					autoTag:  true,
				})
			}
		}

	case KindSparseRows:
		for _, row := range r.Rows {
			u, ok := row.unit()
			if !ok {
				continue
			}
			units = append(units, u)
		}
	}

	return units
}

// unit turns a form row into a record, filling whichever of name or
// category is missing from the other. Rows with neither are skipped.
func (row SparseRow) unit() (unit, bool) {
	if row.Item == "" && row.Category == "" {
		return unit{}, false
	}

	category := strings.ToUpper(row.Category)
	if !model.ValidCategory(category) {
		category, _ = model.NormalizeCategory(row.Category + " " + row.Item)
	}

	name := row.Item
	if name == "" {
		name = category
	}

	quantity, err := strconv.Atoi(row.Quantity)
	if err != nil || quantity < 1 {
		quantity = 1
	}

	return unit{
		itemName: name,
		category: category,
		quantity: quantity,
		tag:      row.Tag,
		itemID:   true,
	}, true
}
