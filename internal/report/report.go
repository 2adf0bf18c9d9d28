// Package report computes the dashboard summaries over schools, items and
// issues.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/erazemk/devicetrack/internal/model"
)

// Health status thresholds, in percent of working devices at a school.
const (
	HealthyThreshold  = 80
	ModerateThreshold = 50
)

// School health statuses.
const (
	StatusHealthy  = "healthy"
	StatusModerate = "moderate"
	StatusCritical = "critical"
)

// Sort orders for the school health report.
const (
	SortHealth   = "health"
	SortName     = "name"
	SortProblems = "problems"
)

// maxSchoolProblems caps the "schools with most problems" list.
const maxSchoolProblems = 10

// Overview is the fleet-wide summary.
type Overview struct {
	Schools      int `json:"schools"`
	TotalItems   int `json:"totalItems"`
	Working      int `json:"working"`
	Defective    int `json:"defective"`
	AtSchool     int `json:"atSchool"`
	InOffice     int `json:"inOffice"`
	Discarded    int `json:"discarded"`
	WorkingPct   int `json:"workingPct"`
	DefectivePct int `json:"defectivePct"`
	AtSchoolPct  int `json:"atSchoolPct"`
	InOfficePct  int `json:"inOfficePct"`
	DiscardedPct int `json:"discardedPct"`
}

// SchoolHealth summarises the devices deployed at one school.
type SchoolHealth struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Total       int    `json:"total"`
	Working     int    `json:"working"`
	Defective   int    `json:"defective"`
	HealthScore int    `json:"healthScore"`
	Status      string `json:"status"`
	AtSchool    int    `json:"atSchool"`
	InOffice    int    `json:"inOffice"`
}

// HealthOptions filters and orders the school health list.
type HealthOptions struct {
	Search       string
	Sort         string
	OnlyProblems bool
}

// HealthReport is the school health list plus status counts over all
// schools, regardless of filtering.
type HealthReport struct {
	Schools  []SchoolHealth `json:"schools"`
	Healthy  int            `json:"healthy"`
	Moderate int            `json:"moderate"`
	Critical int            `json:"critical"`
}

// CategoryDefect is the defect rate of one device category.
type CategoryDefect struct {
	Category   string `json:"category"`
	Total      int    `json:"total"`
	Defective  int    `json:"defective"`
	Percentage int    `json:"percentage"`
}

// SchoolProblem counts the defective devices held by one school.
type SchoolProblem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Defective int    `json:"defective"`
}

// MaintenanceItem is a defective item with its most recent issue, if any.
type MaintenanceItem struct {
	model.Item
	LatestIssue *model.Issue `json:"latestIssue"`
}

// Maintenance lists every defective item, with the not-working and damaged
// subsets split out.
type Maintenance struct {
	Items    []MaintenanceItem `json:"items"`
	Critical []MaintenanceItem `json:"critical"`
	Damaged  []MaintenanceItem `json:"damaged"`
}

// percent returns part/total as a whole percentage rounded half up, or 0
// when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(total)*100 + 0.5))
}

// BuildOverview summarises every item in the inventory.
func BuildOverview(schools int, items []model.Item) Overview {
	o := Overview{Schools: schools, TotalItems: len(items)}
	for _, it := range items {
		if it.Condition == model.ConditionWorking {
			o.Working++
		}
		if model.IsDefective(it.Condition) {
			o.Defective++
		}
		switch it.Location {
		case model.LocationAtSchool:
			o.AtSchool++
		case model.LocationInOffice:
			o.InOffice++
		case model.LocationDiscarded:
			o.Discarded++
		}
	}

	o.WorkingPct = percent(o.Working, o.TotalItems)
	o.DefectivePct = percent(o.Defective, o.TotalItems)
	o.AtSchoolPct = percent(o.AtSchool, o.TotalItems)
	o.InOfficePct = percent(o.InOffice, o.TotalItems)
	o.DiscardedPct = percent(o.Discarded, o.TotalItems)
	return o
}

// schoolHealth scores one school over the devices deployed there. A school
// with nothing deployed scores 100.
func schoolHealth(s model.SchoolInventory) SchoolHealth {
	h := SchoolHealth{ID: s.ID, Name: s.Name}
	for _, d := range s.Inventory {
		switch d.Location {
		case model.LocationAtSchool:
			h.Total++
			if d.Condition == model.ConditionWorking {
				h.Working++
			}
		case model.LocationInOffice:
			h.InOffice++
		}
	}
	h.AtSchool = h.Total
	h.Defective = h.Total - h.Working

	h.HealthScore = 100
	if h.Total > 0 {
		h.HealthScore = percent(h.Working, h.Total)
	}

	switch {
	case h.HealthScore >= HealthyThreshold:
		h.Status = StatusHealthy
	case h.HealthScore >= ModerateThreshold:
		h.Status = StatusModerate
	default:
		h.Status = StatusCritical
	}
	return h
}

// BuildSchoolHealth scores every school, then applies the search, sort and
// problem filter from opts. An unknown sort keeps the input order.
func BuildSchoolHealth(schools []model.SchoolInventory, opts HealthOptions) HealthReport {
	report := HealthReport{Schools: []SchoolHealth{}}

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, s := range schools {
		h := schoolHealth(s)

		switch h.Status {
		case StatusHealthy:
			report.Healthy++
		case StatusModerate:
			report.Moderate++
		default:
			report.Critical++
		}

		if search != "" && !strings.Contains(strings.ToLower(h.Name), search) {
			continue
		}
		if opts.OnlyProblems && h.Defective == 0 {
			continue
		}
		report.Schools = append(report.Schools, h)
	}

	list := report.Schools
	switch opts.Sort {
	case SortHealth:
		sort.SliceStable(list, func(i, j int) bool { return list[i].HealthScore < list[j].HealthScore })
	case SortName:
		sort.SliceStable(list, func(i, j int) bool { return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name) })
	case SortProblems:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Defective > list[j].Defective })
	}

	return report
}

// BuildCategoryDefects returns the categories that have at least one
// defective item, most defects first.
func BuildCategoryDefects(items []model.Item) []CategoryDefect {
	stats := make(map[string]*CategoryDefect)
	for _, it := range items {
		c, ok := stats[it.Category]
		if !ok {
			c = &CategoryDefect{Category: it.Category}
			stats[it.Category] = c
		}
		c.Total++
		if model.IsDefective(it.Condition) {
			c.Defective++
		}
	}

	result := []CategoryDefect{}
	for _, category := range model.Categories {
		c, ok := stats[category]
		if !ok || c.Defective == 0 {
			continue
		}
		c.Percentage = percent(c.Defective, c.Total)
		result = append(result, *c)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Defective > result[j].Defective })
	return result
}

// BuildSchoolProblems returns up to ten schools with defective devices,
// most defects first. Devices count wherever they are located.
func BuildSchoolProblems(schools []model.SchoolInventory) []SchoolProblem {
	result := []SchoolProblem{}
	for _, s := range schools {
		p := SchoolProblem{ID: s.ID, Name: s.Name, Total: len(s.Inventory)}
		for _, d := range s.Inventory {
			if model.IsDefective(d.Condition) {
				p.Defective++
			}
		}
		if p.Defective > 0 {
			result = append(result, p)
		}
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Defective > result[j].Defective })
	if len(result) > maxSchoolProblems {
		result = result[:maxSchoolProblems]
	}
	return result
}

// BuildMaintenance attaches the latest issue to every defective item and
// splits out the not-working and damaged ones.
func BuildMaintenance(defective []model.Item, latest map[int64]model.Issue) Maintenance {
	m := Maintenance{
		Items:    []MaintenanceItem{},
		Critical: []MaintenanceItem{},
		Damaged:  []MaintenanceItem{},
	}
	for _, it := range defective {
		mi := MaintenanceItem{Item: it}
		if iss, ok := latest[it.ID]; ok {
			mi.LatestIssue = &iss
		}

		m.Items = append(m.Items, mi)
		switch it.Condition {
		case model.ConditionNotWorking:
			m.Critical = append(m.Critical, mi)
		case model.ConditionDamaged:
			m.Damaged = append(m.Damaged, mi)
		}
	}
	return m
}
