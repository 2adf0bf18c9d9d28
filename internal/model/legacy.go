package model

import "strings"

// NormalizeCategory maps a free-text category from legacy records onto the
// category enum. Unknown values fall back to CPU; the second return value is
// false in that case.
func NormalizeCategory(raw string) (string, bool) {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "ups"):
		return CategoryUPS, true
	case strings.Contains(s, "keyboard"):
		return CategoryKeyboard, true
	case strings.Contains(s, "mouse"):
		return CategoryMouse, true
	case strings.Contains(s, "cpu"), strings.Contains(s, "computer"):
		return CategoryCPU, true
	case strings.Contains(s, "screen"), strings.Contains(s, "monitor"), strings.Contains(s, "display"):
		return CategoryScreen, true
	}
	return CategoryCPU, false
}

// NormalizeCondition maps a legacy condition value onto the condition enum.
// Unknown values fall back to WORKING.
func NormalizeCondition(raw string) (string, bool) {
	switch strings.ToUpper(raw) {
	case "NEW", "GOOD", ConditionWorking:
		return ConditionWorking, true
	case ConditionDamaged:
		return ConditionDamaged, true
	case ConditionNotWorking:
		return ConditionNotWorking, true
	case ConditionDiscarded:
		return ConditionDiscarded, true
	}
	return ConditionWorking, false
}
