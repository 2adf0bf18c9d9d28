package model

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		known bool
	}{
		{"UPS", CategoryUPS, true},
		{"ups battery backup", CategoryUPS, true},
		{"Mechanical Keyboard", CategoryKeyboard, true},
		{"Wireless Mouse", CategoryMouse, true},
		{"Desktop CPU", CategoryCPU, true},
		{"computer", CategoryCPU, true},
		{"LED Monitor", CategoryScreen, true},
		{"display", CategoryScreen, true},
		{"SCREEN", CategoryScreen, true},
		// Unknown values fall back to CPU.
		{"projector", CategoryCPU, false},
		{"", CategoryCPU, false},
	}

	for _, tt := range tests {
		got, known := NormalizeCategory(tt.raw)
		if got != tt.want || known != tt.known {
			t.Errorf("NormalizeCategory(%q) = %q, %v, want %q, %v", tt.raw, got, known, tt.want, tt.known)
		}
	}
}

func TestNormalizeCondition(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		known bool
	}{
		{"new", ConditionWorking, true},
		{"Good", ConditionWorking, true},
		{"WORKING", ConditionWorking, true},
		{"damaged", ConditionDamaged, true},
		{"NOT_WORKING", ConditionNotWorking, true},
		{"discarded", ConditionDiscarded, true},
		{"broken", ConditionWorking, false},
	}

	for _, tt := range tests {
		got, known := NormalizeCondition(tt.raw)
		if got != tt.want || known != tt.known {
			t.Errorf("NormalizeCondition(%q) = %q, %v, want %q, %v", tt.raw, got, known, tt.want, tt.known)
		}
	}
}

func TestEnumDomains(t *testing.T) {
	if !ValidCategory(CategoryMouse) || ValidCategory("mouse") {
		t.Error("category domain is case-sensitive and must contain MOUSE")
	}
	if !ValidCondition(ConditionDamaged) || ValidCondition("BROKEN") {
		t.Error("unexpected condition domain")
	}
	if !ValidLocation(LocationDiscarded) || ValidLocation("") {
		t.Error("unexpected location domain")
	}
}

func TestIsDefective(t *testing.T) {
	for _, c := range Conditions {
		want := c != ConditionWorking
		if got := IsDefective(c); got != want {
			t.Errorf("IsDefective(%q) = %v, want %v", c, got, want)
		}
	}
}

func TestIssueIsOpen(t *testing.T) {
	for status, want := range map[string]bool{
		IssueStatusOpen:       true,
		IssueStatusInProgress: true,
		IssueStatusResolved:   false,
		IssueStatusClosed:     false,
	} {
		if got := (Issue{Status: status}).IsOpen(); got != want {
			t.Errorf("Issue{Status: %q}.IsOpen() = %v, want %v", status, got, want)
		}
	}
}
