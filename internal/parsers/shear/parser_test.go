package shear

import (
	"testing"

	"wx_decoder/internal/report"
)

func TestParse(t *testing.T) {
	tests := []struct {
		parts  []string
		scope  string
		runway string
		raw    string
	}{
		{[]string{"WS", "RWY", "24"}, report.ShearRunway, "24", "WS RWY 24"},
		{[]string{"WS", "R03"}, report.ShearRunway, "03", "WS R03"},
		{[]string{"WS", "ALL", "RWY"}, report.ShearAllRunways, "", "WS ALL RWY"},
		{[]string{"WS", "TKOF", "RWY", "20"}, report.ShearTakeoff, "20", "WS TKOF RWY 20"},
		{[]string{"WS", "LDG", "RWY", "02L"}, report.ShearLanding, "02L", "WS LDG RWY 02L"},
		{[]string{"WSRWY26"}, report.ShearRunway, "26", "WSRWY26"},
	}

	for _, tt := range tests {
		ws, err := Parse(tt.parts)
		if err != nil {
			t.Errorf("Parse(%v) error = %v", tt.parts, err)
			continue
		}
		if ws.Scope != tt.scope {
			t.Errorf("Parse(%v).Scope = %q, want %q", tt.parts, ws.Scope, tt.scope)
		}
		if ws.Runway != tt.runway {
			t.Errorf("Parse(%v).Runway = %q, want %q", tt.parts, ws.Runway, tt.runway)
		}
		if ws.Raw != tt.raw {
			t.Errorf("Parse(%v).Raw = %q, want %q", tt.parts, ws.Raw, tt.raw)
		}
	}
}

func TestParse_NoRunway(t *testing.T) {
	if _, err := Parse([]string{"WS", "RWY"}); err == nil {
		t.Fatal("expected error for runway-scoped shear with no designator")
	}
}

func TestFollows(t *testing.T) {
	for _, tok := range []string{"RWY", "ALL", "TKOF", "LDG", "24", "02L", "R03", "RWY20"} {
		if !Follows(tok) {
			t.Errorf("Follows(%q) = false, want true", tok)
		}
	}
	for _, tok := range []string{"BKN010", "12/08", "Q1013", "NOSIG", "EGLL"} {
		if Follows(tok) {
			t.Errorf("Follows(%q) = true, want false", tok)
		}
	}
}
