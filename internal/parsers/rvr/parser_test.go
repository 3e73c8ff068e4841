package rvr

import (
	"testing"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/tokenizer"
)

func classify(t *testing.T, text string) grammar.ClassifiedToken {
	t.Helper()
	ct := grammar.Classify(tokenizer.Token{Text: text})
	if ct.Kind != grammar.KindRVR {
		t.Fatalf("Classify(%q).Kind = %v, want rvr", text, ct.Kind)
	}
	return ct
}

func TestParse(t *testing.T) {
	tests := []struct {
		text        string
		runway      string
		value       int
		unit        string
		greaterThan bool
		lessThan    bool
		high        int // 0 = none
		trend       string
	}{
		{"R06/0400", "06", 400, "M", false, false, 0, ""},
		{"R24L/M0050", "24L", 50, "M", false, true, 0, ""},
		{"R16/P2000N", "16", 2000, "M", true, false, 0, "no change"},
		{"R01R/1200U", "01R", 1200, "M", false, false, 0, "improving"},
		{"R33/0900D", "33", 900, "M", false, false, 0, "deteriorating"},
		{"R04/P1500 V2500FT", "04", 1500, "FT", true, false, 2500, ""},
		{"R22/0700V1000", "22", 700, "M", false, false, 1000, ""},
	}

	for _, tt := range tests {
		r, err := Parse(classify(t, tt.text))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.text, err)
			continue
		}
		if r.Runway != tt.runway {
			t.Errorf("Parse(%q).Runway = %q, want %q", tt.text, r.Runway, tt.runway)
		}
		if r.Value != tt.value {
			t.Errorf("Parse(%q).Value = %d, want %d", tt.text, r.Value, tt.value)
		}
		if r.Unit != tt.unit {
			t.Errorf("Parse(%q).Unit = %q, want %q", tt.text, r.Unit, tt.unit)
		}
		if r.GreaterThan != tt.greaterThan {
			t.Errorf("Parse(%q).GreaterThan = %v, want %v", tt.text, r.GreaterThan, tt.greaterThan)
		}
		if r.LessThan != tt.lessThan {
			t.Errorf("Parse(%q).LessThan = %v, want %v", tt.text, r.LessThan, tt.lessThan)
		}
		if tt.high == 0 && r.High != nil {
			t.Errorf("Parse(%q).High = %d, want nil", tt.text, *r.High)
		}
		if tt.high != 0 && (r.High == nil || *r.High != tt.high) {
			t.Errorf("Parse(%q).High = %v, want %d", tt.text, r.High, tt.high)
		}
		if r.Trend != tt.trend {
			t.Errorf("Parse(%q).Trend = %q, want %q", tt.text, r.Trend, tt.trend)
		}
	}
}

func TestParse_VariableBoundBelowLower(t *testing.T) {
	if _, err := Parse(classify(t, "R04/1500V0500")); err == nil {
		t.Fatal("expected error for upper bound below lower")
	}
}
