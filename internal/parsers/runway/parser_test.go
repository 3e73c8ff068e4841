package runway

import (
	"testing"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/tokenizer"
)

func classify(t *testing.T, text string) grammar.ClassifiedToken {
	t.Helper()
	ct := grammar.Classify(tokenizer.Token{Text: text})
	if ct.Kind != grammar.KindRunwayState {
		t.Fatalf("Classify(%q).Kind = %v, want runway_state", text, ct.Kind)
	}
	return ct
}

func TestParse(t *testing.T) {
	st, err := Parse(classify(t, "R23/490156"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if st.Runway != "23" {
		t.Errorf("Runway = %q, want 23", st.Runway)
	}
	if st.Deposit != "dry snow" {
		t.Errorf("Deposit = %q, want dry snow", st.Deposit)
	}
	if st.Extent != "51% to 100%" {
		t.Errorf("Extent = %q, want 51%% to 100%%", st.Extent)
	}
	if st.Depth != "1mm" {
		t.Errorf("Depth = %q, want 1mm", st.Depth)
	}
	if st.Braking != "coefficient 0.56" {
		t.Errorf("Braking = %q, want coefficient 0.56", st.Braking)
	}
	if st.Raw != "R23/490156" {
		t.Errorf("Raw = %q", st.Raw)
	}
}

func TestParse_NotReportedFields(t *testing.T) {
	st, err := Parse(classify(t, "R23///////"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if st.Deposit != "not reported" {
		t.Errorf("Deposit = %q, want not reported", st.Deposit)
	}
	if st.Depth != "not reported" {
		t.Errorf("Depth = %q, want not reported", st.Depth)
	}
	if st.Braking != "not reported" {
		t.Errorf("Braking = %q, want not reported", st.Braking)
	}
}

func TestParse_DepthAndBrakingCodes(t *testing.T) {
	tests := []struct {
		text    string
		depth   string
		braking string
	}{
		{"R09/819890", "40cm or more", "coefficient 0.90"},
		{"R09/810095", "less than 1mm", "good"},
		{"R09/819891", "40cm or more", "poor"},
		{"R09/559399", "15cm", "unreliable or unmeasurable"},
	}
	for _, tt := range tests {
		st, err := Parse(classify(t, tt.text))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.text, err)
			continue
		}
		if st.Depth != tt.depth {
			t.Errorf("Parse(%q).Depth = %q, want %q", tt.text, st.Depth, tt.depth)
		}
		if st.Braking != tt.braking {
			t.Errorf("Parse(%q).Braking = %q, want %q", tt.text, st.Braking, tt.braking)
		}
	}
}
