package wind

import (
	"errors"
	"testing"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/report"
	"wx_decoder/internal/tokenizer"
)

func classify(t *testing.T, text string) grammar.ClassifiedToken {
	t.Helper()
	ct := grammar.Classify(tokenizer.Token{Text: text})
	if ct.Kind != grammar.KindWind && ct.Kind != grammar.KindWindVariation {
		t.Fatalf("Classify(%q).Kind = %v, want wind", text, ct.Kind)
	}
	return ct
}

func TestParse(t *testing.T) {
	tests := []struct {
		text     string
		dir      int
		variable bool
		speed    int
		gust     int // 0 = none
		above    bool
		unit     string
	}{
		{"24015KT", 240, false, 15, 0, false, "KT"},
		{"24015G25KT", 240, false, 15, 25, false, "KT"},
		{"VRB03KT", 0, true, 3, 0, false, "KT"},
		{"00000KT", 0, false, 0, 0, false, "KT"},
		{"14008MPS", 140, false, 8, 0, false, "MPS"},
		{"09012KMH", 90, false, 12, 0, false, "KMH"},
		{"P26099KT", 260, false, 99, 0, true, "KT"},
		{"ABV49MPS", 0, true, 49, 0, true, "MPS"},
	}

	for _, tt := range tests {
		w, err := Parse(classify(t, tt.text))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.text, err)
			continue
		}
		if !tt.variable && w.Direction != tt.dir {
			t.Errorf("Parse(%q).Direction = %d, want %d", tt.text, w.Direction, tt.dir)
		}
		if w.Variable != tt.variable {
			t.Errorf("Parse(%q).Variable = %v, want %v", tt.text, w.Variable, tt.variable)
		}
		if w.Speed != tt.speed {
			t.Errorf("Parse(%q).Speed = %d, want %d", tt.text, w.Speed, tt.speed)
		}
		if tt.gust == 0 && w.Gust != nil {
			t.Errorf("Parse(%q).Gust = %d, want nil", tt.text, *w.Gust)
		}
		if tt.gust != 0 && (w.Gust == nil || *w.Gust != tt.gust) {
			t.Errorf("Parse(%q).Gust = %v, want %d", tt.text, w.Gust, tt.gust)
		}
		if w.Above != tt.above {
			t.Errorf("Parse(%q).Above = %v, want %v", tt.text, w.Above, tt.above)
		}
		if w.Unit != tt.unit {
			t.Errorf("Parse(%q).Unit = %q, want %q", tt.text, w.Unit, tt.unit)
		}
	}
}

func TestParse_GustNotAboveSustained(t *testing.T) {
	_, err := Parse(classify(t, "24025G15KT"))
	if err == nil {
		t.Fatal("expected error for gust below sustained speed")
	}
	var pe report.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want report.ParseError", err)
	}
	if pe.Component != report.ComponentWind {
		t.Errorf("Component = %q, want %q", pe.Component, report.ComponentWind)
	}

	if _, err := Parse(classify(t, "24015G15KT")); err == nil {
		t.Fatal("expected error for gust equal to sustained speed")
	}
}

func TestParse_DirectionOutOfRange(t *testing.T) {
	if _, err := Parse(classify(t, "37015KT")); err == nil {
		t.Fatal("expected error for direction beyond 360")
	}
}

func TestParseVariation(t *testing.T) {
	from, to, err := ParseVariation(classify(t, "210V280"))
	if err != nil {
		t.Fatalf("ParseVariation() error = %v", err)
	}
	if from != 210 || to != 280 {
		t.Errorf("ParseVariation() = %d, %d, want 210, 280", from, to)
	}
}
