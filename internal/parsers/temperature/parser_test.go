package temperature

import (
	"testing"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/tokenizer"
)

func classify(t *testing.T, text string, kind grammar.Kind) grammar.ClassifiedToken {
	t.Helper()
	ct := grammar.Classify(tokenizer.Token{Text: text})
	if ct.Kind != kind {
		t.Fatalf("Classify(%q).Kind = %v, want %v", text, ct.Kind, kind)
	}
	return ct
}

func TestParse(t *testing.T) {
	tests := []struct {
		text    string
		celsius int
		dew     int // -99 = nil
	}{
		{"22/18", 22, 18},
		{"M05/M12", -5, -12},
		{"00/M01", 0, -1},
		{"17/", 17, -99},
		{"M00/M02", 0, -2},
	}

	for _, tt := range tests {
		tp, err := Parse(classify(t, tt.text, grammar.KindTemperature))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.text, err)
			continue
		}
		if tp.Celsius != tt.celsius {
			t.Errorf("Parse(%q).Celsius = %d, want %d", tt.text, tp.Celsius, tt.celsius)
		}
		if tt.dew == -99 && tp.Dewpoint != nil {
			t.Errorf("Parse(%q).Dewpoint = %d, want nil", tt.text, *tp.Dewpoint)
		}
		if tt.dew != -99 && (tp.Dewpoint == nil || *tp.Dewpoint != tt.dew) {
			t.Errorf("Parse(%q).Dewpoint = %v, want %d", tt.text, tp.Dewpoint, tt.dew)
		}
	}
}

func TestParseExtreme(t *testing.T) {
	tx, err := ParseExtreme(classify(t, "TX15/2518Z", grammar.KindTafTemperature))
	if err != nil {
		t.Fatalf("ParseExtreme() error = %v", err)
	}
	if tx.Kind != "TX" {
		t.Errorf("Kind = %q, want TX", tx.Kind)
	}
	if tx.Celsius != 15 {
		t.Errorf("Celsius = %d, want 15", tx.Celsius)
	}
	if tx.At.Day != 25 || tx.At.Hour != 18 {
		t.Errorf("At = %+v, want day 25 hour 18", tx.At)
	}

	tn, err := ParseExtreme(classify(t, "TNM02/2606Z", grammar.KindTafTemperature))
	if err != nil {
		t.Fatalf("ParseExtreme() error = %v", err)
	}
	if tn.Kind != "TN" {
		t.Errorf("Kind = %q, want TN", tn.Kind)
	}
	if tn.Celsius != -2 {
		t.Errorf("Celsius = %d, want -2", tn.Celsius)
	}
}

func TestParseExtreme_BadDay(t *testing.T) {
	if _, err := ParseExtreme(classify(t, "TX15/3318Z", grammar.KindTafTemperature)); err == nil {
		t.Fatal("expected error for day 33")
	}
}
