package wx

import (
	"reflect"
	"testing"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/tokenizer"
)

func classify(t *testing.T, text string) grammar.ClassifiedToken {
	t.Helper()
	ct := grammar.Classify(tokenizer.Token{Text: text})
	if ct.Kind != grammar.KindPhenomena {
		t.Fatalf("Classify(%q).Kind = %v, want phenomenon", text, ct.Kind)
	}
	return ct
}

func TestParse(t *testing.T) {
	tests := []struct {
		text        string
		intensity   string
		descriptors []string
		phenomena   []string
	}{
		{"RA", "", nil, []string{"RA"}},
		{"-SHRA", "-", []string{"SH"}, []string{"RA"}},
		{"+TSRAGR", "+", []string{"TS"}, []string{"RA", "GR"}},
		{"VCFG", "VC", nil, []string{"FG"}},
		{"RERA", "RE", nil, []string{"RA"}},
		{"FZDZ", "", []string{"FZ"}, []string{"DZ"}},
		{"BLSN", "", []string{"BL"}, []string{"SN"}},
		{"MIFG", "", []string{"MI"}, []string{"FG"}},
		{"TS", "", []string{"TS"}, nil},
		{"VCSH", "VC", []string{"SH"}, nil},
		{"+FC", "+", nil, []string{"FC"}},
	}

	for _, tt := range tests {
		p, err := Parse(classify(t, tt.text))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.text, err)
			continue
		}
		if p.Intensity != tt.intensity {
			t.Errorf("Parse(%q).Intensity = %q, want %q", tt.text, p.Intensity, tt.intensity)
		}
		if !reflect.DeepEqual(p.Descriptors, tt.descriptors) {
			t.Errorf("Parse(%q).Descriptors = %v, want %v", tt.text, p.Descriptors, tt.descriptors)
		}
		if !reflect.DeepEqual(p.Phenomena, tt.phenomena) {
			t.Errorf("Parse(%q).Phenomena = %v, want %v", tt.text, p.Phenomena, tt.phenomena)
		}
		if p.Raw != tt.text {
			t.Errorf("Parse(%q).Raw = %q", tt.text, p.Raw)
		}
	}
}

func TestParse_NSW(t *testing.T) {
	p, err := Parse(classify(t, "NSW"))
	if err != nil {
		t.Fatalf("Parse(NSW) error = %v", err)
	}
	if p.Raw != "NSW" {
		t.Errorf("Raw = %q, want NSW", p.Raw)
	}
	if len(p.Descriptors) != 0 || len(p.Phenomena) != 0 {
		t.Errorf("NSW decoded codes = %v %v, want none", p.Descriptors, p.Phenomena)
	}
}

func TestDescriptionTables(t *testing.T) {
	if Phenomena["RA"] != "rain" {
		t.Errorf("Phenomena[RA] = %q, want rain", Phenomena["RA"])
	}
	if Descriptors["TS"] != "thunderstorm" {
		t.Errorf("Descriptors[TS] = %q, want thunderstorm", Descriptors["TS"])
	}
	if Intensities["-"] != "light" {
		t.Errorf("Intensities[-] = %q, want light", Intensities["-"])
	}
}
