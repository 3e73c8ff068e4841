package sky

import (
	"testing"

	"wx_decoder/internal/grammar"
	"wx_decoder/internal/tokenizer"
)

func classify(t *testing.T, text string) grammar.ClassifiedToken {
	t.Helper()
	ct := grammar.Classify(tokenizer.Token{Text: text})
	if ct.Kind != grammar.KindSky {
		t.Fatalf("Classify(%q).Kind = %v, want sky", text, ct.Kind)
	}
	return ct
}

func TestParse(t *testing.T) {
	tests := []struct {
		text          string
		coverage      string
		height        int // -1 = nil
		unknownHeight bool
		convective    string
		unknownType   bool
	}{
		{"FEW020", "FEW", 2000, false, "", false},
		{"SCT100", "SCT", 10000, false, "", false},
		{"BKN015CB", "BKN", 1500, false, "CB", false},
		{"SCT018TCU", "SCT", 1800, false, "TCU", false},
		{"OVC001", "OVC", 100, false, "", false},
		{"VV002", "VV", 200, false, "", false},
		{"BKN///", "BKN", -1, true, "", false},
		{"SKC", "SKC", -1, false, "", false},
		{"CLR", "CLR", -1, false, "", false},
		{"NSC", "NSC", -1, false, "", false},
		{"NCD", "NCD", -1, false, "", false},
		{"FEW025///", "FEW", 2500, false, "", true},
	}

	for _, tt := range tests {
		layer, err := Parse(classify(t, tt.text))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.text, err)
			continue
		}
		if layer.Coverage != tt.coverage {
			t.Errorf("Parse(%q).Coverage = %q, want %q", tt.text, layer.Coverage, tt.coverage)
		}
		if tt.height == -1 && layer.Height != nil {
			t.Errorf("Parse(%q).Height = %d, want nil", tt.text, *layer.Height)
		}
		if tt.height != -1 && (layer.Height == nil || *layer.Height != tt.height) {
			t.Errorf("Parse(%q).Height = %v, want %d", tt.text, layer.Height, tt.height)
		}
		if layer.UnknownHeight != tt.unknownHeight {
			t.Errorf("Parse(%q).UnknownHeight = %v, want %v", tt.text, layer.UnknownHeight, tt.unknownHeight)
		}
		if layer.Convective != tt.convective {
			t.Errorf("Parse(%q).Convective = %q, want %q", tt.text, layer.Convective, tt.convective)
		}
		if layer.UnknownType != tt.unknownType {
			t.Errorf("Parse(%q).UnknownType = %v, want %v", tt.text, layer.UnknownType, tt.unknownType)
		}
	}
}

func TestIsClear(t *testing.T) {
	for _, code := range []string{"SKC", "CLR", "NSC", "NCD"} {
		if !IsClear(code) {
			t.Errorf("IsClear(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"FEW", "SCT", "BKN", "OVC", "VV", ""} {
		if IsClear(code) {
			t.Errorf("IsClear(%q) = true, want false", code)
		}
	}
}
