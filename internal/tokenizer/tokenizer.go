// Package tokenizer splits raw report text into the ordered group tokens
// the grammar dispatcher classifies.
package tokenizer

import (
	"regexp"
	"strings"

	"wx_decoder/internal/report"
)

// Token is one report group and its position index within the body.
// Tokens are immutable once produced.
type Token struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Groups whose grammar spans multiple whitespace-delimited pieces. The
// pieces are recombined into one token with the original space kept, so
// re-joining the token sequence reproduces the normalized input.
var (
	// 1 1/2SM: whole statute miles followed by a fraction.
	wholeMilesRe = regexp.MustCompile(`^[PM]?\d{1,2}$`)
	fractionRe   = regexp.MustCompile(`^\d{1,2}/\d{1,2}(?:SM|KM)$`)

	// R04/P1500 V2500FT: an RVR group split before its variable bound.
	rvrHeadRe = regexp.MustCompile(`^R\d{2}[LCR]?/[PM]?\d{4}$`)
	rvrTailRe = regexp.MustCompile(`^V[PM]?\d{4}(?:FT)?[UDN]?$`)
)

// Tokenize splits raw into ordered tokens, recombining multi-piece groups.
// Returns EmptyReportError when nothing remains after trimming.
func Tokenize(raw string) ([]Token, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, report.EmptyReportError{}
	}

	tokens := make([]Token, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		text := fields[i]
		if i+1 < len(fields) && joins(text, fields[i+1]) {
			text = text + " " + fields[i+1]
			i++
		}
		tokens = append(tokens, Token{Text: text, Index: len(tokens)})
	}
	return tokens, nil
}

func joins(head, tail string) bool {
	if wholeMilesRe.MatchString(head) && fractionRe.MatchString(tail) {
		return true
	}
	if rvrHeadRe.MatchString(head) && rvrTailRe.MatchString(tail) {
		return true
	}
	return false
}

// Join reverses Tokenize: the whitespace-normalized body text.
func Join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// TAF bodies frequently arrive with change markers glued to the previous
// group (22010KTFM0600, PROB30TEMPO). NormalizeTaf repairs the spacing so
// the tokenizer sees each marker as its own group.
var (
	gluedFMBefore   = regexp.MustCompile(`(\S)FM(\d{6})`)
	gluedFMAfter    = regexp.MustCompile(`FM(\d{6})(\S)`)
	gluedChangeRe   = regexp.MustCompile(`(\S)(BECMG|TEMPO)`)
	gluedProbRe     = regexp.MustCompile(`PROB(\d{2})(\S)`)
	gluedCloudRe    = regexp.MustCompile(`([^\s/])(FEW|SCT|BKN|OVC)(\d{3})`)
)

// NormalizeTaf splits glued TAF change-group and cloud tokens. It is a
// repair pass for malformed input; well-formed bodies pass through
// unchanged.
func NormalizeTaf(raw string) string {
	s := gluedFMBefore.ReplaceAllString(raw, "$1 FM$2")
	s = gluedFMAfter.ReplaceAllString(s, "FM$1 $2")
	s = gluedChangeRe.ReplaceAllString(s, "$1 $2")
	s = gluedProbRe.ReplaceAllString(s, "PROB$1 $2")
	s = gluedCloudRe.ReplaceAllString(s, "$1 $2$3")
	return s
}
