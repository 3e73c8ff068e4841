package grammar

import (
	"regexp"

	"wx_decoder/internal/tokenizer"
)

// ClassifiedToken is one body token together with the kind and named
// captures of the first rule that matched it. Unmatched tokens carry
// KindUnknown and a nil capture map.
type ClassifiedToken struct {
	tokenizer.Token
	Kind     Kind
	Rule     string
	Captures map[string]string
}

// Capture returns the named capture value, or def when the group is
// absent or matched empty.
func (t ClassifiedToken) Capture(name, def string) string {
	if v, ok := t.Captures[name]; ok && v != "" {
		return v
	}
	return def
}

// Has reports whether the named capture matched non-empty text.
func (t ClassifiedToken) Has(name string) bool {
	return t.Captures[name] != ""
}

// Classify resolves one token against the body rule table, first match
// wins. Classification is total: every token comes back with a kind,
// KindUnknown when no rule claims it.
func Classify(tok tokenizer.Token) ClassifiedToken {
	for _, r := range bodyRules {
		m := r.compiled.FindStringSubmatch(tok.Text)
		if m == nil {
			continue
		}
		return ClassifiedToken{
			Token:    tok,
			Kind:     r.Kind,
			Rule:     r.Name,
			Captures: captures(r.compiled, m),
		}
	}
	return ClassifiedToken{Token: tok, Kind: KindUnknown}
}

// ClassifyAll classifies every token in order.
func ClassifyAll(tokens []tokenizer.Token) []ClassifiedToken {
	out := make([]ClassifiedToken, len(tokens))
	for i, tok := range tokens {
		out[i] = Classify(tok)
	}
	return out
}

// captures extracts the named groups of a successful match.
func captures(re *regexp.Regexp, m []string) map[string]string {
	caps := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		caps[name] = m[i]
	}
	return caps
}

// RuleTrace records one rule attempt during classification.
type RuleTrace struct {
	Rule     string
	Kind     Kind
	Pattern  string
	Matched  bool
	Captures map[string]string
}

// ClassifyWithTrace classifies tok and records the attempt outcome for
// every rule in the table, including rules after the winning one. Later
// matches reveal shadowing when the table order changes.
func ClassifyWithTrace(tok tokenizer.Token) (ClassifiedToken, []RuleTrace) {
	ct := ClassifiedToken{Token: tok, Kind: KindUnknown}
	trail := make([]RuleTrace, 0, len(bodyRules))

	for _, r := range bodyRules {
		rt := RuleTrace{Rule: r.Name, Kind: r.Kind, Pattern: r.compiled.String()}
		if m := r.compiled.FindStringSubmatch(tok.Text); m != nil {
			rt.Matched = true
			rt.Captures = captures(r.compiled, m)
			if ct.Kind == KindUnknown && ct.Rule == "" {
				ct.Kind = r.Kind
				ct.Rule = r.Name
				ct.Captures = rt.Captures
			}
		}
		trail = append(trail, rt)
	}
	return ct, trail
}
