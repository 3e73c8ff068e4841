// Package ingest subscribes to the raw report feed, decodes each report
// and fans the result out to the archive, the analytics table, the state
// tracker and the sink topic.
//
// Note about input formats
// ------------------------
// Feeds deliver raw reports in several shapes:
//  1. Feed wrapper: {"source":{...}, "report":{"text":"METAR ..."}}
//  2. Flat object:  {"station":"KJFK","text":"METAR ..."} or {"report":"METAR ..."}
//  3. Bare text:    METAR KJFK 061751Z ...
//
// ParseEnvelope autodetects all three.
package ingest

import (
	"encoding/json"
	"strings"
)

// Envelope is one raw report pulled off the feed.
type Envelope struct {
	Station    string `json:"station,omitempty"`
	ReceivedAt string `json:"received_at,omitempty"`
	Source     string `json:"source,omitempty"`
	Raw        string `json:"raw"`
}

// feedSource carries source metadata from the feed wrapper.
type feedSource struct {
	Name        string `json:"name,omitempty"`
	Application string `json:"application,omitempty"`
}

// feedInner is the inner report object of the feed wrapper.
type feedInner struct {
	Station    string `json:"station,omitempty"`
	Text       string `json:"text,omitempty"`
	Report     string `json:"report,omitempty"`
	ReceivedAt string `json:"received_at,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// feedWrapper is the feed message format where the report is nested
// inside a "report" field with metadata at the top level.
type feedWrapper struct {
	Source     *feedSource `json:"source,omitempty"`
	Station    string      `json:"station,omitempty"`
	ReceivedAt string      `json:"received_at,omitempty"`
	Report     *feedInner  `json:"report,omitempty"`
}

// flatEnvelope is the flat message format.
type flatEnvelope struct {
	Station    string `json:"station,omitempty"`
	Text       string `json:"text,omitempty"`
	Report     string `json:"report,omitempty"`
	Raw        string `json:"raw,omitempty"`
	ReceivedAt string `json:"received_at,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// ParseEnvelope autodetects the feed message shape and extracts the raw
// report text. Returns false when no report text can be found.
func ParseEnvelope(data []byte) (Envelope, bool) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Envelope{}, false
	}

	// Bare text line: not JSON at all.
	if trimmed[0] != '{' {
		return Envelope{Raw: trimmed}, true
	}

	// 1) Feed wrapper.
	var w feedWrapper
	if err := json.Unmarshal(data, &w); err == nil && w.Report != nil {
		raw := firstNonEmpty(w.Report.Text, w.Report.Report)
		if raw != "" {
			env := Envelope{
				Station:    firstNonEmpty(w.Report.Station, w.Station),
				ReceivedAt: firstNonEmpty(w.Report.ReceivedAt, w.Report.Timestamp, w.ReceivedAt),
				Raw:        strings.TrimSpace(raw),
			}
			if w.Source != nil {
				env.Source = firstNonEmpty(w.Source.Name, w.Source.Application)
			}
			return env, true
		}
	}

	// 2) Flat object.
	var f flatEnvelope
	if err := json.Unmarshal(data, &f); err == nil {
		raw := firstNonEmpty(f.Text, f.Report, f.Raw)
		if raw != "" {
			return Envelope{
				Station:    f.Station,
				ReceivedAt: firstNonEmpty(f.ReceivedAt, f.Timestamp),
				Raw:        strings.TrimSpace(raw),
			}, true
		}
	}

	return Envelope{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
