// Package main provides a corpus analyzer for captured weather reports.
// It analyzes report distribution, decode coverage, and the tokens the
// decoder could not recognize, using the SQLite capture database the
// wx_decoder CLI writes with -capture.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	dbPath := flag.String("db", "reports.db", "SQLite capture database file")
	outputFormat := flag.String("format", "text", "Output format: text, json")
	topN := flag.Int("top", 20, "Show top N items in each category")
	station := flag.String("station", "", "Analyze a specific station only")

	flag.Parse()

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	report := &AnalysisReport{}

	// Run all analyses.
	fmt.Fprintf(os.Stderr, "Analyzing corpus...\n")

	report.Summary = analyzeSummary(db)
	fmt.Fprintf(os.Stderr, "  - Summary complete\n")

	report.KindDistribution = analyzeKindDistribution(db)
	fmt.Fprintf(os.Stderr, "  - Kind distribution complete\n")

	report.StationDistribution = analyzeStationDistribution(db, *station, *topN)
	fmt.Fprintf(os.Stderr, "  - Station distribution complete\n")

	report.ComponentWarnings = analyzeComponentWarnings(db, *station)
	fmt.Fprintf(os.Stderr, "  - Component warnings complete\n")

	report.UnrecognizedTokens = analyzeUnrecognizedTokens(db, *station, *topN)
	fmt.Fprintf(os.Stderr, "  - Unrecognized tokens complete\n")

	// Output.
	if *outputFormat == "json" {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
	} else {
		printTextReport(report)
	}
}

// AnalysisReport contains all analysis results.
type AnalysisReport struct {
	Summary             SummaryStats      `json:"summary"`
	KindDistribution    []KindCount       `json:"kind_distribution"`
	StationDistribution []StationStats    `json:"station_distribution"`
	ComponentWarnings   []ComponentCount  `json:"component_warnings"`
	UnrecognizedTokens  []TokenShapeCount `json:"unrecognized_tokens"`
}

type SummaryStats struct {
	TotalReports   int     `json:"total_reports"`
	CleanReports   int     `json:"clean_reports"`
	WarnedReports  int     `json:"warned_reports"`
	CleanRate      float64 `json:"clean_rate"`
	TotalWarnings  int     `json:"total_warnings"`
	UniqueStations int     `json:"unique_stations"`
}

type KindCount struct {
	Kind  string  `json:"kind"`
	Count int     `json:"count"`
	Pct   float64 `json:"percentage"`
}

type StationStats struct {
	Station   string  `json:"station"`
	Total     int     `json:"total"`
	Warned    int     `json:"warned"`
	CleanRate float64 `json:"clean_rate"`
}

type ComponentCount struct {
	Component string  `json:"component"`
	Count     int     `json:"count"`
	Pct       float64 `json:"percentage"` // Of all warnings.
}

type TokenShapeCount struct {
	Shape    string   `json:"shape"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// capturedWarning mirrors the warning entries inside decoded_json.
type capturedWarning struct {
	Component string `json:"component"`
	Token     string `json:"token"`
	Message   string `json:"message"`
}

func analyzeSummary(db *sql.DB) SummaryStats {
	var stats SummaryStats

	db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&stats.TotalReports)
	db.QueryRow("SELECT COUNT(*) FROM reports WHERE warning_count = 0").Scan(&stats.CleanReports)
	stats.WarnedReports = stats.TotalReports - stats.CleanReports
	if stats.TotalReports > 0 {
		stats.CleanRate = float64(stats.CleanReports) / float64(stats.TotalReports) * 100
	}
	db.QueryRow("SELECT COALESCE(SUM(warning_count), 0) FROM reports").Scan(&stats.TotalWarnings)
	db.QueryRow("SELECT COUNT(DISTINCT station) FROM reports").Scan(&stats.UniqueStations)

	return stats
}

func analyzeKindDistribution(db *sql.DB) []KindCount {
	rows, err := db.Query(`
		SELECT kind, COUNT(*) as cnt
		FROM reports
		GROUP BY kind
		ORDER BY cnt DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var total int
	db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&total)

	var results []KindCount
	for rows.Next() {
		var kc KindCount
		rows.Scan(&kc.Kind, &kc.Count)
		if total > 0 {
			kc.Pct = float64(kc.Count) / float64(total) * 100
		}
		results = append(results, kc)
	}
	return results
}

func analyzeStationDistribution(db *sql.DB, filterStation string, topN int) []StationStats {
	query := `
		SELECT
			station,
			COUNT(*) as total,
			SUM(CASE WHEN warning_count > 0 THEN 1 ELSE 0 END) as warned
		FROM reports
	`
	if filterStation != "" {
		query += " WHERE station = ?"
	}
	query += " GROUP BY station ORDER BY total DESC LIMIT ?"

	var rows *sql.Rows
	var err error
	if filterStation != "" {
		rows, err = db.Query(query, filterStation, topN)
	} else {
		rows, err = db.Query(query, topN)
	}
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []StationStats
	for rows.Next() {
		var ss StationStats
		rows.Scan(&ss.Station, &ss.Total, &ss.Warned)
		if ss.Total > 0 {
			ss.CleanRate = float64(ss.Total-ss.Warned) / float64(ss.Total) * 100
		}
		results = append(results, ss)
	}
	return results
}

// collectWarnings reads the warning arrays out of decoded_json for each
// warned report, optionally filtered to one station.
func collectWarnings(db *sql.DB, filterStation string) []capturedWarning {
	query := `SELECT decoded_json FROM reports WHERE warning_count > 0`
	var rows *sql.Rows
	var err error
	if filterStation != "" {
		query += ` AND station = ?`
		rows, err = db.Query(query, filterStation)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil
	}
	defer rows.Close()

	var all []capturedWarning
	for rows.Next() {
		var jsonStr string
		rows.Scan(&jsonStr)

		var decoded struct {
			Warnings []capturedWarning `json:"warnings"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
			continue
		}
		all = append(all, decoded.Warnings...)
	}
	return all
}

func analyzeComponentWarnings(db *sql.DB, filterStation string) []ComponentCount {
	warnings := collectWarnings(db, filterStation)
	if len(warnings) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, w := range warnings {
		component := w.Component
		if component == "" {
			component = "(unknown)"
		}
		counts[component]++
	}

	var results []ComponentCount
	for component, cnt := range counts {
		results = append(results, ComponentCount{
			Component: component,
			Count:     cnt,
			Pct:       float64(cnt) / float64(len(warnings)) * 100,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Count > results[j].Count
	})
	return results
}

// Shape patterns for unrecognized tokens. Grouping near-miss tokens by
// shape points at the group grammar that almost matched.
var tokenShapes = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{"<WIND>", regexp.MustCompile(`(KT|MPS|KMH)$`)},
	{"<RVR>", regexp.MustCompile(`^R\d{2}`)},
	{"<SKY>", regexp.MustCompile(`^(FEW|SCT|BKN|OVC|VV)`)},
	{"<TEMP>", regexp.MustCompile(`^M?\d{1,2}/M?\d{0,2}$`)},
	{"<PRESS>", regexp.MustCompile(`^[AQ]\d{2,4}$`)},
	{"<TIME>", regexp.MustCompile(`^\d{6}Z?$`)},
	{"<PERIOD>", regexp.MustCompile(`^\d{4}/\d{4}$`)},
	{"<RWYSTATE>", regexp.MustCompile(`^\d{8}$`)},
	{"<NUM>", regexp.MustCompile(`^\d+$`)},
	{"<ALPHA>", regexp.MustCompile(`^[A-Z]+$`)},
}

func classifyToken(tok string) string {
	for _, ts := range tokenShapes {
		if ts.Pattern.MatchString(tok) {
			return ts.Name
		}
	}
	return "<OTHER>"
}

func analyzeUnrecognizedTokens(db *sql.DB, filterStation string, topN int) []TokenShapeCount {
	warnings := collectWarnings(db, filterStation)

	shapeCounts := make(map[string]int)
	shapeExamples := make(map[string][]string)
	for _, w := range warnings {
		if w.Component != "token" || w.Token == "" {
			continue
		}
		shape := classifyToken(w.Token)
		shapeCounts[shape]++
		if len(shapeExamples[shape]) < 5 {
			shapeExamples[shape] = append(shapeExamples[shape], w.Token)
		}
	}

	var results []TokenShapeCount
	for shape, cnt := range shapeCounts {
		results = append(results, TokenShapeCount{
			Shape:    shape,
			Count:    cnt,
			Examples: shapeExamples[shape],
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Count > results[j].Count
	})
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

func printTextReport(report *AnalysisReport) {
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                 WEATHER REPORT CORPUS ANALYSIS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	// Summary.
	fmt.Println("SUMMARY")
	fmt.Println("───────")
	s := report.Summary
	fmt.Printf("Total Reports:      %d\n", s.TotalReports)
	fmt.Printf("Clean:              %d (%.1f%%)\n", s.CleanReports, s.CleanRate)
	fmt.Printf("With Warnings:      %d (%.1f%%)\n", s.WarnedReports, 100-s.CleanRate)
	fmt.Printf("Total Warnings:     %d\n", s.TotalWarnings)
	fmt.Printf("Unique Stations:    %d\n", s.UniqueStations)
	fmt.Println()

	// Kind distribution.
	fmt.Println("KIND DISTRIBUTION (Reports by kind)")
	fmt.Println("─────────────────")
	fmt.Printf("%-10s %10s %8s\n", "Kind", "Count", "Pct")
	for _, kc := range report.KindDistribution {
		fmt.Printf("%-10s %10d %7.1f%%\n", kc.Kind, kc.Count, kc.Pct)
	}
	fmt.Println()

	// Station distribution.
	fmt.Println("STATION DISTRIBUTION (Decode coverage per station)")
	fmt.Println("────────────────────")
	fmt.Printf("%-10s %8s %8s %8s\n", "Station", "Total", "Warned", "Clean")
	for _, ss := range report.StationDistribution {
		fmt.Printf("%-10s %8d %8d %7.1f%%\n", ss.Station, ss.Total, ss.Warned, ss.CleanRate)
	}
	fmt.Println()

	// Component warnings.
	fmt.Println("WARNING COMPONENTS (Which group grammars degrade)")
	fmt.Println("──────────────────")
	for _, cc := range report.ComponentWarnings {
		bar := strings.Repeat("█", int(cc.Pct/5))
		fmt.Printf("  %-14s %6d %6.1f%% %s\n", cc.Component, cc.Count, cc.Pct, bar)
	}
	fmt.Println()

	// Unrecognized tokens.
	if len(report.UnrecognizedTokens) > 0 {
		fmt.Println("UNRECOGNIZED TOKENS (Grouped by shape)")
		fmt.Println("───────────────────")
		for _, ts := range report.UnrecognizedTokens {
			fmt.Printf("  %-12s %6d  e.g. %s\n", ts.Shape, ts.Count, strings.Join(ts.Examples, ", "))
		}
	}
}
