// Command-line entry point for the weather report decoder.
//
// Note about input
// ----------------
// Raw METAR/TAF text comes in three ways:
//  1. A single report as the positional argument (quote it).
//  2. A batch file via -input, one report per line. Blank lines and
//     lines starting with '#' are skipped.
//  3. Interactive: no argument and no -input reads reports from stdin,
//     one per line, decoding each as it arrives.
//
// The report kind is detected from the body; -metar / -taf force it.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"wx_decoder/internal/decoder"
	"wx_decoder/internal/render"
	"wx_decoder/internal/report"
	"wx_decoder/internal/storage"
)

type stats struct {
	Lines    int
	Decoded  int
	Warned   int
	Failed   int
	Captured int
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "wx_decoder - decode METAR and TAF weather reports")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wx_decoder [options] \"METAR KJFK 061751Z 28015KT ...\"")
	fmt.Fprintln(w, "  wx_decoder [options] -input reports.txt")
	fmt.Fprintln(w, "  wx_decoder [options]            (interactive, reads stdin)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - Batch input is plain text, one report per line; '#' starts a comment.")
	fmt.Fprintln(w, "  - Malformed groups become warnings, not failures; only a missing")
	fmt.Fprintln(w, "    station or time group fails a report.")
}

func main() {
	inPath := flag.String("input", "", "Batch file of reports, one per line (default: argument or stdin)")
	asJSON := flag.Bool("json", false, "Emit decoded reports as JSON instead of text")
	pretty := flag.Bool("pretty", false, "Pretty-print JSON output")
	forceMetar := flag.Bool("metar", false, "Force METAR decoding (skip kind detection)")
	forceTaf := flag.Bool("taf", false, "Force TAF decoding (skip kind detection)")
	capturePath := flag.String("capture", "", "SQLite file to record each decoded report into")
	showStats := flag.Bool("stats", false, "Print basic counters to stderr")
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	if *forceMetar && *forceTaf {
		fmt.Fprintln(os.Stderr, "-metar and -taf are mutually exclusive")
		os.Exit(2)
	}

	var capture *storage.CaptureDB
	if *capturePath != "" {
		var err error
		capture, err = storage.OpenCapture(*capturePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open capture database: %v\n", err)
			os.Exit(1)
		}
		defer capture.Close()
	}

	d := &driver{
		asJSON:     *asJSON,
		pretty:     *pretty,
		forceMetar: *forceMetar,
		forceTaf:   *forceTaf,
		capture:    capture,
	}

	switch {
	case flag.NArg() > 0:
		d.decodeLine(strings.Join(flag.Args(), " "))
	case *inPath != "":
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		d.decodeStream(f)
	default:
		d.decodeStream(os.Stdin)
	}

	if *showStats {
		fmt.Fprintf(os.Stderr,
			"stats: lines=%d decoded=%d warned=%d failed=%d captured=%d\n",
			d.st.Lines, d.st.Decoded, d.st.Warned, d.st.Failed, d.st.Captured,
		)
	}

	if d.st.Failed > 0 {
		os.Exit(1)
	}
}

type driver struct {
	asJSON     bool
	pretty     bool
	forceMetar bool
	forceTaf   bool
	capture    *storage.CaptureDB
	st         stats
}

func (d *driver) decodeStream(r io.Reader) {
	scanner := bufio.NewScanner(r)
	// Reports are short but remark tails can run long; bump buffer (1MB).
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.decodeLine(line)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Input read error: %v\n", err)
		os.Exit(1)
	}
}

func (d *driver) decodeLine(raw string) {
	d.st.Lines++

	decoded, err := d.decode(raw)
	if err != nil {
		d.st.Failed++
		fmt.Fprintf(os.Stderr, "decode failed: %v\n", err)
		return
	}
	d.st.Decoded++
	if len(report.WarningsOf(decoded)) > 0 {
		d.st.Warned++
	}

	if d.capture != nil {
		if _, err := d.capture.Capture(raw, decoded); err != nil {
			fmt.Fprintf(os.Stderr, "capture failed: %v\n", err)
		} else {
			d.st.Captured++
		}
	}

	d.emit(decoded)
}

func (d *driver) decode(raw string) (report.Report, error) {
	switch {
	case d.forceMetar:
		m, err := decoder.DecodeMetar(raw)
		if err != nil {
			return nil, err
		}
		return m, nil
	case d.forceTaf:
		f, err := decoder.DecodeTaf(raw)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return decoder.Decode(raw)
	}
}

func (d *driver) emit(decoded report.Report) {
	if !d.asJSON {
		fmt.Println(render.Text(decoded))
		return
	}

	var (
		b   []byte
		err error
	)
	if d.pretty {
		b, err = json.MarshalIndent(decoded, "", "  ")
	} else {
		b, err = json.Marshal(decoded)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(b)
	os.Stdout.Write([]byte("\n"))
}
