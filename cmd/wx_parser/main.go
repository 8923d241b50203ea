// Command-line entry point for the aviation weather decoder.
//
// Subcommands:
//
//	metar   - fetch and decode the current METAR for a station
//	taf     - fetch and decode the current TAF for a station
//	decode  - decode raw report text from a file or stdin, one report per line
//	station - manage and query the local station metadata database
//
// Decoded output is JSON. The optional -archive flag appends every decoded
// report to a local SQLite archive for offline use.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"wx_parser/internal/fetch"
	"wx_parser/internal/metar"
	"wx_parser/internal/registry"
	"wx_parser/internal/report"
	"wx_parser/internal/speech"
	"wx_parser/internal/station"
	"wx_parser/internal/storage"
	"wx_parser/internal/taf"
	"wx_parser/internal/translate"
)

type decodeOut struct {
	Raw    string        `json:"raw"`
	Kind   string        `json:"kind,omitempty"`
	Report report.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type stats struct {
	Lines   int
	Decoded int
	Failed  int
	Skipped int
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "wx_parser - METAR/TAF decoder - commands:")
	fmt.Fprintln(w, "  metar   - fetch and decode the current METAR for a station")
	fmt.Fprintln(w, "  taf     - fetch and decode the current TAF for a station")
	fmt.Fprintln(w, "  decode  - decode raw report text, one report per line")
	fmt.Fprintln(w, "  station - import or query station metadata")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wx_parser metar -station KJFK [-options translate,summary,speech] [-pretty] [-archive wx.db]")
	fmt.Fprintln(w, "  wx_parser metar 'KJFK 291751Z 18014KT 10SM FEW048 26/17 A3003'")
	fmt.Fprintln(w, "  wx_parser taf -station KJFK [-options translate,summary] [-pretty] [-archive wx.db]")
	fmt.Fprintln(w, "  wx_parser decode [-input reports.txt] [-output out.json] [-pretty] [-all] [-stats]")
	fmt.Fprintln(w, "  wx_parser station -db stations.db [-import stations.csv] [-lookup KJFK]")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "metar":
		runFetch(os.Args[2:], "metar")
	case "taf":
		runFetch(os.Args[2:], "taf")
	case "decode":
		runDecode(os.Args[2:])
	case "station":
		runStation(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runFetch(args []string, product string) {
	fs := flag.NewFlagSet(product, flag.ExitOnError)
	stationID := fs.String("station", "", "ICAO station identifier to fetch")
	options := fs.String("options", "", "Comma-separated extras: translate, summary, speech")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	archivePath := fs.String("archive", envOrDefault("WX_ARCHIVE", ""), "SQLite archive path (optional)")
	timeout := fs.Duration("timeout", 15*time.Second, "Fetch timeout")
	_ = fs.Parse(args)

	// Raw report text given directly skips the fetch step.
	raw := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if raw == "" && *stationID == "" {
		fmt.Fprintln(os.Stderr, "Provide -station or raw report text")
		os.Exit(2)
	}

	if raw == "" {
		id := strings.ToUpper(*stationID)

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		client := fetch.New()
		var err error
		if product == "metar" {
			raw, err = client.Metar(ctx, id)
		} else {
			raw, err = client.Taf(ctx, id)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fetch failed: %v\n", err)
			os.Exit(1)
		}
	}

	decoded, err := decodeProduct(product, raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}

	if *archivePath != "" {
		archiveReport(*archivePath, raw, decoded)
	}

	out := buildFetchOutput(decoded, *options)
	enc, err := marshalJSON(out, *pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(enc))
}

// decodeProduct runs the decoder matching the subcommand. Fetched TAF text
// often arrives without the leading TAF token, so the report kind comes from
// what the user asked for, not from registry dispatch.
func decodeProduct(product, raw string) (report.Report, error) {
	if product == "taf" {
		return taf.Parse(raw, taf.DefaultDelimiter)
	}
	return metar.Parse(raw)
}

// buildFetchOutput attaches the requested derived renderings to the decoded
// report.
func buildFetchOutput(decoded report.Report, options string) map[string]interface{} {
	out := map[string]interface{}{"data": decoded}

	var wantTranslate, wantSummary, wantSpeech bool
	for _, opt := range strings.Split(options, ",") {
		switch strings.TrimSpace(opt) {
		case "translate":
			wantTranslate = true
		case "summary":
			wantSummary = true
		case "speech":
			wantSpeech = true
		}
	}

	switch r := decoded.(type) {
	case *report.Metar:
		if wantTranslate || wantSummary {
			trans := translate.Metar(r)
			if wantTranslate {
				out["translations"] = trans
			}
			if wantSummary {
				out["summary"] = translate.MetarSummary(trans)
			}
		}
		if wantSpeech {
			out["speech"] = speech.Metar(r)
		}
	case *report.Taf:
		if wantTranslate || wantSummary {
			trans := translate.Taf(r)
			if wantTranslate {
				out["translations"] = trans
			}
			if wantSummary {
				var lines []string
				for _, l := range trans.Forecast {
					lines = append(lines, translate.TafLineSummary(l))
				}
				out["summary"] = lines
			}
		}
	}

	return out
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	inPath := fs.String("input", "", "Input file, one report per line (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	includeAll := fs.Bool("all", false, "Include reports even if decoding failed")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	archivePath := fs.String("archive", envOrDefault("WX_ARCHIVE", ""), "SQLite archive path (optional)")
	_ = fs.Parse(args)

	// Ensure decoder priority ordering is stable.
	registry.Default().Sort()

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	var archive *storage.Archive
	if *archivePath != "" {
		var err error
		archive, err = storage.OpenArchive(*archivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open archive: %v\n", err)
			os.Exit(1)
		}
		defer archive.Close()
	}

	scanner := bufio.NewScanner(r)
	// Raw TAF lines can be long; bump buffer (1MB).
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	out := make([]decodeOut, 0, 1024)
	st := &stats{}

	for scanner.Scan() {
		st.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			st.Skipped++
			continue
		}

		decoded, err := registry.Default().Dispatch(line)
		if err != nil {
			st.Failed++
			if *includeAll {
				out = append(out, decodeOut{Raw: line, Error: err.Error()})
			}
			continue
		}
		st.Decoded++
		out = append(out, decodeOut{Raw: line, Kind: decoded.Kind(), Report: decoded})

		if archive != nil {
			archiveInsert(archive, line, decoded)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Input read error: %v\n", err)
		os.Exit(1)
	}

	var wout io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		wout = f
	}

	enc, err := marshalJSON(out, *pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}
	_, _ = wout.Write(enc)
	if wout == os.Stdout {
		_, _ = wout.Write([]byte("\n"))
	}

	if *showStats {
		fmt.Fprintf(os.Stderr,
			"stats: lines=%d decoded=%d failed=%d skipped(blank)=%d\n",
			st.Lines, st.Decoded, st.Failed, st.Skipped,
		)
	}
}

func runStation(args []string) {
	fs := flag.NewFlagSet("station", flag.ExitOnError)
	dbPath := fs.String("db", envOrDefault("WX_STATION_DB", "stations.db"), "Station database path")
	importPath := fs.String("import", "", "CSV file of station metadata to import")
	lookup := fs.String("lookup", "", "ICAO identifier to look up")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	_ = fs.Parse(args)

	db, err := station.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open station database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *importPath != "" {
		n, err := importStations(db, *importPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Imported %d stations\n", n)
	}

	if *lookup != "" {
		info, err := db.Lookup(strings.ToUpper(*lookup))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Lookup failed: %v\n", err)
			os.Exit(1)
		}
		if info == nil {
			fmt.Fprintf(os.Stderr, "Unknown station: %s\n", strings.ToUpper(*lookup))
			os.Exit(1)
		}
		enc, err := marshalJSON(info, *pretty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(enc))
		return
	}

	if *importPath == "" {
		count, err := db.Count()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d stations in %s\n", count, *dbPath)
	}
}

// importStations loads a CSV export with the columns
// icao,country,state,city,name,iata,elevation,latitude,longitude,priority.
func importStations(db *station.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = 10

	count := 0
	first := true
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		// Skip a header row if present.
		if first {
			first = false
			if strings.EqualFold(rec[0], "icao") {
				continue
			}
		}

		info := station.Info{
			ICAO:    strings.ToUpper(rec[0]),
			Country: rec[1],
			State:   rec[2],
			City:    rec[3],
			Name:    rec[4],
			IATA:    rec[5],
		}
		info.Elevation, _ = strconv.Atoi(rec[6])
		info.Latitude, _ = strconv.ParseFloat(rec[7], 64)
		info.Longitude, _ = strconv.ParseFloat(rec[8], 64)
		info.Priority, _ = strconv.Atoi(rec[9])

		if info.ICAO == "" {
			continue
		}
		if err := db.Upsert(info); err != nil {
			return count, fmt.Errorf("upsert %s: %w", info.ICAO, err)
		}
		count++
	}
	return count, nil
}

func archiveReport(path, raw string, decoded report.Report) {
	archive, err := storage.OpenArchive(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open archive: %v\n", err)
		return
	}
	defer archive.Close()
	archiveInsert(archive, raw, decoded)
}

func archiveInsert(archive *storage.Archive, raw string, decoded report.Report) {
	var observedAt, flightRules string
	switch r := decoded.(type) {
	case *report.Metar:
		observedAt = r.Time
		flightRules = string(r.FlightRules)
	case *report.Taf:
		observedAt = r.Time
		if len(r.Forecast) > 0 {
			flightRules = string(r.Forecast[0].FlightRules)
		}
	}

	_, err := archive.Insert(storage.ArchiveParams{
		Station:     decoded.StationID(),
		ReportType:  decoded.Kind(),
		ObservedAt:  observedAt,
		RawText:     raw,
		ParsedData:  decoded,
		FlightRules: flightRules,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Archive insert failed: %v\n", err)
	}
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
