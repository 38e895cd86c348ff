package nanopore

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/lade-rit/labmeta"
)

// Metrics keys under which each fragment lands in the consolidated record.
const (
	keySampleSheet       = "metadata_Sample_Sheet"
	keyFinalSummary      = "metadata_Final_Summary"
	keySequencingSummary = "metadata_Sequencing_Summary"
	keyPoreActivity      = "pore_activity_summary"
	keyThroughput        = "throughput"
	keyThermalControl    = "thermal_control"
	keyPoreScan          = "pore_scan_diagnostics"
	keyTrackingID        = "tracking_id"
	keyInstrumentInfo    = "instrument_info"
)

// PoreActivitySummary totals the time the flow cell channels spent in each
// reported state.
type PoreActivitySummary struct {
	StatesTotalSamples map[string]int64 `json:"states_total_samples"`
	TotalLoggedMinutes int64            `json:"total_logged_minutes"`
}

// Throughput is the cumulative snapshot from the last row of a throughput
// log.
type Throughput struct {
	TotalReads     int64 `json:"total_reads"`
	PassedReads    int64 `json:"passed_reads"`
	Bases          int64 `json:"bases"`
	RunTimeMinutes int64 `json:"run_time_minutes"`
}

// ThermalControl is the final-temperature snapshot from the last row of a
// temperature log.
type ThermalControl struct {
	LastTargetTemp      float64 `json:"last_target_temp"`
	LastSequencingSpeed float64 `json:"last_sequencing_speed"`
	TotalRecordedReads  int64   `json:"total_recorded_reads"`
	RunDurationAtLog    int64   `json:"run_duration_at_log"`
}

// PoreScanDiagnostics summarizes pore health from a mux scan export.
type PoreScanDiagnostics struct {
	AvailablePores int `json:"available_pores"`
	SaturatedWells int `json:"saturated_wells"`
	TotalWells     int `json:"total_wells"`
}

// BuildFragment reads the file and produces the payload fragment for its
// subtype together with the metrics key it merges under. ok is false when
// the subtype carries no payload (binary artifacts) or when the file holds
// nothing usable (empty table, missing diagnostic column); err reports a
// genuine read or decode failure.
func BuildFragment(path string, subtype Subtype) (key string, payload any, ok bool, err error) {
	switch subtype {
	case SubtypeSampleSheet:
		_, rows, err := readCSVTable(path)
		if err != nil {
			return "", nil, false, err
		}
		if len(rows) == 0 {
			return "", nil, false, nil
		}
		return keySampleSheet, rows[0], true, nil

	case SubtypeFinalSummary:
		meta, err := parseKeyEqualsValue(path)
		if err != nil {
			return "", nil, false, err
		}
		return keyFinalSummary, meta, true, nil

	case SubtypeSequencingSummary:
		summary, err := AggregateSequencingSummary(path)
		if err != nil {
			return "", nil, false, err
		}
		return keySequencingSummary, summary, true, nil

	case SubtypePoreActivity:
		summary, ok, err := buildPoreActivity(path)
		return keyPoreActivity, summary, ok, err

	case SubtypeThroughput:
		snap, ok, err := buildThroughput(path)
		return keyThroughput, snap, ok, err

	case SubtypeTemperature:
		snap, ok, err := buildThermalControl(path)
		return keyThermalControl, snap, ok, err

	case SubtypePoreScan:
		diag, ok, err := buildPoreScan(path)
		return keyPoreScan, diag, ok, err

	case SubtypeMarkdownReport:
		tracking, ok, err := parseTrackingBlock(path)
		return keyTrackingID, tracking, ok, err

	case SubtypeJSONReport:
		host, err := parseReportHost(path)
		if err != nil {
			return "", nil, false, err
		}
		return keyInstrumentInfo, host, true, nil
	}

	// Binary artifacts contribute no metrics.
	return "", nil, false, nil
}

func buildPoreActivity(path string) (*PoreActivitySummary, bool, error) {
	header, rows, err := readCSVTable(path)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 || !containsString(header, "Channel State") {
		return nil, false, nil
	}

	summary := &PoreActivitySummary{StatesTotalSamples: make(map[string]int64)}
	for _, row := range rows {
		state, _ := row.Get("Channel State")
		samples, _ := row.Get("State Time (samples)")
		summary.StatesTotalSamples[state] += parseInt(samples)

		minutes, _ := row.Get("Experiment Time (minutes)")
		if m := parseInt(minutes); m > summary.TotalLoggedMinutes {
			summary.TotalLoggedMinutes = m
		}
	}

	return summary, true, nil
}

func buildThroughput(path string) (*Throughput, bool, error) {
	_, rows, err := readCSVTable(path)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	last := rows[len(rows)-1]
	snap := &Throughput{
		TotalReads:     parseInt(fieldOf(last, "Reads")),
		PassedReads:    parseInt(fieldOf(last, "Basecalled Reads Passed")),
		Bases:          parseInt(fieldOf(last, "Basecalled Bases")),
		RunTimeMinutes: parseInt(fieldOf(last, "Experiment Time (minutes)")),
	}
	return snap, true, nil
}

func buildThermalControl(path string) (*ThermalControl, bool, error) {
	_, rows, err := readCSVTable(path)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	last := rows[len(rows)-1]
	snap := &ThermalControl{
		LastTargetTemp:      parseFloat(fieldOf(last, "current_target_temperature")),
		LastSequencingSpeed: parseFloat(fieldOf(last, "current_speed")),
		TotalRecordedReads:  parseInt(fieldOf(last, "num_reads")),
		RunDurationAtLog:    parseInt(fieldOf(last, "acquisition_duration")),
	}
	return snap, true, nil
}

func buildPoreScan(path string) (*PoreScanDiagnostics, bool, error) {
	header, rows, err := readCSVTable(path)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 || !containsString(header, "mux_scan_assessment") {
		return nil, false, nil
	}

	diag := &PoreScanDiagnostics{TotalWells: len(rows)}
	for _, row := range rows {
		switch v, _ := row.Get("mux_scan_assessment"); v {
		case "single_pore":
			diag.AvailablePores++
		case "saturated":
			diag.SaturatedWells++
		}
	}

	return diag, true, nil
}

// parseKeyEqualsValue reads the key=value lines of a final summary into a
// map with lowercased keys. Lines without '=' are ignored.
func parseKeyEqualsValue(path string) (map[string]string, error) {
	lines, err := labmeta.ReadFileLines(path)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range lines {
		k, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		meta[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	return meta, nil
}

// parseTrackingBlock pulls the first {...} JSON block following a
// "Tracking ID" heading out of a markdown report.
func parseTrackingBlock(path string) (map[string]any, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false, pfx.Err(err)
	}

	content := string(b)
	if !strings.Contains(content, "Tracking ID") {
		return nil, false, nil
	}
	start := strings.IndexByte(content, '{')
	end := strings.IndexByte(content, '}')
	if start == -1 || end == -1 || end < start {
		return nil, false, nil
	}

	tracking := make(map[string]any)
	if err := json.Unmarshal([]byte(content[start:end+1]), &tracking); err != nil {
		return nil, false, pfx.Err(err)
	}

	return tracking, true, nil
}

// parseReportHost extracts the instrument-info excerpt (the "host" object)
// from a JSON run report.
func parseReportHost(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var report struct {
		Host map[string]any `json:"host"`
	}
	if err := json.Unmarshal(b, &report); err != nil {
		return nil, pfx.Err(err)
	}
	if report.Host == nil {
		report.Host = make(map[string]any)
	}

	return report.Host, nil
}

// readCSVTable decodes a plain comma-separated table with a header line into
// ordered rows.
func readCSVTable(path string) ([]string, []labmeta.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, pfx.Err(err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	rows := make([]labmeta.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(labmeta.Row, 0, len(header))
		for i, col := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			row = append(row, labmeta.Pair{Key: col, Value: v})
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func fieldOf(row labmeta.Row, key string) string {
	v, _ := row.Get(key)
	return v
}

// parseInt tolerates float-formatted counters in instrument logs.
func parseInt(s string) int64 {
	if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func containsString(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
