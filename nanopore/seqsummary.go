package nanopore

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// SequencingSummary is the aggregated statistic set computed from one
// tab-delimited per-read summary table.
type SequencingSummary struct {
	FileName             string   `json:"file_name"`
	TotalReads           int      `json:"total_reads"`
	PassedFilteringCount int      `json:"passed_filtering_count"`
	MeanQScore           float64  `json:"mean_qscore"`
	UniqueSamples        []string `json:"unique_samples"`
	UniqueExperiments    []string `json:"unique_experiments"`
	UniqueRunIDs         []string `json:"unique_run_ids"`
	PoreTypes            []string `json:"pore_types"`
}

// summaryRead is the subset of per-read columns the aggregation consumes;
// the remaining columns of the table are ignored.
type summaryRead struct {
	PassesFiltering string `csv:"passes_filtering"`
	SampleID        string `csv:"sample_id"`
	ExperimentID    string `csv:"experiment_id"`
	RunID           string `csv:"run_id"`
	PoreType        string `csv:"pore_type"`
	MeanQScore      string `csv:"mean_qscore_template"`
}

// AggregateSequencingSummary makes a single streaming pass over the reads
// table: it counts reads and passed-filter reads, accumulates the per-read
// quality score (missing or non-numeric scores contribute zero), and grows
// deduplicating identifier sets. Sets are emitted sorted so serialization is
// stable regardless of read order.
func AggregateSequencingSummary(path string) (*SequencingSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	// Nanopore summary files use tab separation; the reader is scoped to
	// this call so no global gocsv state is touched.
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true

	summary := &SequencingSummary{FileName: filepath.Base(path)}
	samples := make(map[string]struct{})
	experiments := make(map[string]struct{})
	runIDs := make(map[string]struct{})
	poreTypes := make(map[string]struct{})
	qscoreSum := 0.0

	err = gocsv.UnmarshalDecoderToCallback(gocsv.NewSimpleDecoderFromCSVReader(r), func(read summaryRead) {
		summary.TotalReads++

		if strings.EqualFold(read.PassesFiltering, "TRUE") {
			summary.PassedFilteringCount++
		}
		if read.SampleID != "" {
			samples[read.SampleID] = struct{}{}
		}
		if read.ExperimentID != "" {
			experiments[read.ExperimentID] = struct{}{}
		}
		if read.RunID != "" {
			runIDs[read.RunID] = struct{}{}
		}
		if read.PoreType != "" {
			poreTypes[read.PoreType] = struct{}{}
		}
		if q, err := strconv.ParseFloat(read.MeanQScore, 64); err == nil {
			qscoreSum += q
		}
	})
	if err != nil {
		return nil, pfx.Err(err)
	}

	if summary.TotalReads > 0 {
		summary.MeanQScore = math.Round(qscoreSum/float64(summary.TotalReads)*100) / 100
	}
	summary.UniqueSamples = sortedKeys(samples)
	summary.UniqueExperiments = sortedKeys(experiments)
	summary.UniqueRunIDs = sortedKeys(runIDs)
	summary.PoreTypes = sortedKeys(poreTypes)

	return summary, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
