package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/lade-rit/labmeta"
)

const thermalFileType = "Thermal Report"

// IsThermalReport checks the fixed preamble of a thermal cycler report: a
// "Side" label on line 1 and the "Time,Current Cycle" column pair on line 3.
func IsThermalReport(path string) bool {
	lines, err := labmeta.FirstLines(path, 3)
	if err != nil || len(lines) < 3 {
		return false
	}
	return strings.HasPrefix(lines[0], "Side") && strings.Contains(lines[2], "Time,Current Cycle")
}

// ThermalReport extracts a thermal cycler report: run context comes entirely
// from the filename, the body is a pure data table behind a fixed 2-line
// preamble, and the record carries the data-point count plus an ordered
// column inventory.
func ThermalReport(path string) (*labmeta.NormalizedRecord, error) {
	name := filepath.Base(path)
	if !IsThermalReport(path) {
		return nil, labmeta.InvalidFormatError{Format: thermalFileType, File: name}
	}

	lines, err := labmeta.ReadFileLines(path)
	if err != nil {
		return nil, err
	}

	// Skip the side label and the blank line before the table.
	header, rows, err := readTable(lines[2:], ',')
	if err != nil {
		return nil, pfx.Err(err)
	}

	columns := make(labmeta.Row, 0, len(header))
	for i, col := range header {
		columns = append(columns, labmeta.Pair{
			Key:   fmt.Sprintf("column %d", i+1),
			Value: col,
		})
	}

	metadata := map[string]string{
		"instrument_id": "N/A",
		"run_side":      "N/A",
		"date":          "N/A",
	}
	if m, ok := labmeta.ParseThermalFilename(name); ok {
		metadata["instrument_id"] = m.Instrument
		metadata["run_side"] = m.Side
		metadata["date"] = m.Date
	}

	return &labmeta.NormalizedRecord{
		FileName: name,
		FileType: thermalFileType,
		FilePath: path,
		Metadata: metadata,
		ORID:     labmeta.ORIDFromFilename(name),
		Extra: map[string]any{
			"number_of_data_points": len(rows),
			"columns_details":       columns,
		},
	}, nil
}
