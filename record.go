package labmeta

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// Pair is one key/value cell pair. Rows and 2-column section summaries are
// built from Pairs so that the original ordering survives serialization,
// which Go maps would not guarantee.
type Pair struct {
	Key   string
	Value string
}

// Row is one decoded table row: an ordered list of column/value pairs.
// Duplicate column names are preserved as distinct entries.
type Row []Pair

// Get returns the value for the first pair whose key equals key.
func (r Row) Get(key string) (string, bool) {
	for _, p := range r {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// MarshalJSON renders the row as a JSON object with fields in row order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PairList is the decoded shape of a 2-column summary section. It serializes
// as a list of singleton objects, one per source row, so rows with repeated
// labels are never collapsed.
type PairList []Pair

func (l PairList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, p := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		single, err := Row{p}.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(single)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// NormalizedRecord is the format-independent output unit produced by every
// extractor: one JSON document per input file. Extra holds per-format fields
// (section tables, column inventories, QC summaries) that are merged into the
// top level of the JSON document.
type NormalizedRecord struct {
	FileName    string            `json:"file_name"`
	FileType    string            `json:"file_type"`
	FilePath    string            `json:"file_path,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ManifestID  string            `json:"manifest_id,omitempty"`
	ORID        string            `json:"orid,omitempty"`
	SampleCount int               `json:"number_of_samples,omitempty"`
	Samples     []Row             `json:"samples,omitempty"`
	Extra       map[string]any    `json:"-"`
}

func (r *NormalizedRecord) MarshalJSON() ([]byte, error) {
	type plain NormalizedRecord
	base, err := json.Marshal((*plain)(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// WriteJSON persists the record to outputDir under the source file's basename
// with a .json extension, and returns the path written.
func (r *NormalizedRecord) WriteJSON(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", pfx.Err(err)
	}

	name := strings.TrimSuffix(r.FileName, filepath.Ext(r.FileName)) + ".json"
	out := filepath.Join(outputDir, name)

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", pfx.Err(err)
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return "", pfx.Err(err)
	}

	return out, nil
}
