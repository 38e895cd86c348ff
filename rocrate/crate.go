// Package rocrate packages a raw-data folder's archival metadata as a
// JSON-LD research-object crate: one ro-crate-metadata.json linking the
// dataset to the organizations, instruments and files that produced it.
package rocrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
)

const (
	contextURL   = "https://w3id.org/ro/crate/1.1/context"
	specVersion  = "https://w3id.org/ro/crate/1.1"
	MetadataFile = "ro-crate-metadata.json"
)

// Entity is one node of the JSON-LD graph.
type Entity map[string]any

// Crate is an in-memory research-object crate.
type Crate struct {
	graph []Entity
	root  Entity
}

// New creates a crate with the standard metadata descriptor and an empty
// root dataset.
func New() *Crate {
	root := Entity{
		"@id":   "./",
		"@type": "Dataset",
	}
	descriptor := Entity{
		"@id":        MetadataFile,
		"@type":      "CreativeWork",
		"conformsTo": Entity{"@id": specVersion},
		"about":      Entity{"@id": "./"},
	}
	return &Crate{graph: []Entity{descriptor, root}, root: root}
}

// Root returns the root dataset entity.
func (c *Crate) Root() Entity { return c.root }

// Add appends an entity to the graph and returns it.
func (c *Crate) Add(e Entity) Entity {
	c.graph = append(c.graph, e)
	return e
}

// AddFile adds a File entity and links it from the root dataset's hasPart.
func (c *Crate) AddFile(e Entity) Entity {
	c.Add(e)

	parts, _ := c.root["hasPart"].([]Entity)
	parts = append(parts, Entity{"@id": e["@id"]})
	c.root["hasPart"] = parts

	return e
}

func (c *Crate) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"@context": contextURL,
		"@graph":   c.graph,
	})
}

// Write persists the crate to dir as ro-crate-metadata.json.
func (c *Crate) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pfx.Err(err)
	}

	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", pfx.Err(err)
	}

	out := filepath.Join(dir, MetadataFile)
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return "", pfx.Err(err)
	}

	return out, nil
}

// readableFileSize converts a byte count to a human-readable string, e.g.
// "1.20 MB".
func readableFileSize(size int64) string {
	v := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if v < 1024.0 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", v)
}
