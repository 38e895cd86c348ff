package rocrate

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/lade-rit/labmeta"
	"github.com/lade-rit/labmeta/extract"
	"github.com/lade-rit/labmeta/nanopore"
)

var validExtensions = []string{
	".csv", ".txt", ".json", ".md", ".pod5", ".fastq.gz",
	".bam", ".bam.bai", ".xlsx", ".pdf", ".jpeg", ".png",
}

var mimeByExtension = map[string]string{
	".csv":  "text/csv",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
	".pdf":  "application/pdf",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	// Community values; no official MIME types exist for these yet.
	".pod5":     "application/vnd.nanopore.pod5",
	".fastq.gz": "application/fastq",
	".bam":      "application/x-bam",
	".bam.bai":  "application/x-bam-index",
}

var subtypeDescriptions = map[nanopore.Subtype]string{
	nanopore.SubtypePOD5:              "Represents raw signal data captured by the nanopore device, used for quality control and re-basecalling.",
	nanopore.SubtypeFASTQ:             "A text-based sequence storage format, containing both the sequence of DNA/RNA and its quality scores.",
	nanopore.SubtypeBAM:               "Binary format for storing aligned sequencing reads, containing both sequence and alignment information.",
	nanopore.SubtypeBAMIndex:          "Index file for BAM files, enabling rapid access to specific regions within the BAM file for downstream analysis.",
	nanopore.SubtypeSampleSheet:       "Tabular data file containing sample identifiers and experimental metadata for downstream analysis.",
	nanopore.SubtypeSequencingSummary: "Quantitative summary of the sequencing run, including read lengths and quality scores.",
	nanopore.SubtypeJSONReport:        "Machine-readable report containing instrument metadata and execution parameters.",
	nanopore.SubtypeMarkdownReport:    "Human-readable summary of the sequencing run and primary analysis results.",
	nanopore.SubtypeFinalSummary:      "Text-based summary of the final basecalling and run metrics.",
}

// instrumentPhase ties a format family to the human-readable phase label used
// in the dataset description and to the CreateAction entity its files link to.
type instrumentPhase struct {
	label    string
	activity string
}

var phaseByFormat = map[labmeta.FormatID]instrumentPhase{
	labmeta.FormatNanopore:     {"Sequencing phase: Oxford Nanopore PromethION", nanoporeActivityID},
	labmeta.FormatBeadStudio:   {"Sequencing phase: Illumina iScan", iscanActivityID},
	labmeta.FormatIllumina:     {"Sequencing phase: Illumina NovaSeq6000", novaseqActivityID},
	labmeta.FormatFMAutoTilt:   {"Sequencing phase: Illumina NovaSeq6000", novaseqActivityID},
	labmeta.FormatFMGeneration: {"Sequencing phase: Illumina NovaSeq6000", novaseqActivityID},
	labmeta.FormatThermal:      {"Sequencing phase: Illumina NovaSeq6000", novaseqActivityID},
	labmeta.FormatSampleReport: {"Sequencing phase: Illumina NovaSeq6000", novaseqActivityID},
	labmeta.FormatNanoDrop:     {"Quality check phase: NanoDrop UV absorbance spectrum for each sample.", qcActivityID},
}

// BuildFolderCrate walks inputFolder, classifies the recognized files to
// describe which instrument phases produced the dataset, and returns a crate
// with the laboratory context plus one File entity per data file.
func BuildFolderCrate(inputFolder string) (*Crate, error) {
	folderName := filepath.Base(filepath.Clean(inputFolder))

	type fileInfo struct {
		rel      string
		ext      string
		size     int64
		activity string
	}
	var files []fileInfo
	extensionCounts := make(map[string]int)
	phases := make(map[string]bool)

	err := filepath.WalkDir(inputFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		ext := fileExtension(d.Name())
		if ext == "" {
			return nil
		}
		extensionCounts[ext]++

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(inputFolder, path)
		if err != nil {
			return err
		}

		fi := fileInfo{rel: rel, ext: ext, size: info.Size()}
		if c, err := extract.Classify(path); err == nil {
			if phase, ok := phaseByFormat[c.Format]; ok {
				phases[phase.label] = true
				fi.activity = phase.activity
			}
		}
		files = append(files, fi)
		return nil
	})
	if err != nil {
		return nil, pfx.Err(err)
	}

	crate := New()
	root := crate.Root()
	root["name"] = fmt.Sprintf("Experimental Raw Dataset for the Repository: %s", folderName)
	root["description"] = folderDescription(len(files), phases)
	root["license"] = "https://opensource.org/licenses/MIT"
	root["datePublished"] = time.Now().Format("2006-01-02")

	addLaboratoryContext(crate)
	addInstrumentContext(crate)

	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })
	for _, fi := range files {
		entity := Entity{
			"@id":         filepath.ToSlash(fi.rel),
			"@type":       "File",
			"name":        filepath.Base(fi.rel),
			"creator":     Entity{"@id": lageID},
			"contentSize": readableFileSize(fi.size),
		}
		if mime, ok := mimeByExtension[fi.ext]; ok {
			entity["encodingFormat"] = mime
		}
		if fi.activity != "" {
			entity["actionProcess"] = Entity{"@id": fi.activity}
		}
		if sub := nanopore.DetectSubtype(filepath.Join(inputFolder, fi.rel)); sub != "" {
			if desc, ok := subtypeDescriptions[sub]; ok {
				entity["description"] = desc
			}
		}
		crate.AddFile(entity)
	}

	return crate, nil
}

// WriteFolderCrate builds the crate for inputFolder and writes it to
// outputDir, returning the metadata file path.
func WriteFolderCrate(inputFolder, outputDir string) (string, error) {
	crate, err := BuildFolderCrate(inputFolder)
	if err != nil {
		return "", err
	}
	return crate.Write(outputDir)
}

// Graph identifiers for the laboratory and instrument context entities.
const (
	lageID = "#lage"

	nanoporeActivityID = "#nanopore-sequencing-activity"
	iscanActivityID    = "#iscan-sequencing-activity"
	novaseqActivityID  = "#novaseq-sequencing-activity"
	qcActivityID       = "#quality-control-activity"
)

func addLaboratoryContext(crate *Crate) {
	park := crate.Add(Entity{
		"@id":   "#area-science-park",
		"@type": "Organization",
		"name":  "Area Science Park",
		"url":   "https://www.areasciencepark.it/en/",
	})
	rit := crate.Add(Entity{
		"@id":                "#rit",
		"@type":              "Organization",
		"name":               "Research and Technology Institute (RIT)",
		"parentOrganization": Entity{"@id": park["@id"]},
	})
	crate.Add(Entity{
		"@id":                "#lade",
		"@type":              "Organization",
		"name":               "Laboratory of Data Engineering (LADE)",
		"url":                "https://www.areasciencepark.it/infrastrutture-di-ricerca/data-engineering-lade/",
		"parentOrganization": Entity{"@id": rit["@id"]},
	})
	crate.Add(Entity{
		"@id":                lageID,
		"@type":              "Organization",
		"name":               "Laboratory of Genomics and Epigenomics (LAGE)",
		"url":                "https://www.areasciencepark.it/en/research-infrastructures/life-sciences/lage-genomics-and-epigenomics-laboratory/",
		"parentOrganization": Entity{"@id": rit["@id"]},
	})

	crate.Root()["producer"] = Entity{"@id": "#lade"}
	crate.Root()["keywords"] = []string{"LAGE", "LADE"}
}

// addInstrumentContext registers the sequencing devices and the CreateAction
// activities that produced the data files; classified files link to their
// activity through actionProcess.
func addInstrumentContext(crate *Crate) {
	promethion := crate.Add(Entity{
		"@id":          "#promethion-device",
		"@type":        "Device",
		"name":         "Oxford Nanopore PromethION",
		"manufacturer": "Oxford Nanopore Technologies",
		"model":        "PromethION 24/48",
		"url":          "https://nanoporetech.com/products/promethion",
	})
	crate.Add(Entity{
		"@id":        nanoporeActivityID,
		"@type":      "CreateAction",
		"name":       "Nanopore Sequencing Run",
		"instrument": Entity{"@id": promethion["@id"]},
	})

	iscan := crate.Add(Entity{
		"@id":          "#iscan-device",
		"@type":        "Device",
		"name":         "Illumina iScan",
		"manufacturer": "Illumina",
		"model":        "iScan 24/48",
		"url":          "https://www.illumina.com/systems/array-scanners/iscan.html",
	})
	crate.Add(Entity{
		"@id":        iscanActivityID,
		"@type":      "CreateAction",
		"name":       "Illumina iScan Sequencing Run",
		"instrument": Entity{"@id": iscan["@id"]},
	})

	novaseq := crate.Add(Entity{
		"@id":          "#novaseq-device",
		"@type":        "Device",
		"name":         "Illumina NovaSeq",
		"manufacturer": "Illumina",
		"model":        "NovaSeq 6000",
		"url":          "https://www.illumina.com/systems/sequencing-platforms/novaseq.html",
	})
	crate.Add(Entity{
		"@id":        novaseqActivityID,
		"@type":      "CreateAction",
		"name":       "Illumina NovaSeq Sequencing Run",
		"instrument": Entity{"@id": novaseq["@id"]},
	})

	// QC is a process, not a device; files from the quality-check phase link
	// here without an instrument reference.
	crate.Add(Entity{
		"@id":         qcActivityID,
		"@type":       "CreateAction",
		"name":        "Sample Quality Control",
		"description": "Quality control process for samples before sequencing, including NanoDrop UV absorbance measurements and the report of technical observations and anomalies detected before and after sequencing.",
	})
}

func folderDescription(totalFiles int, phases map[string]bool) string {
	labels := make([]string, 0, len(phases))
	for phase := range phases {
		labels = append(labels, phase)
	}
	sort.Strings(labels)

	types := "Unknown Instrument Type"
	if len(labels) > 0 {
		types = strings.Join(labels, ", ")
	}

	return fmt.Sprintf("This dataset contains %d files generated by %s instruments. "+
		"It also includes an RO-Crate metadata file (ro-crate-metadata.json) that describes the context of data generation, "+
		"such as the laboratory environment, the research institute, and the instruments used.", totalFiles, types)
}

// fileExtension handles the double extensions of sequencing artifacts.
func fileExtension(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".fastq.gz"):
		return ".fastq.gz"
	case strings.HasSuffix(lower, ".bam.bai"):
		return ".bam.bai"
	}

	ext := filepath.Ext(lower)
	for _, valid := range validExtensions {
		if ext == valid {
			return ext
		}
	}
	return ""
}
