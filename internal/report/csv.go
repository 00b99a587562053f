package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"unique_id", "input_image", "total_detections", "tooth_numbers", "diseases", "diseased_count",
}

// WriteCSV writes one row per document, preceded by a header row when
// header is true. Appending to an existing log passes header=false.
func WriteCSV(w io.Writer, docs []*Document, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, doc := range docs {
		teeth := make([]string, len(doc.Detections))
		diseases := make([]string, len(doc.Detections))
		for i, d := range doc.Detections {
			teeth[i] = strconv.Itoa(d.ToothNumber)
			diseases[i] = d.DiseaseType
		}
		row := []string{
			doc.UniqueID,
			doc.InputImage,
			strconv.Itoa(doc.TotalDetections),
			strings.Join(teeth, ", "),
			strings.Join(diseases, ", "),
			strconv.Itoa(doc.Summary.DiseasedCount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// AppendCSV appends one row per document to the log at path, creating it
// with a header row when it does not exist or is empty.
func AppendCSV(path string, docs []*Document) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open CSV log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat CSV log: %w", err)
	}
	if err := WriteCSV(f, docs, info.Size() == 0); err != nil {
		return err
	}
	return f.Close()
}
