package pipeline

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/ironsheep/dental-xray-mcp/internal/contour"
	"github.com/ironsheep/dental-xray-mcp/internal/diagnosis"
	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
	"github.com/ironsheep/dental-xray-mcp/internal/layout"
)

// RawDetection is one region reported by the external detector.
type RawDetection struct {
	Box geometry.Box `json:"box"`

	// Class is the detector's class label, from which the FDI tooth number
	// is parsed.
	Class ClassLabel `json:"class"`

	// Confidence is the detector score in [0, 1].
	Confidence float64 `json:"confidence"`

	// Mask is an optional segmentation polygon in image coordinates.
	Mask []geometry.PointF `json:"mask,omitempty"`
}

// ClassLabel is a detector class label. Detectors emit either a string
// such as "36" or an integer class code; both decode to the same label.
type ClassLabel string

// UnmarshalJSON accepts a JSON string or number. Integral numbers are
// written without a fraction so 36 and 36.0 both become "36".
func (c *ClassLabel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ClassLabel(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("class must be a string or number, got %s", data)
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		*c = ClassLabel(strconv.Itoa(int(f)))
		return nil
	}
	*c = ClassLabel(n.String())
	return nil
}

// Tooth parses the label into an FDI tooth position.
func (c ClassLabel) Tooth() diagnosis.Tooth {
	return diagnosis.ParseTooth(string(c))
}

// Validate reports a confidence outside [0, 1]. Enrichment accepts any
// value, so input boundaries call this first.
func (d RawDetection) Validate() error {
	if math.IsNaN(d.Confidence) || d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0, 1]", d.Confidence)
	}
	return nil
}

// ToothRecord is a detection enriched with its diagnosis, outline and
// color. Records are never modified after the enrichment phase.
type ToothRecord struct {
	Detection RawDetection        `json:"detection"`
	Index     int                 `json:"index"` // Position in the input detection list
	Tooth     diagnosis.Tooth     `json:"tooth_number"`
	Diagnosis diagnosis.Diagnosis `json:"diagnosis"`
	Outline   contour.Outline     `json:"outline"`
	Color     geometry.RGB        `json:"color"`
}

// LabelText is the on-image label, e.g. "Cavity (Caries) #36 (45%)".
func (r ToothRecord) LabelText() string {
	return fmt.Sprintf("%s #%d (%.0f%%)", r.Diagnosis.Disease, int(r.Tooth), r.Detection.Confidence*100)
}

// Label is a placed label for one diseased record.
type Label struct {
	Record int             `json:"record"` // Index into PredictionResult.Records
	Text   string          `json:"text"`
	Box    layout.LabelBox `json:"box"`
}

// PredictionResult is the complete output for one image.
type PredictionResult struct {
	ID string `json:"unique_id"`

	// Records are sorted by tooth number, ties in detection order.
	Records []ToothRecord `json:"records"`

	DiseaseCounts  map[diagnosis.DiseaseType]int `json:"disease_counts"`
	SeverityCounts map[diagnosis.Severity]int    `json:"severity_counts"`

	Labels []Label `json:"labels"`

	// Image is the annotated copy of the source, nil when no source image
	// was supplied.
	Image *image.NRGBA `json:"-"`
}

// Diseased returns the records with a non-healthy diagnosis, in order.
func (r *PredictionResult) Diseased() []ToothRecord {
	var out []ToothRecord
	for _, rec := range r.Records {
		if !rec.Diagnosis.Healthy() {
			out = append(out, rec)
		}
	}
	return out
}

// ImageDecodeError reports that the source image could not be decoded.
// Only the affected image fails.
type ImageDecodeError struct {
	Err error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("image decode error: %v", e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}
