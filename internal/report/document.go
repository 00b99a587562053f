package report

import (
	"github.com/ironsheep/dental-xray-mcp/internal/diagnosis"
	"github.com/ironsheep/dental-xray-mcp/internal/pipeline"
)

// Detection is one enriched tooth in flat, serialization-friendly form.
type Detection struct {
	ToothNumber     int      `json:"tooth_number"`
	ToothName       string   `json:"tooth_name"`
	DiseaseType     string   `json:"disease_type"`
	DiseaseColor    string   `json:"disease_color"` // Legend color of the disease
	Severity        string   `json:"severity"`
	AffectedArea    string   `json:"affected_area"`
	Confidence      float64  `json:"confidence"` // 0-1 fraction
	BoundingBox     [4]int   `json:"bounding_box"`
	Polygon         [][2]int `json:"polygon"`
	OutlineSource   string   `json:"outline_source"`
	Color           string   `json:"color"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
	Urgency         string   `json:"urgency"`
	UrgencyDetail   string   `json:"urgency_detail"`
}

// Summary aggregates statistics over every detection, healthy included.
type Summary struct {
	TotalTeeth           int            `json:"total_teeth"`
	DiseaseDistribution  map[string]int `json:"disease_distribution"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
	UrgencyDistribution  map[string]int `json:"urgency_distribution"`
	HealthyCount         int            `json:"healthy_count"`
	DiseasedCount        int            `json:"diseased_count"`
	ToothNumbers         []int          `json:"tooth_numbers"`

	// Legend maps each disease present to its reference color.
	Legend map[string]string `json:"disease_legend"`
}

// Document is the complete flat output for one image.
type Document struct {
	UniqueID        string      `json:"unique_id"`
	InputImage      string      `json:"input_image,omitempty"`
	TotalDetections int         `json:"total_detections"`
	Detections      []Detection `json:"detections"`
	Summary         Summary     `json:"summary"`
	Report          string      `json:"report"`
}

// Build flattens result into a Document. imageName labels the text report
// and may be empty.
func Build(result *pipeline.PredictionResult, imageName string) *Document {
	dets := make([]Detection, len(result.Records))
	for i, rec := range result.Records {
		dets[i] = Flatten(rec)
	}
	return &Document{
		UniqueID:        result.ID,
		InputImage:      imageName,
		TotalDetections: len(dets),
		Detections:      dets,
		Summary:         Summarize(dets),
		Report:          Text(dets, imageName),
	}
}

// Flatten converts one record.
func Flatten(rec pipeline.ToothRecord) Detection {
	d := rec.Diagnosis
	b := rec.Detection.Box
	recs := d.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return Detection{
		ToothNumber:     int(rec.Tooth),
		ToothName:       rec.Tooth.Name(),
		DiseaseType:     d.Disease.String(),
		DiseaseColor:    d.Disease.ReferenceColor().Hex(),
		Severity:        d.Severity.String(),
		AffectedArea:    d.Area.String(),
		Confidence:      rec.Detection.Confidence,
		BoundingBox:     [4]int{b.X1, b.Y1, b.X2, b.Y2},
		Polygon:         rec.Outline.Points.Pairs(),
		OutlineSource:   rec.Outline.Tier.String(),
		Color:           rec.Color.Hex(),
		Description:     d.Description(rec.Tooth),
		Recommendations: recs,
		Urgency:         d.Urgency.String(),
		UrgencyDetail:   d.Urgency.Description(),
	}
}

// Summarize computes aggregate statistics. Tooth numbers are listed in the
// order of dets, which for a built Document is ascending tooth order.
func Summarize(dets []Detection) Summary {
	s := Summary{
		TotalTeeth:           len(dets),
		DiseaseDistribution:  make(map[string]int),
		SeverityDistribution: make(map[string]int),
		UrgencyDistribution:  make(map[string]int),
		ToothNumbers:         make([]int, 0, len(dets)),
		Legend:               make(map[string]string),
	}
	healthy := diagnosis.Healthy.String()
	for _, d := range dets {
		s.DiseaseDistribution[d.DiseaseType]++
		s.SeverityDistribution[d.Severity]++
		s.UrgencyDistribution[d.Urgency]++
		s.ToothNumbers = append(s.ToothNumbers, d.ToothNumber)
		if d.DiseaseColor != "" {
			s.Legend[d.DiseaseType] = d.DiseaseColor
		}
		if d.DiseaseType == healthy {
			s.HealthyCount++
		} else {
			s.DiseasedCount++
		}
	}
	return s
}
