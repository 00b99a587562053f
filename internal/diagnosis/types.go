package diagnosis

import (
	"fmt"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
)

// DiseaseType enumerates the conditions the classifier can report.
type DiseaseType int

const (
	Healthy DiseaseType = iota
	Cavity
	Fracture
	Abscess
	Periodontitis
	Gingivitis
	RootCanalNeeded
	Impaction
	Erosion
	Calculus
	Pulpitis
	Missing
)

type diseaseInfo struct {
	name     string // Display name used in labels and reports
	refColor string // Reference color for legends
}

var diseaseTable = map[DiseaseType]diseaseInfo{
	Healthy:         {"Healthy", "#00FF00"},
	Cavity:          {"Cavity (Caries)", "#FF0000"},
	Fracture:        {"Tooth Fracture", "#FF8800"},
	Abscess:         {"Dental Abscess", "#9932CC"},
	Periodontitis:   {"Periodontitis", "#8B0000"},
	Gingivitis:      {"Gingivitis", "#FF69B4"},
	RootCanalNeeded: {"Root Canal Needed", "#0000FF"},
	Impaction:       {"Tooth Impaction", "#FFD700"},
	Erosion:         {"Enamel Erosion", "#FFA500"},
	Calculus:        {"Dental Calculus", "#A0522D"},
	Pulpitis:        {"Pulpitis", "#DC143C"},
	Missing:         {"Missing Tooth", "#808080"},
}

// String returns the display name, e.g. "Cavity (Caries)".
func (d DiseaseType) String() string {
	if info, ok := diseaseTable[d]; ok {
		return info.name
	}
	return fmt.Sprintf("DiseaseType(%d)", int(d))
}

// ReferenceColor is the legend color associated with the disease. Region
// fills use the tooth palette instead.
func (d DiseaseType) ReferenceColor() geometry.RGB {
	if info, ok := diseaseTable[d]; ok {
		return geometry.MustParseHex(info.refColor)
	}
	return geometry.RGB{R: 255}
}

// MarshalText lets DiseaseType act as a JSON map key.
func (d DiseaseType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Severity grades how advanced a condition is.
type Severity int

const (
	SeverityNone Severity = iota
	Mild
	Moderate
	Severe
	Critical
)

var severityNames = [...]string{"None", "Mild", "Moderate", "Severe", "Critical"}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText lets Severity act as a JSON map key.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Area is the part of the tooth a finding affects.
type Area int

const (
	Crown Area = iota
	Root
	Gum
	Nerve
	Surrounding
	Full
)

var areaNames = [...]string{"Crown", "Root", "Gum", "Nerve/Pulp", "Surrounding Tissue", "Entire Tooth"}

func (a Area) String() string {
	if a >= 0 && int(a) < len(areaNames) {
		return areaNames[a]
	}
	return fmt.Sprintf("Area(%d)", int(a))
}

// MarshalText lets Area serialize as its display name.
func (a Area) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Urgency is the coarse treatment priority derived from disease and severity.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyModerate
	UrgencyHigh
	UrgencyUrgent
)

var urgencyText = [...]struct{ label, long string }{
	{"low", "LOW - Mention at next routine checkup"},
	{"moderate", "MODERATE - Schedule appointment within 2-4 weeks"},
	{"high", "HIGH - Schedule appointment within 1 week"},
	{"urgent", "URGENT - Seek immediate dental care"},
}

// String returns the short label: urgent, high, moderate or low.
func (u Urgency) String() string {
	if u >= 0 && int(u) < len(urgencyText) {
		return urgencyText[u].label
	}
	return fmt.Sprintf("Urgency(%d)", int(u))
}

// Description returns the long, patient-facing urgency text.
func (u Urgency) Description() string {
	if u >= 0 && int(u) < len(urgencyText) {
		return urgencyText[u].long
	}
	return u.String()
}

// MarshalText lets Urgency act as a JSON map key.
func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// Diagnosis is the classifier verdict for one detected tooth.
type Diagnosis struct {
	Disease         DiseaseType `json:"disease_type"`
	Severity        Severity    `json:"severity"`
	Area            Area        `json:"affected_area"`
	Recommendations []string    `json:"recommendations"`
	Urgency         Urgency     `json:"urgency"`
}

// Healthy reports whether the diagnosis found nothing to treat.
func (d Diagnosis) Healthy() bool {
	return d.Disease == Healthy
}

// Description summarizes the diagnosis for one tooth, e.g.
// "Moderate Cavity (Caries) on tooth #16".
func (d Diagnosis) Description(tooth Tooth) string {
	if d.Disease == Healthy {
		return fmt.Sprintf("Healthy tooth #%d", int(tooth))
	}
	desc := fmt.Sprintf("%s %s", d.Severity, d.Disease)
	if tooth != Unknown {
		desc += fmt.Sprintf(" on tooth #%d", int(tooth))
	}
	return desc
}
