package diagnosis

import (
	"math"
	"testing"
)

func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name       string
		tooth      Tooth
		confidence float64
		disease    DiseaseType
		severity   Severity
		area       Area
	}{
		// Rule 1: low confidence wins over every positional rule
		{"low confidence wisdom", 48, 0.30, Erosion, Mild, Crown},
		{"low confidence molar", 16, 0.10, Erosion, Mild, Crown},
		{"low confidence unknown", 0, 0.39, Erosion, Mild, Crown},

		// Rule 2: wisdom teeth
		{"wisdom impaction moderate", 48, 0.45, Impaction, Moderate, Surrounding},
		{"wisdom impaction mild", 18, 0.60, Impaction, Mild, Surrounding},
		{"wisdom at healthy boundary", 28, 0.70, Impaction, Mild, Surrounding},
		{"wisdom healthy", 38, 0.71, Healthy, SeverityNone, Full},

		// Rule 3: molars
		{"molar cavity", 36, 0.45, Cavity, Moderate, Crown},
		{"molar calculus", 26, 0.60, Calculus, Mild, Crown},
		{"molar healthy", 17, 0.80, Healthy, SeverityNone, Full},
		{"deciduous-style molar", 6, 0.55, Calculus, Mild, Crown},

		// Rule 4: premolars
		{"premolar fracture", 14, 0.40, Fracture, Moderate, Crown},
		{"premolar cavity", 25, 0.50, Cavity, Mild, Crown},
		{"premolar healthy", 44, 0.72, Healthy, SeverityNone, Full},

		// Rule 5: incisors are healthy unless very low confidence
		{"incisor mid", 11, 0.60, Healthy, SeverityNone, Full},
		{"incisor high", 42, 0.80, Healthy, SeverityNone, Full},

		// Rule 6: remaining lower arch
		{"lower arch periodontitis", 39, 0.45, Periodontitis, Moderate, Gum},
		{"lower arch gingivitis", 30, 0.60, Gingivitis, Mild, Gum},
		{"lower arch healthy", 40, 0.80, Healthy, SeverityNone, Full},

		// Rule 7: fallback buckets by tooth mod 5
		{"unknown tooth", 0, 0.60, Cavity, Mild, Crown},
		{"bucket 0 moderate", 50, 0.45, Cavity, Moderate, Crown},
		{"bucket 1", 51, 0.60, Calculus, Mild, Crown},
		{"bucket 2", 52, 0.60, Gingivitis, Mild, Gum},
		{"bucket 3", 53, 0.60, Erosion, Mild, Crown},
		{"bucket 4", 19, 0.60, Fracture, Mild, Crown},
		{"negative tooth", -3, 0.60, Gingivitis, Mild, Gum},
		{"fallback healthy", 99, 0.75, Healthy, SeverityNone, Full},

		// Rule 8: override
		{"override molar", 16, 0.90, Healthy, SeverityNone, Full},
		{"override unknown", 0, 0.86, Healthy, SeverityNone, Full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.confidence, tt.tooth)
			if d.Disease != tt.disease || d.Severity != tt.severity || d.Area != tt.area {
				t.Errorf("Classify(%v, %d): got %s/%s/%s, want %s/%s/%s",
					tt.confidence, tt.tooth, d.Disease, d.Severity, d.Area,
					tt.disease, tt.severity, tt.area)
			}
		})
	}
}

func TestClassify_OverrideForAnyTooth(t *testing.T) {
	teeth := []Tooth{-100, -1, 0, 1, 6, 11, 14, 16, 18, 30, 36, 48, 49, 99, 1000}
	confidences := []float64{0.851, 0.9, 0.99, 1.0, 1.5}

	for _, tooth := range teeth {
		for _, conf := range confidences {
			d := Classify(conf, tooth)
			if d.Disease != Healthy || d.Severity != SeverityNone || d.Area != Full {
				t.Errorf("Classify(%v, %d): got %s/%s/%s, want Healthy/None/Entire Tooth",
					conf, tooth, d.Disease, d.Severity, d.Area)
			}
		}
	}
}

func TestClassify_WisdomHealthyAboveThreshold(t *testing.T) {
	for _, tooth := range []Tooth{18, 28, 38, 48} {
		for conf := 0.705; conf <= 1.0; conf += 0.05 {
			if d := Classify(conf, tooth); d.Disease != Healthy {
				t.Errorf("Classify(%v, %d): got %s, want Healthy", conf, tooth, d.Disease)
			}
		}
	}
}

func TestClassify_Total(t *testing.T) {
	odd := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.5, 0, 2}
	for _, conf := range odd {
		for tooth := Tooth(-60); tooth <= 60; tooth++ {
			d := Classify(conf, tooth)
			if len(d.Recommendations) == 0 {
				t.Fatalf("Classify(%v, %d): no recommendations", conf, tooth)
			}
			if d.Urgency.String() == "" {
				t.Fatalf("Classify(%v, %d): empty urgency", conf, tooth)
			}
		}
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	th := DefaultThresholds
	th.Override = 0.5

	if d := th.Classify(0.6, 36); d.Disease != Healthy {
		t.Errorf("custom override: got %s, want Healthy", d.Disease)
	}
	if d := Classify(0.6, 36); d.Disease != Calculus {
		t.Errorf("default thresholds must be unaffected: got %s", d.Disease)
	}
}

func TestClassify_RecommendationsAndUrgency(t *testing.T) {
	d := Classify(0.45, 48)

	if len(d.Recommendations) != MaxRecommendations {
		t.Fatalf("recommendations: got %d, want %d", len(d.Recommendations), MaxRecommendations)
	}
	if d.Recommendations[0] != "Surgical extraction may be needed" {
		t.Errorf("first recommendation: got %q", d.Recommendations[0])
	}
	if d.Urgency != UrgencyModerate {
		t.Errorf("urgency: got %s, want moderate", d.Urgency)
	}
}

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		disease  DiseaseType
		severity Severity
		want     Urgency
	}{
		{Abscess, Mild, UrgencyUrgent},
		{Pulpitis, SeverityNone, UrgencyUrgent},
		{Cavity, Critical, UrgencyUrgent},
		{Fracture, Severe, UrgencyHigh},
		{Cavity, Moderate, UrgencyModerate},
		{Calculus, Mild, UrgencyLow},
		{Healthy, SeverityNone, UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.disease.String()+"/"+tt.severity.String(), func(t *testing.T) {
			if got := UrgencyFor(tt.disease, tt.severity); got != tt.want {
				t.Errorf("UrgencyFor: got %s, want %s", got, tt.want)
			}
		})
	}

	if UrgencyUrgent.Description() != "URGENT - Seek immediate dental care" {
		t.Errorf("Description: got %q", UrgencyUrgent.Description())
	}
}

func TestRecommendations(t *testing.T) {
	all := Recommendations(Cavity, 0)
	if len(all) != 4 {
		t.Errorf("unlimited: got %d, want 4", len(all))
	}

	// Caller mutation must not leak into the shared table
	all[0] = "changed"
	if Recommendations(Cavity, 1)[0] != "Dental filling required" {
		t.Error("Recommendations returned a shared slice")
	}

	missing := Recommendations(Missing, 3)
	if len(missing) != 1 || missing[0] != "Consult with your dentist" {
		t.Errorf("fallback: got %v", missing)
	}
}

func TestDiagnosis_Description(t *testing.T) {
	tests := []struct {
		d     Diagnosis
		tooth Tooth
		want  string
	}{
		{Diagnosis{Disease: Healthy}, 11, "Healthy tooth #11"},
		{Diagnosis{Disease: Cavity, Severity: Moderate}, 16, "Moderate Cavity (Caries) on tooth #16"},
		{Diagnosis{Disease: Erosion, Severity: Mild}, Unknown, "Mild Enamel Erosion"},
	}

	for _, tt := range tests {
		if got := tt.d.Description(tt.tooth); got != tt.want {
			t.Errorf("Description: got %q, want %q", got, tt.want)
		}
	}
}

func TestDiseaseType_ReferenceColor(t *testing.T) {
	tests := []struct {
		disease DiseaseType
		want    string
	}{
		{Healthy, "#00FF00"},
		{Cavity, "#FF0000"},
		{Impaction, "#FFD700"},
		{Calculus, "#A0522D"},
		{Missing, "#808080"},
		{DiseaseType(99), "#FF0000"},
	}

	for _, tt := range tests {
		if got := tt.disease.ReferenceColor().Hex(); got != tt.want {
			t.Errorf("ReferenceColor(%s): got %s, want %s", tt.disease, got, tt.want)
		}
	}
}
