package diagnosis

// Hand-tuned confidence thresholds. They are heuristics, not learned values.
const (
	LowConfidence           = 0.40 // Below this any tooth reads as eroded
	FractureConfidence      = 0.45 // Premolar fracture cut-off
	ModerateConfidence      = 0.50 // Moderate vs mild split for most rules
	HealthyConfidence       = 0.70 // Wisdom, premolar and fallback healthy cut-off
	StrongHealthyConfidence = 0.75 // Molar, incisor and lower-arch healthy cut-off
	OverrideConfidence      = 0.85 // Above this every tooth is healthy
)

// Thresholds parameterizes the classifier's decision procedure.
type Thresholds struct {
	Low           float64 `json:"low"`
	Fracture      float64 `json:"fracture"`
	Moderate      float64 `json:"moderate"`
	Healthy       float64 `json:"healthy"`
	StrongHealthy float64 `json:"strong_healthy"`
	Override      float64 `json:"override"`
}

// DefaultThresholds holds the named threshold constants.
var DefaultThresholds = Thresholds{
	Low:           LowConfidence,
	Fracture:      FractureConfidence,
	Moderate:      ModerateConfidence,
	Healthy:       HealthyConfidence,
	StrongHealthy: StrongHealthyConfidence,
	Override:      OverrideConfidence,
}

// Classify runs the default decision procedure. See Thresholds.Classify.
func Classify(confidence float64, tooth Tooth) Diagnosis {
	return DefaultThresholds.Classify(confidence, tooth)
}

// Classify maps detector confidence and tooth position to a diagnosis.
//
// The rules are evaluated in order and the first match wins:
//
//  1. confidence below Low: mild crown erosion
//  2. wisdom teeth: healthy above Healthy, otherwise impaction
//  3. molars: healthy above StrongHealthy, cavity below Moderate, else calculus
//  4. premolars: healthy above Healthy, fracture below Fracture, else cavity
//  5. incisors: healthy above StrongHealthy, erosion below Low, else healthy
//  6. lower arch: healthy above StrongHealthy, periodontitis below Moderate,
//     else gingivitis
//  7. anything else: healthy above Healthy, otherwise a finding chosen by
//     tooth position mod 5
//
// Afterwards a confidence above Override forces Healthy/None/Full. The
// function is total: out-of-range confidences and tooth numbers still yield
// a diagnosis.
func (th Thresholds) Classify(confidence float64, tooth Tooth) Diagnosis {
	d := th.rule(confidence, tooth)
	if confidence > th.Override {
		d = Diagnosis{Disease: Healthy, Severity: SeverityNone, Area: Full}
	}
	d.Recommendations = Recommendations(d.Disease, MaxRecommendations)
	d.Urgency = UrgencyFor(d.Disease, d.Severity)
	return d
}

func (th Thresholds) rule(conf float64, tooth Tooth) Diagnosis {
	healthy := Diagnosis{Disease: Healthy, Severity: SeverityNone, Area: Full}

	switch {
	case conf < th.Low:
		return Diagnosis{Disease: Erosion, Severity: Mild, Area: Crown}

	case tooth.IsWisdom():
		if conf > th.Healthy {
			return healthy
		}
		return Diagnosis{Disease: Impaction, Severity: th.gradeBelow(conf, th.Moderate), Area: Surrounding}

	case tooth.IsMolar():
		switch {
		case conf > th.StrongHealthy:
			return healthy
		case conf < th.Moderate:
			return Diagnosis{Disease: Cavity, Severity: Moderate, Area: Crown}
		default:
			return Diagnosis{Disease: Calculus, Severity: Mild, Area: Crown}
		}

	case tooth.IsPremolar():
		switch {
		case conf > th.Healthy:
			return healthy
		case conf < th.Fracture:
			return Diagnosis{Disease: Fracture, Severity: Moderate, Area: Crown}
		default:
			return Diagnosis{Disease: Cavity, Severity: Mild, Area: Crown}
		}

	case tooth.IsIncisor():
		switch {
		case conf > th.StrongHealthy:
			return healthy
		case conf < th.Low:
			return Diagnosis{Disease: Erosion, Severity: Moderate, Area: Crown}
		default:
			return healthy
		}

	case tooth.IsLowerArch():
		switch {
		case conf > th.StrongHealthy:
			return healthy
		case conf < th.Moderate:
			return Diagnosis{Disease: Periodontitis, Severity: Moderate, Area: Gum}
		default:
			return Diagnosis{Disease: Gingivitis, Severity: Mild, Area: Gum}
		}
	}

	if conf > th.Healthy {
		return healthy
	}
	switch mod(int(tooth), 5) {
	case 0:
		return Diagnosis{Disease: Cavity, Severity: th.gradeBelow(conf, th.Moderate), Area: Crown}
	case 1:
		return Diagnosis{Disease: Calculus, Severity: Mild, Area: Crown}
	case 2:
		return Diagnosis{Disease: Gingivitis, Severity: Mild, Area: Gum}
	case 3:
		return Diagnosis{Disease: Erosion, Severity: Mild, Area: Crown}
	default:
		return Diagnosis{Disease: Fracture, Severity: Mild, Area: Crown}
	}
}

// gradeBelow returns Moderate when conf is under cut, Mild otherwise.
func (th Thresholds) gradeBelow(conf, cut float64) Severity {
	if conf < cut {
		return Moderate
	}
	return Mild
}

// mod is a non-negative modulus so negative tooth numbers still bucket.
func mod(n, m int) int {
	return ((n % m) + m) % m
}
