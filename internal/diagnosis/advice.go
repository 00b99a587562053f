package diagnosis

// MaxRecommendations is how many recommendations a diagnosis surfaces.
const MaxRecommendations = 3

var recommendations = map[DiseaseType][]string{
	Cavity: {
		"Dental filling required",
		"Regular dental checkups recommended",
		"Improve oral hygiene",
		"Consider fluoride treatment",
	},
	Fracture: {
		"Dental crown or bonding needed",
		"Avoid hard foods",
		"Immediate dental consultation required",
		"Possible root canal if nerve exposed",
	},
	Abscess: {
		"URGENT: Immediate dental treatment required",
		"Antibiotics needed",
		"Root canal or extraction likely",
		"Pain management necessary",
	},
	Periodontitis: {
		"Deep cleaning (scaling and root planing)",
		"Improved oral hygiene critical",
		"Regular periodontal maintenance",
		"Possible gum surgery if advanced",
	},
	Gingivitis: {
		"Professional cleaning recommended",
		"Improve brushing and flossing",
		"Use antiseptic mouthwash",
		"Regular dental checkups",
	},
	RootCanalNeeded: {
		"Root canal therapy required",
		"Dental crown recommended after treatment",
		"Schedule appointment soon",
		"Temporary pain management",
	},
	Impaction: {
		"Surgical extraction may be needed",
		"Monitor for infection",
		"Orthodontic evaluation recommended",
		"X-ray follow-up required",
	},
	Erosion: {
		"Reduce acidic food/drink consumption",
		"Use fluoride toothpaste",
		"Consider dental bonding or veneers",
		"Address acid reflux if present",
	},
	Calculus: {
		"Professional cleaning (scaling) required",
		"Improve daily oral hygiene",
		"Use tartar control toothpaste",
		"Regular dental visits every 6 months",
	},
	Pulpitis: {
		"Root canal therapy may be needed",
		"Pain management required",
		"Avoid hot/cold stimuli",
		"Urgent dental evaluation",
	},
	Healthy: {
		"Continue good oral hygiene",
		"Regular checkups every 6 months",
		"Maintain balanced diet",
		"Use fluoride toothpaste",
	},
}

var fallbackRecommendations = []string{"Consult with your dentist"}

// Recommendations returns up to limit treatment suggestions for a disease in
// priority order. A limit <= 0 returns all of them. The result is a fresh
// slice the caller may keep.
func Recommendations(disease DiseaseType, limit int) []string {
	recs, ok := recommendations[disease]
	if !ok {
		recs = fallbackRecommendations
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return append([]string(nil), recs...)
}

// UrgencyFor derives the treatment priority. Abscess, pulpitis and critical
// findings are urgent; otherwise severity decides.
func UrgencyFor(disease DiseaseType, severity Severity) Urgency {
	switch {
	case disease == Abscess || disease == Pulpitis || severity == Critical:
		return UrgencyUrgent
	case severity == Severe:
		return UrgencyHigh
	case severity == Moderate:
		return UrgencyModerate
	default:
		return UrgencyLow
	}
}
