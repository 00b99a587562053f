package report

import (
	"fmt"
	"strings"

	"github.com/ironsheep/dental-xray-mcp/internal/diagnosis"
)

// NoFindings is the report text when nothing was detected.
const NoFindings = "No dental abnormalities detected in the X-ray image."

const ruleWidth = 80

// Text renders the clinician-facing report. Urgent and high priority
// findings are listed in full first; the rest are condensed.
func Text(dets []Detection, imageName string) string {
	if len(dets) == 0 {
		return NoFindings
	}

	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	fmt.Fprintln(&b, heavy)
	fmt.Fprintln(&b, "DENTAL X-RAY ANALYSIS REPORT")
	fmt.Fprintln(&b, heavy)
	if imageName != "" {
		fmt.Fprintf(&b, "\nImage: %s\n", imageName)
	}
	fmt.Fprintf(&b, "Total Teeth Detected: %d\n", len(dets))

	var priority, other []Detection
	for _, d := range dets {
		if isPriority(d.Urgency) {
			priority = append(priority, d)
		} else {
			other = append(other, d)
		}
	}

	if len(priority) > 0 {
		fmt.Fprintf(&b, "\nURGENT/HIGH PRIORITY FINDINGS:\n%s\n", light)
		for _, d := range priority {
			fmt.Fprintf(&b, "\n%s (#%d)\n", d.ToothName, d.ToothNumber)
			fmt.Fprintf(&b, "   Disease: %s\n", d.DiseaseType)
			fmt.Fprintf(&b, "   Severity: %s\n", d.Severity)
			fmt.Fprintf(&b, "   Affected Area: %s\n", d.AffectedArea)
			fmt.Fprintf(&b, "   Confidence: %.2f%%\n", d.Confidence*100)
			fmt.Fprintf(&b, "   Urgency: %s\n", d.UrgencyDetail)
			fmt.Fprintln(&b, "   Recommendations:")
			for _, r := range d.Recommendations {
				fmt.Fprintf(&b, "      * %s\n", r)
			}
		}
	}

	if len(other) > 0 {
		fmt.Fprintf(&b, "\nOTHER FINDINGS:\n%s\n", light)
		for _, d := range other {
			fmt.Fprintf(&b, "\n%s (#%d)\n", d.ToothName, d.ToothNumber)
			fmt.Fprintf(&b, "   Status: %s (%s)\n", d.DiseaseType, d.Severity)
			fmt.Fprintf(&b, "   Confidence: %.2f%%\n", d.Confidence*100)
		}
	}

	fmt.Fprintf(&b, "\n%s\nEND OF REPORT\n%s", heavy, heavy)
	return b.String()
}

func isPriority(urgency string) bool {
	return urgency == diagnosis.UrgencyUrgent.String() || urgency == diagnosis.UrgencyHigh.String()
}
