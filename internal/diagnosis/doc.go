// Package diagnosis turns raw detector output into a dental diagnosis.
//
// The detector only knows which tooth it saw and how confident it is. With no
// disease-labelled training data, Classify encodes clinical priors as an
// ordered rule list: wisdom teeth tend toward impaction, molars toward
// cavities, premolars toward fractures and the lower arch toward periodontal
// disease. Confidence acts as a weak proxy for how clearly normal a tooth
// looks, and very confident detections are always reported healthy.
//
// Every function in this package is pure and total. Lookup tables
// (recommendations, display names, tooth names) are package-level values that
// are never mutated after initialization, so concurrent use needs no locking.
//
// # Tooth Numbering
//
// Tooth positions use FDI two-digit notation: the first digit is the quadrant
// (1 upper right, 2 upper left, 3 lower left, 4 lower right) and the second
// is the position from the midline (1 central incisor through 8 third molar).
// Position 0 means the class label could not be parsed.
package diagnosis
