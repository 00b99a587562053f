package diagnosis

import (
	"fmt"
	"strconv"
	"strings"
)

// Tooth is a two-digit FDI tooth position: quadrant 1-4 then position 1-8.
// Zero means the class label could not be parsed.
type Tooth int

// Unknown marks an unparsed tooth position.
const Unknown Tooth = 0

// ParseTooth extracts the tooth position from a detector class label such as
// "14". Labels that are not plain integers yield Unknown.
func ParseTooth(label string) Tooth {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return Unknown
	}
	return Tooth(n)
}

// Quadrant returns the first FDI digit, or 0 outside the 11-48 range.
func (t Tooth) Quadrant() int {
	if t < 11 || t > 48 {
		return 0
	}
	return int(t) / 10
}

var (
	wisdomTeeth = toothSet(18, 28, 38, 48)
	molars      = toothSet(6, 7, 16, 17, 26, 27, 36, 37, 46, 47)
	premolars   = toothSet(4, 5, 14, 15, 24, 25, 34, 35, 44, 45)
	incisors    = toothSet(1, 2, 3, 11, 12, 13, 21, 22, 23, 31, 32, 33, 41, 42, 43)
)

func toothSet(teeth ...Tooth) map[Tooth]bool {
	m := make(map[Tooth]bool, len(teeth))
	for _, t := range teeth {
		m[t] = true
	}
	return m
}

// IsWisdom reports whether t is a third molar.
func (t Tooth) IsWisdom() bool { return wisdomTeeth[t] }

// IsMolar reports whether t is a first or second molar.
func (t Tooth) IsMolar() bool { return molars[t] }

// IsPremolar reports whether t is a premolar.
func (t Tooth) IsPremolar() bool { return premolars[t] }

// IsIncisor reports whether t is an incisor or canine.
func (t Tooth) IsIncisor() bool { return incisors[t] }

// IsLowerArch reports whether t falls in the 30-48 lower-arch range.
func (t Tooth) IsLowerArch() bool { return t >= 30 && t <= 48 }

var quadrantNames = map[int]string{
	1: "Upper Right",
	2: "Upper Left",
	3: "Lower Left",
	4: "Lower Right",
}

var positionNames = map[int]string{
	1: "Central Incisor",
	2: "Lateral Incisor",
	3: "Canine",
	4: "First Premolar",
	5: "Second Premolar",
	6: "First Molar",
	7: "Second Molar",
	8: "Third Molar (Wisdom)",
}

// Name returns the human-readable tooth name, e.g. "Upper Right First Molar".
func (t Tooth) Name() string {
	q, ok := quadrantNames[t.Quadrant()]
	pos, ok2 := positionNames[int(t)%10]
	if !ok || !ok2 {
		return fmt.Sprintf("Tooth #%d", int(t))
	}
	return q + " " + pos
}
