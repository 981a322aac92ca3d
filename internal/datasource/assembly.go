package datasource

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PastRun is one previous race of a participant
type PastRun struct {
	Distance int    `json:"distance" validate:"gt=0"`
	Time     string `json:"time" validate:"required"`
}

var raceTimePattern = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{1,3}(?:\.\d+)?)$`)

// ParseRaceTime converts "1:33.5" or "93.5" into seconds
func ParseRaceTime(s string) (float64, bool) {
	m := raceTimePattern.FindStringSubmatch(strings.TrimSpace(norm.NFKC.String(s)))
	if m == nil {
		return 0, false
	}
	secs, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, false
	}
	if m[1] != "" {
		mins, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		secs += float64(mins) * 60
	}
	if secs <= 0 {
		return 0, false
	}
	return secs, true
}

// BestTimeEstimate scales each past run to the event distance and returns the
// fastest. It returns nil when no run has a usable time and distance.
func BestTimeEstimate(runs []PastRun, distance int) *float64 {
	best := math.Inf(1)
	for _, r := range runs {
		if r.Distance <= 0 {
			continue
		}
		secs, ok := ParseRaceTime(r.Time)
		if !ok {
			continue
		}
		est := secs * float64(distance) / float64(r.Distance)
		if est < best {
			best = est
		}
	}
	if math.IsInf(best, 1) {
		return nil
	}
	return &best
}

// Class strength by past race grade
const (
	GradeOneStrength   = 0.8
	GradedStrength     = 0.5
	OpenListedStrength = 0.3
)

// ClassStrengthFromGrades returns the strongest class a participant has run in
func ClassStrengthFromGrades(grades []string) float64 {
	strength := 0.0
	for _, g := range grades {
		strength = math.Max(strength, gradeStrength(g))
	}
	return strength
}

func gradeStrength(grade string) float64 {
	g := strings.ToUpper(strings.Join(strings.Fields(norm.NFKC.String(grade)), ""))
	if rest, ok := strings.CutPrefix(g, "JPN"); ok {
		g = "G" + rest
	}
	switch g {
	case "G1", "GI":
		return GradeOneStrength
	case "G2", "GII", "G3", "GIII":
		return GradedStrength
	case "OP", "L", "LISTED", "OPEN":
		return OpenListedStrength
	default:
		return 0
	}
}
