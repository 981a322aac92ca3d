package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/yourusername/race-ev/internal/models"
)

// DefaultDistance is assumed when the descriptor carries no distance
const DefaultDistance = 2000

type venueEntry struct {
	key     models.Venue
	aliases []string
	profile models.CourseProfile
	// gradient venues get the boosted beta multiplier
	gradient bool
	// draw-biased venues apply the frame bias over the sprint distance
	drawBiased bool
}

// venueTable is matched in order; the first alias found in the event text wins.
var venueTable = []venueEntry{
	{
		key:     models.VenueTokyo,
		aliases: []string{"東京", "tokyo"},
		profile: models.CourseProfile{Straight: 1.0, Gradient: 0.5, Corner: 0.3},
	},
	{
		key:        models.VenueNakayama,
		aliases:    []string{"中山", "nakayama"},
		profile:    models.CourseProfile{Straight: 0.4, Gradient: 1.0, Corner: 0.8},
		gradient:   true,
		drawBiased: true,
	},
	{
		key:     models.VenueKyoto,
		aliases: []string{"京都", "kyoto"},
		profile: models.CourseProfile{Straight: 0.7, Gradient: 0.2, Corner: 0.5},
	},
	{
		key:        models.VenueHanshin,
		aliases:    []string{"阪神", "hanshin"},
		profile:    models.CourseProfile{Straight: 0.6, Gradient: 0.9, Corner: 0.5},
		drawBiased: true,
	},
}

var defaultVenue = venueEntry{
	key:     models.VenueDefault,
	profile: models.CourseProfile{Straight: 0.5, Gradient: 0.5, Corner: 0.5},
}

var distancePattern = regexp.MustCompile(`\d+`)

// fold normalizes full-width characters and case before matching
func fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

func lookupVenue(key models.Venue) venueEntry {
	for _, v := range venueTable {
		if v.key == key {
			return v
		}
	}
	return defaultVenue
}

// ResolveVenue finds the affinity profile for the first known venue named in
// any of the given texts, falling back to the default profile.
func ResolveVenue(texts ...string) (models.Venue, models.CourseProfile) {
	folded := make([]string, len(texts))
	for i, t := range texts {
		folded[i] = fold(t)
	}
	for _, v := range venueTable {
		for _, alias := range v.aliases {
			for _, t := range folded {
				if strings.Contains(t, alias) {
					return v.key, v.profile
				}
			}
		}
	}
	return defaultVenue.key, defaultVenue.profile
}

// ParseDistance extracts the race distance in metres from a descriptor such as "芝1600m"
func ParseDistance(descriptor string) int {
	m := distancePattern.FindString(fold(descriptor))
	if m == "" {
		return DefaultDistance
	}
	d, err := strconv.Atoi(m)
	if err != nil || d <= 0 {
		return DefaultDistance
	}
	return d
}

// NewEventContext builds an EventContext with its distance and venue profile resolved
func NewEventContext(id, name, venue, descriptor, date, grade string) models.EventContext {
	key, profile := ResolveVenue(name, venue)
	return models.EventContext{
		ID:         id,
		Name:       name,
		Venue:      venue,
		Descriptor: descriptor,
		Distance:   ParseDistance(descriptor),
		Date:       date,
		Grade:      grade,
		VenueKey:   key,
		Profile:    profile,
	}
}

// EnsureProfile resolves the venue profile and distance of an event built without them
func EnsureProfile(event models.EventContext) models.EventContext {
	if event.VenueKey == "" {
		event.VenueKey, event.Profile = ResolveVenue(event.Name, event.Venue)
	}
	if event.Distance <= 0 {
		event.Distance = ParseDistance(event.Descriptor)
	}
	return event
}

// Multipliers scale the three affinity coefficients
type Multipliers struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// ContextMultipliers derives alpha, beta and gamma from distance and venue
func ContextMultipliers(event models.EventContext, p Params) Multipliers {
	m := Multipliers{Alpha: p.DefaultAlpha, Beta: p.DefaultBeta, Gamma: p.Gamma}
	if event.IsMile() {
		m.Alpha = p.MileAlpha
	}
	if lookupVenue(event.VenueKey).gradient {
		m.Beta = p.GradientBeta
	}
	return m
}

// DrawBias returns the starting-gate bias for a participant. Unfavourable bias is
// attenuated by the participant's class strength.
func DrawBias(event models.EventContext, record models.ParticipantRecord, p Params) float64 {
	if record.Frame == nil || !event.IsSprint() || !lookupVenue(event.VenueKey).drawBiased {
		return 0
	}
	frame := *record.Frame
	bias := 0.0
	switch {
	case frame <= p.InsideDrawMaxFrame:
		bias = p.InsideDrawBonus
	case frame >= p.OutsideDrawMinFrame:
		bias = p.OutsideDrawPenalty
	}
	if bias < 0 {
		bias *= 1.0 - record.ClassStrength
	}
	return bias
}

// CourseScore computes the contextual fitness C_i of a participant
func CourseScore(event models.EventContext, record models.ParticipantRecord, p Params) float64 {
	m := ContextMultipliers(event, p)
	cp := event.Profile
	c := m.Alpha*cp.Straight + m.Beta*cp.Gradient + m.Gamma*cp.Corner + DrawBias(event, record, p)
	if record.GetMass() > p.HeavyMassThreshold {
		c += p.HeavyGradientBonus * cp.Gradient
	}
	return c
}
