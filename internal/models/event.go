package models

// Venue identifies a racecourse with a known affinity profile.
type Venue string

const (
	VenueDefault  Venue = "default"
	VenueTokyo    Venue = "tokyo"
	VenueNakayama Venue = "nakayama"
	VenueKyoto    Venue = "kyoto"
	VenueHanshin  Venue = "hanshin"
)

// CourseProfile holds the venue affinity coefficients used by the course adjuster
type CourseProfile struct {
	Straight float64 `json:"straight"`
	Gradient float64 `json:"gradient"`
	Corner   float64 `json:"corner"`
}

// EventContext describes one scheduled race. It is built once per event and
// treated as read-only by every scoring stage.
type EventContext struct {
	ID         string        `db:"event_id" json:"id" validate:"required"`
	Name       string        `db:"name" json:"name" validate:"required"`
	Venue      string        `db:"venue" json:"venue"`
	Descriptor string        `db:"descriptor" json:"descriptor"`
	Distance   int           `db:"distance" json:"distance" validate:"gt=0"`
	Date       string        `db:"date" json:"date,omitempty"`
	Grade      string        `db:"grade" json:"grade,omitempty"`
	VenueKey   Venue         `db:"venue_key" json:"venue_key"`
	Profile    CourseProfile `db:"-" json:"profile"`
}

// IsSprint reports whether the event is run over the canonical sprint distance
func (e *EventContext) IsSprint() bool {
	return e.Distance == 1200
}

// IsMile reports whether the event is run over the canonical mile distance
func (e *EventContext) IsMile() bool {
	return e.Distance == 1600
}
