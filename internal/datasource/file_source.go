package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/scoring"
)

// FileSourceName identifies the file data source
const FileSourceName = "file"

const maxRecentPlacings = 3

// Document is the on-disk layout of an event file
type Document struct {
	Events []EventEntry `json:"events" validate:"dive"`
}

// EventEntry is one event and its field as written in an event file
type EventEntry struct {
	Event        EventHeader        `json:"event"`
	Participants []ParticipantEntry `json:"participants" validate:"dive"`
}

// EventHeader carries the event metadata
type EventHeader struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Venue      string `json:"venue"`
	Descriptor string `json:"descriptor"`
	Date       string `json:"date"`
	Grade      string `json:"grade"`
}

// ParticipantEntry is a participant as written in an event file. BestTime and
// ClassStrength are derived from PastRuns and PastGrades when absent.
type ParticipantEntry struct {
	Number         int       `json:"number" validate:"gt=0"`
	Name           string    `json:"name" validate:"required"`
	Jockey         string    `json:"jockey"`
	Odds           float64   `json:"odds" validate:"gte=0"`
	Frame          *int      `json:"frame" validate:"omitempty,gt=0"`
	Mass           *int      `json:"mass" validate:"omitempty,gt=0"`
	MassDelta      *int      `json:"mass_delta"`
	RecentPlacings []int     `json:"recent_placings" validate:"dive,gt=0"`
	BestTime       *float64  `json:"best_time" validate:"omitempty,gt=0"`
	LateSpeed      *float64  `json:"late_speed" validate:"omitempty,gt=0"`
	ClassStrength  *float64  `json:"class_strength" validate:"omitempty,gte=0,lte=1"`
	PastRuns       []PastRun `json:"past_runs" validate:"dive"`
	PastGrades     []string  `json:"past_grades"`
}

// FileSource reads events from a JSON file or every *.json file in a directory
type FileSource struct {
	path     string
	validate *validator.Validate
}

// NewFileSource creates a file source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, validate: validator.New()}
}

// Name returns the name of the data source
func (s *FileSource) Name() string {
	return FileSourceName
}

// Load reads, validates and assembles all events under the source path
func (s *FileSource) Load(ctx context.Context) ([]EventInput, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	var inputs []EventInput
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, NewSourceError(s.Name(), ErrCodeUnreadable, "failed to read "+f, err)
		}
		batch, err := s.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		inputs = append(inputs, batch...)
	}
	return inputs, nil
}

// Parse decodes and assembles an event document
func (s *FileSource) Parse(data []byte) ([]EventInput, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "malformed event document", errors.Join(ErrInvalidData, err))
	}
	if err := s.validate.Struct(doc); err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "event document failed validation", errors.Join(ErrInvalidData, err))
	}

	inputs := make([]EventInput, 0, len(doc.Events))
	for _, e := range doc.Events {
		input, err := s.assemble(e)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func (s *FileSource) assemble(e EventEntry) (EventInput, error) {
	h := e.Event
	event := scoring.NewEventContext(h.ID, h.Name, h.Venue, h.Descriptor, h.Date, h.Grade)

	seen := make(map[int]struct{}, len(e.Participants))
	records := make([]models.ParticipantRecord, 0, len(e.Participants))
	for _, p := range e.Participants {
		if _, dup := seen[p.Number]; dup {
			return EventInput{}, NewSourceError(s.Name(), ErrCodeInvalidData,
				fmt.Sprintf("event %s: duplicate participant number %d", h.ID, p.Number),
				errors.Join(ErrInvalidData, models.ErrInvalidEvent))
		}
		seen[p.Number] = struct{}{}
		records = append(records, p.record(event.Distance))
	}
	return EventInput{Event: event, Participants: records}, nil
}

func (p ParticipantEntry) record(distance int) models.ParticipantRecord {
	placings := p.RecentPlacings
	if len(placings) > maxRecentPlacings {
		placings = placings[:maxRecentPlacings]
	}

	best := p.BestTime
	if best == nil {
		best = BestTimeEstimate(p.PastRuns, distance)
	}

	class := ClassStrengthFromGrades(p.PastGrades)
	if p.ClassStrength != nil {
		class = *p.ClassStrength
	}

	return models.ParticipantRecord{
		Number:         p.Number,
		Name:           p.Name,
		Jockey:         p.Jockey,
		Odds:           p.Odds,
		Frame:          p.Frame,
		Mass:           p.Mass,
		MassDelta:      p.MassDelta,
		RecentPlacings: placings,
		BestTime:       best,
		LateSpeed:      p.LateSpeed,
		ClassStrength:  class,
	}
}

func (s *FileSource) files() ([]string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewSourceError(s.Name(), ErrCodeNotFound, "no input at "+s.path, errors.Join(ErrNotFound, err))
		}
		return nil, NewSourceError(s.Name(), ErrCodeUnreadable, "failed to stat "+s.path, err)
	}
	if !info.IsDir() {
		return []string{s.path}, nil
	}

	files, err := filepath.Glob(filepath.Join(s.path, "*.json"))
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeUnreadable, "failed to list "+s.path, err)
	}
	sort.Strings(files)
	return files, nil
}
