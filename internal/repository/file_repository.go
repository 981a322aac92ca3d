package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/service"
)

// Output formats
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// ResultDocument is the on-disk layout of a results file
type ResultDocument struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Results     []service.EventResult `json:"results"`
}

// FileResultRepository writes results to a single JSON or msgpack file. Each
// Save replaces the file atomically.
type FileResultRepository struct {
	path   string
	format string
	pretty bool
}

// NewFileResultRepository creates a file repository
func NewFileResultRepository(path, format string, pretty bool) (*FileResultRepository, error) {
	switch format {
	case FormatJSON, FormatMsgpack:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &FileResultRepository{path: path, format: format, pretty: pretty}, nil
}

// Name returns the sink name
func (r *FileResultRepository) Name() string {
	return "file"
}

// Save writes results to the configured path
func (r *FileResultRepository) Save(ctx context.Context, results []service.EventResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if results == nil {
		results = []service.EventResult{}
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".results-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	doc := ResultDocument{GeneratedAt: time.Now().UTC(), Results: results}
	if err := r.encode(w, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

// Load reads the last written document
func (r *FileResultRepository) Load(ctx context.Context) (*ResultDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	var doc ResultDocument
	if err := r.decode(bufio.NewReader(f), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}
	return &doc, nil
}

// GetByEventID returns the stored result for one event
func (r *FileResultRepository) GetByEventID(ctx context.Context, eventID string) (*service.EventResult, error) {
	doc, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Results {
		if res := doc.Results[i].Result; res != nil && res.Event.ID == eventID {
			return &doc.Results[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *FileResultRepository) encode(w io.Writer, doc ResultDocument) error {
	if r.format == FormatMsgpack {
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(doc)
	}
	enc := json.NewEncoder(w)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

func (r *FileResultRepository) decode(rd io.Reader, doc *ResultDocument) error {
	if r.format == FormatMsgpack {
		dec := msgpack.NewDecoder(rd)
		dec.SetCustomStructTag("json")
		return dec.Decode(doc)
	}
	return json.NewDecoder(rd).Decode(doc)
}
