package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/techlog/lib/record"
)

const (
	// FormatName identifies a techlog document
	FormatName = "techlog"
	// FormatVersion is the version written by this build
	FormatVersion = 1
)

// ErrInvalidDocument is wrapped by every decoding error
var ErrInvalidDocument = errors.New("invalid techlog document")

// Document is the logical content of a data file, shared by the text encodings
type Document struct {
	Format  string    `json:"format" yaml:"format"`
	Version int       `json:"version" yaml:"version"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`
	Records []Entry   `json:"records" yaml:"records"`
}

// Entry is one tagged record. Exactly one of the variant fields is set, matching Kind.
type Entry struct {
	Kind            record.Kind `json:"kind" yaml:"kind"`
	ID              string      `json:"id" yaml:"id"`
	Client          string      `json:"client" yaml:"client"`
	Date            string      `json:"date" yaml:"date"`
	Description     string      `json:"description" yaml:"description"`
	ReplacementPart string      `json:"replacement_part,omitempty" yaml:"replacement_part,omitempty"`
	OperatingSystem string      `json:"operating_system,omitempty" yaml:"operating_system,omitempty"`
}

// invalid wraps a decoding failure
func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Conversion
// --------------------------------------------------------------------------

func newDocument(records []record.Record) (Document, error) {
	doc := Document{
		Format:  FormatName,
		Version: FormatVersion,
		SavedAt: time.Now().UTC().Truncate(time.Second),
		Records: make([]Entry, 0, len(records)),
	}
	for i, r := range records {
		e, err := toEntry(r)
		if err != nil {
			return Document{}, fmt.Errorf("record %d: %w", i, err)
		}
		doc.Records = append(doc.Records, e)
	}
	return doc, nil
}

func toEntry(r record.Record) (Entry, error) {
	e := Entry{
		ID:          r.ID(),
		Client:      r.Client(),
		Date:        record.FormatDate(r.Date()),
		Description: r.Description(),
	}
	switch v := r.(type) {
	case *record.Hardware:
		e.Kind = record.KindHardware
		e.ReplacementPart = v.ReplacementPart()
	case *record.Software:
		e.Kind = record.KindSoftware
		e.OperatingSystem = v.OperatingSystem()
	default:
		return Entry{}, fmt.Errorf("unsupported record type %T", r)
	}
	return e, nil
}

func fromEntry(e Entry) (record.Record, error) {
	date, err := record.ParseDate(e.Date)
	if err != nil {
		return nil, invalid("record %s: bad date %q", e.ID, e.Date)
	}
	switch e.Kind {
	case record.KindHardware:
		if e.OperatingSystem != "" {
			return nil, invalid("record %s: hardware record with operating system", e.ID)
		}
		r, err := record.NewHardware(e.ID, e.Client, date, e.Description, e.ReplacementPart)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return r, nil
	case record.KindSoftware:
		if e.ReplacementPart != "" {
			return nil, invalid("record %s: software record with replacement part", e.ID)
		}
		r, err := record.NewSoftware(e.ID, e.Client, date, e.Description, e.OperatingSystem)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return r, nil
	default:
		return nil, invalid("record %s: unknown kind %q", e.ID, e.Kind)
	}
}

// records validates the document header and rebuilds the record sequence
func (doc *Document) records() ([]record.Record, error) {
	if doc.Format != FormatName {
		return nil, invalid("unexpected format %q", doc.Format)
	}
	if doc.Version != FormatVersion {
		return nil, invalid("unsupported version: %d (expected %d)", doc.Version, FormatVersion)
	}
	out := make([]record.Record, 0, len(doc.Records))
	for _, e := range doc.Records {
		r, err := fromEntry(e)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := checkUnique(out); err != nil {
		return nil, err
	}
	return out, nil
}

// checkUnique rejects sequences with two records of the same identity.
// Such a file was never written by techlog.
func checkUnique(records []record.Record) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		key := record.NormalizeID(r.ID())
		if _, ok := seen[key]; ok {
			return invalid("duplicate record id %s", r.ID())
		}
		seen[key] = struct{}{}
	}
	return nil
}
