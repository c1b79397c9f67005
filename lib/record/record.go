package record

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Kind is the variant tag of a record. It is also the tag used on disk.
type Kind string

const (
	KindHardware Kind = "HW"
	KindSoftware Kind = "SW"
)

// Valid reports whether k names one of the known variants.
func (k Kind) Valid() bool {
	return k == KindHardware || k == KindSoftware
}

// Record is the capability shared by all service event variants.
// The interface is sealed: only Hardware and Software implement it.
type Record interface {
	// ID returns the identifier as it was supplied.
	ID() string
	Client() string
	Date() time.Time
	Description() string

	// Kind returns the variant tag.
	Kind() Kind
	// TypeLabel returns the short label used when displaying the record.
	TypeLabel() string
	// Detail returns the variant specific field (replacement part or operating system).
	Detail() string
	// Tariff computes the billable rate from the current field values.
	Tariff() decimal.Decimal

	// Setters replace the whole field and validate the new value.
	SetID(id string) error
	SetClient(client string) error
	SetDate(date time.Time) error
	SetDescription(description string) error

	// Clone returns an independent copy of the record.
	Clone() Record
	String() string

	sealed()
}

// --------------------------------------------------------------------------
// Validation
// --------------------------------------------------------------------------

// ErrValidation is matched by every *ValidationError through errors.Is.
var ErrValidation = errors.New("invalid record field")

// ValidationError reports a required field that was empty or unset.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// requireText rejects empty, whitespace-only and non UTF-8 values.
// Every codec stores text as UTF-8, other bytes would not survive a save.
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if !utf8.ValidString(value) {
		return &ValidationError{Field: field, Reason: "must be valid UTF-8"}
	}
	return nil
}

// Dates are stored as YYYY-MM-DD, so the year must have four digits
const (
	minYear = 1
	maxYear = 9999
)

func requireDate(field string, value time.Time) error {
	if value.IsZero() {
		return &ValidationError{Field: field, Reason: "must be set"}
	}
	if y := value.Year(); y < minYear || y > maxYear {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("year %d out of range %d-%d", y, minYear, maxYear)}
	}
	return nil
}

// --------------------------------------------------------------------------
// Common fields
// --------------------------------------------------------------------------

// base holds the fields shared by all variants.
type base struct {
	id          string
	client      string
	date        time.Time
	description string
}

func newBase(id, client string, date time.Time, description string) (base, error) {
	for _, err := range []error{
		requireText("id", id),
		requireText("client", client),
		requireDate("date", date),
		requireText("description", description),
	} {
		if err != nil {
			return base{}, err
		}
	}
	return base{
		id:          id,
		client:      client,
		date:        Day(date),
		description: description,
	}, nil
}

func (b *base) ID() string          { return b.id }
func (b *base) Client() string      { return b.client }
func (b *base) Date() time.Time     { return b.date }
func (b *base) Description() string { return b.description }

func (b *base) SetID(id string) error {
	if err := requireText("id", id); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *base) SetClient(client string) error {
	if err := requireText("client", client); err != nil {
		return err
	}
	b.client = client
	return nil
}

func (b *base) SetDate(date time.Time) error {
	if err := requireDate("date", date); err != nil {
		return err
	}
	b.date = Day(date)
	return nil
}

func (b *base) SetDescription(description string) error {
	if err := requireText("description", description); err != nil {
		return err
	}
	b.description = description
	return nil
}

func (b *base) sealed() {}

// format renders the common part of String()
func (b *base) format(label string) string {
	return fmt.Sprintf("[%s] %s | Client: %-20s | Date: %s | %s",
		label, b.id, b.client, FormatDate(b.date), b.description)
}

// FormatTariff renders a tariff for display, rounded to two decimal places.
func FormatTariff(t decimal.Decimal) string {
	return t.StringFixed(2)
}
