package record

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// FixedHourlyRateHW is the labour rate billed for hardware work.
	FixedHourlyRateHW = decimal.RequireFromString("65.00")
	// TravelSurcharge is the flat travel refund added to every hardware intervention.
	TravelSurcharge = decimal.RequireFromString("25.00")
)

// Hardware is a physical intervention: component replacement, maintenance, ...
type Hardware struct {
	base
	replacementPart string
}

// NewHardware creates a hardware record. All fields are required.
func NewHardware(id, client string, date time.Time, description, replacementPart string) (*Hardware, error) {
	b, err := newBase(id, client, date, description)
	if err != nil {
		return nil, err
	}
	if err := requireText("replacement_part", replacementPart); err != nil {
		return nil, err
	}
	return &Hardware{base: b, replacementPart: replacementPart}, nil
}

func (h *Hardware) ReplacementPart() string { return h.replacementPart }

func (h *Hardware) SetReplacementPart(part string) error {
	if err := requireText("replacement_part", part); err != nil {
		return err
	}
	h.replacementPart = part
	return nil
}

func (h *Hardware) Kind() Kind        { return KindHardware }
func (h *Hardware) TypeLabel() string { return string(KindHardware) }
func (h *Hardware) Detail() string    { return h.replacementPart }

// Tariff is independent of the field values: hourly rate plus travel surcharge.
func (h *Hardware) Tariff() decimal.Decimal {
	return FixedHourlyRateHW.Add(TravelSurcharge)
}

func (h *Hardware) Clone() Record {
	c := *h
	return &c
}

func (h *Hardware) String() string {
	return h.format(h.TypeLabel()) + fmt.Sprintf(" | Part: %s | Tariff: %s EUR",
		h.replacementPart, FormatTariff(h.Tariff()))
}
