package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// BaseRateSW is the rate billed for software work on client systems.
	BaseRateSW = decimal.RequireFromString("55.00")
	// ServerMultiplier applies when the operating system is a server edition.
	ServerMultiplier = decimal.RequireFromString("1.4")
)

// Software is an intervention on an operating system or an application.
type Software struct {
	base
	operatingSystem string
}

// NewSoftware creates a software record. All fields are required.
func NewSoftware(id, client string, date time.Time, description, operatingSystem string) (*Software, error) {
	b, err := newBase(id, client, date, description)
	if err != nil {
		return nil, err
	}
	if err := requireText("operating_system", operatingSystem); err != nil {
		return nil, err
	}
	return &Software{base: b, operatingSystem: operatingSystem}, nil
}

func (s *Software) OperatingSystem() string { return s.operatingSystem }

func (s *Software) SetOperatingSystem(operatingSystem string) error {
	if err := requireText("operating_system", operatingSystem); err != nil {
		return err
	}
	s.operatingSystem = operatingSystem
	return nil
}

func (s *Software) Kind() Kind        { return KindSoftware }
func (s *Software) TypeLabel() string { return string(KindSoftware) }
func (s *Software) Detail() string    { return s.operatingSystem }

// IsServer reports whether the operating system is billed at the server rate.
func (s *Software) IsServer() bool {
	return strings.Contains(strings.ToLower(s.operatingSystem), "server")
}

func (s *Software) Tariff() decimal.Decimal {
	if s.IsServer() {
		return BaseRateSW.Mul(ServerMultiplier)
	}
	return BaseRateSW
}

func (s *Software) Clone() Record {
	c := *s
	return &c
}

func (s *Software) String() string {
	return s.format(s.TypeLabel()) + fmt.Sprintf(" | OS: %s | Tariff: %s EUR",
		s.operatingSystem, FormatTariff(s.Tariff()))
}
