package record

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testDate = Date(2024, time.January, 1)

// TestTariff checks the billing rules of both variants
func TestTariff(t *testing.T) {
	tests := []struct {
		name string
		rec  func() (Record, error)
		want string
	}{
		{
			name: "hardware",
			rec: func() (Record, error) {
				return NewHardware("A1B2C3D4", "Acme", testDate, "replace disk", "SSD")
			},
			want: "90",
		},
		{
			name: "software server",
			rec: func() (Record, error) {
				return NewSoftware("A1B2C3D5", "Acme", testDate, "configure AD", "Windows Server 2019")
			},
			want: "77",
		},
		{
			name: "software server lower case",
			rec: func() (Record, error) {
				return NewSoftware("A1B2C3D6", "Acme", testDate, "patch", "ubuntu-server 22.04")
			},
			want: "77",
		},
		{
			name: "software desktop",
			rec: func() (Record, error) {
				return NewSoftware("A1B2C3D7", "Acme", testDate, "install office", "Ubuntu")
			},
			want: "55",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.rec()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := decimal.RequireFromString(tt.want)
			if got := rec.Tariff(); !got.Equal(want) {
				t.Errorf("Tariff() = %s, want %s", got, want)
			}
		})
	}
}

// TestTariffFollowsFields verifies the tariff is recomputed from current values
func TestTariffFollowsFields(t *testing.T) {
	sw, err := NewSoftware("ID000001", "Acme", testDate, "upgrade", "Debian")
	if err != nil {
		t.Fatal(err)
	}
	if !sw.Tariff().Equal(BaseRateSW) {
		t.Fatalf("expected base rate, got %s", sw.Tariff())
	}
	if err := sw.SetOperatingSystem("Debian Server"); err != nil {
		t.Fatal(err)
	}
	if got := sw.Tariff().StringFixed(2); got != "77.00" {
		t.Errorf("expected 77.00 after switching to a server OS, got %s", got)
	}
}

func TestConstructorValidation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		build func() error
	}{
		{"empty id", "id", func() error {
			_, err := NewHardware("", "Acme", testDate, "d", "SSD")
			return err
		}},
		{"blank client", "client", func() error {
			_, err := NewHardware("X", "   ", testDate, "d", "SSD")
			return err
		}},
		{"zero date", "date", func() error {
			_, err := NewSoftware("X", "Acme", time.Time{}, "d", "Ubuntu")
			return err
		}},
		{"empty description", "description", func() error {
			_, err := NewSoftware("X", "Acme", testDate, "", "Ubuntu")
			return err
		}},
		{"empty part", "replacement_part", func() error {
			_, err := NewHardware("X", "Acme", testDate, "d", "")
			return err
		}},
		{"empty os", "operating_system", func() error {
			_, err := NewSoftware("X", "Acme", testDate, "d", "\t")
			return err
		}},
		{"latin-1 client", "client", func() error {
			_, err := NewHardware("X", "M\xfcller", testDate, "d", "SSD")
			return err
		}},
		{"invalid utf-8 part", "replacement_part", func() error {
			_, err := NewHardware("X", "Acme", testDate, "d", "SSD \xff")
			return err
		}},
		{"year after 9999", "date", func() error {
			_, err := NewSoftware("X", "Acme", Date(10000, time.January, 1), "d", "Ubuntu")
			return err
		}},
		{"year before 1", "date", func() error {
			_, err := NewHardware("X", "Acme", Date(0, time.December, 31), "d", "SSD")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

// TestSetterKeepsValueOnError ensures a rejected update leaves the record intact
func TestSetterKeepsValueOnError(t *testing.T) {
	hw, err := NewHardware("ID000001", "Acme", testDate, "replace disk", "SSD")
	if err != nil {
		t.Fatal(err)
	}

	if err := hw.SetClient(""); !errors.Is(err, ErrValidation) {
		t.Errorf("SetClient(\"\") error = %v", err)
	}
	if err := hw.SetReplacementPart(" "); !errors.Is(err, ErrValidation) {
		t.Errorf("SetReplacementPart(\" \") error = %v", err)
	}
	if err := hw.SetDate(time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("SetDate(zero) error = %v", err)
	}
	if err := hw.SetID(""); !errors.Is(err, ErrValidation) {
		t.Errorf("SetID(\"\") error = %v", err)
	}

	if hw.Client() != "Acme" || hw.ReplacementPart() != "SSD" || !hw.Date().Equal(testDate) || hw.ID() != "ID000001" {
		t.Errorf("record changed after failed updates: %s", hw)
	}

	if err := hw.SetDescription("replace PSU"); err != nil {
		t.Fatal(err)
	}
	if hw.Description() != "replace PSU" {
		t.Errorf("description not updated: %q", hw.Description())
	}
}

func TestDateIsNormalized(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	hw, err := NewHardware("ID", "Acme", time.Date(2024, 3, 15, 23, 30, 0, 0, loc), "d", "RAM")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatDate(hw.Date()); got != "2024-03-15" {
		t.Errorf("expected calendar day 2024-03-15, got %s", got)
	}
	if !hw.Date().Equal(Date(2024, 3, 15)) {
		t.Errorf("expected midnight UTC, got %v", hw.Date())
	}
}

func TestIdentity(t *testing.T) {
	a, _ := NewHardware("AB12CD34", "Acme", testDate, "d", "SSD")
	b, _ := NewSoftware("ab12cd34", "Other", testDate, "x", "Ubuntu")
	c, _ := NewSoftware("AB12CD35", "Acme", testDate, "d", "Ubuntu")

	if !Same(a, b) {
		t.Error("records with ids differing only in case must be the same entity")
	}
	if Same(a, c) {
		t.Error("records with different ids must not be the same entity")
	}
	if Same(a, nil) {
		t.Error("nil is never the same entity")
	}
	if NormalizeID("ab12cd34") != "AB12CD34" {
		t.Errorf("NormalizeID = %q", NormalizeID("ab12cd34"))
	}
	if SameID(" AB12CD34", "AB12CD34") {
		t.Error("ids differing in whitespace must not be the same entity")
	}
}

func TestClone(t *testing.T) {
	sw, _ := NewSoftware("ID", "Acme", testDate, "d", "Ubuntu")
	cp := sw.Clone().(*Software)
	if err := cp.SetOperatingSystem("Windows Server"); err != nil {
		t.Fatal(err)
	}
	if sw.OperatingSystem() != "Ubuntu" {
		t.Errorf("clone shares state with original: %q", sw.OperatingSystem())
	}
}

func TestNewID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatal(err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("unexpected id format %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("too many collisions: %d distinct ids out of 100", len(seen))
	}
}

func TestString(t *testing.T) {
	hw, _ := NewHardware("A1B2C3D4", "Acme", testDate, "replace disk", "SSD")
	s := hw.String()
	for _, part := range []string{"[HW]", "A1B2C3D4", "Acme", "2024-01-01", "replace disk", "Part: SSD", "Tariff: 90.00 EUR"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}

	sw, _ := NewSoftware("A1B2C3D5", "Acme", testDate, "setup", "Windows Server 2019")
	if !strings.Contains(sw.String(), "Tariff: 77.00 EUR") {
		t.Errorf("String() = %q", sw.String())
	}
}
