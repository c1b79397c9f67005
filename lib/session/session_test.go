package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ValentinKolb/techlog/lib/persist"
	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/ValentinKolb/techlog/lib/store"
	"github.com/ValentinKolb/techlog/lib/store/lstore"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
)

var testDay = record.Date(2024, time.March, 15)

// sequentialIDs returns an id source producing the given ids in order,
// followed by generated ones
func sequentialIDs(ids ...string) func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		if n <= len(ids) {
			return ids[n-1], nil
		}
		return fmt.Sprintf("%08X", n), nil
	}
}

func newTestSession(t *testing.T, fs afero.Fs, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return testDay.Add(10 * time.Hour) }),
	}, opts...)
	s := New(lstore.NewLocalStore(), persist.NewEngine(persist.Options{Fs: fs}), opts...)
	if res := s.Open(); res.Warning != nil {
		t.Fatalf("unexpected load warning: %v", res.Warning)
	}
	return s
}

// mustAdd fails the test if an add returned an error,
// use it as mustAdd(t)(s.AddHardware(...))
func mustAdd(t *testing.T) func(record.Record, error) record.Record {
	return func(r record.Record, err error) record.Record {
		t.Helper()
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		return r
	}
}

func TestAddAndList(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs(), WithIDSource(sequentialIDs("AAAA0001", "AAAA0002", "AAAA0003")))

	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))
	mustAdd(t)(s.AddSoftware("Beta", testDay, "configure AD", "Windows Server 2019"))
	mustAdd(t)(s.AddSoftware("Gamma", testDay, "install office", "Windows 11"))

	l := s.List()
	if len(l.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(l.Records))
	}
	for i, want := range []string{"AAAA0001", "AAAA0002", "AAAA0003"} {
		if l.Records[i].ID() != want {
			t.Errorf("record %d has id %s, expected %s", i, l.Records[i].ID(), want)
		}
	}
	// 90 + 77 + 55
	if !l.Total.Equal(decimal.NewFromInt(222)) {
		t.Errorf("total = %s, expected 222", l.Total)
	}
}

func TestAddUsesTodayForZeroDate(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs())
	r := mustAdd(t)(s.AddHardware("Acme", time.Time{}, "replace disk", "SSD"))
	if !r.Date().Equal(testDay) {
		t.Errorf("date = %v, expected %v", r.Date(), testDay)
	}
}

func TestAddGeneratesIDs(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs())
	r := mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))
	if len(r.ID()) != record.IDLength || r.ID() != record.NormalizeID(r.ID()) {
		t.Errorf("unexpected generated id %q", r.ID())
	}
}

func TestAddRetriesOnCollision(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs(), WithIDSource(sequentialIDs("AAAAAAAA", "aaaaaaaa", "AAAAAAAA", "BBBBBBBB")))

	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))
	r := mustAdd(t)(s.AddSoftware("Beta", testDay, "configure AD", "Ubuntu"))
	if r.ID() != "BBBBBBBB" {
		t.Errorf("expected id BBBBBBBB after collisions, got %s", r.ID())
	}
	if len(s.List().Records) != 2 {
		t.Error("expected two records")
	}
}

func TestAddGivesUpAfterMaxAttempts(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs(), WithIDSource(func() (string, error) { return "SAMEIDXX", nil }))

	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))
	if _, err := s.AddHardware("Acme", testDay, "replace disk", "SSD"); err == nil {
		t.Fatal("expected error when no unique id can be generated")
	}
	if n := len(s.List().Records); n != 1 {
		t.Errorf("expected 1 record, got %d", n)
	}
}

func TestAddRejectsInvalidFields(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs())
	if _, err := s.AddHardware("   ", testDay, "replace disk", "SSD"); !errors.Is(err, record.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := s.AddSoftware("Acme", testDay, "update", ""); !errors.Is(err, record.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if n := len(s.List().Records); n != 0 {
		t.Errorf("invalid records were stored: %d", n)
	}
}

func TestFindAndDelete(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs(), WithIDSource(sequentialIDs("A1B2C3D4")))
	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))

	r, err := s.Find("a1b2c3d4")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if r.ID() != "A1B2C3D4" {
		t.Errorf("found %s", r.ID())
	}

	if _, err := s.Find("FFFFFFFF"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := s.Delete("FFFFFFFF"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := s.Delete("a1b2c3d4"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Find("A1B2C3D4"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("record still present after delete: %v", err)
	}
}

func TestEdit(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs(), WithIDSource(sequentialIDs("SW000001")))
	mustAdd(t)(s.AddSoftware("Beta", testDay, "configure AD", "Windows Server 2019"))

	osName := "Ubuntu"
	client := "Beta GmbH"
	r, err := s.Edit("sw000001", Changes{Detail: &osName, Client: &client})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if r.Client() != client || r.Detail() != osName {
		t.Errorf("edit not applied: %s", r)
	}
	if !r.Tariff().Equal(decimal.NewFromInt(55)) {
		t.Errorf("tariff after edit = %s, expected 55", r.Tariff())
	}

	// an invalid change leaves the record untouched
	empty := ""
	newClient := "Other"
	if _, err := s.Edit("SW000001", Changes{Client: &newClient, Description: &empty}); !errors.Is(err, record.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	r, err = s.Find("SW000001")
	if err != nil {
		t.Fatal(err)
	}
	if r.Client() != client || r.Description() != "configure AD" {
		t.Errorf("failed edit modified the record: %s", r)
	}

	if _, err := s.Edit("SW000001", Changes{}); !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("expected invalid argument for empty changes, got %v", err)
	}
	if _, err := s.Edit("NOPE0000", Changes{Client: &client}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestFlushAndReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestSession(t, fs, WithIDSource(sequentialIDs("HW000001", "SW000002")))
	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))
	mustAdd(t)(s.AddSoftware("Beta", testDay, "configure AD", "Windows Server 2019"))

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	reopened := New(lstore.NewLocalStore(), persist.NewEngine(persist.Options{Fs: fs}))
	res := reopened.Open()
	if res.FirstRun || res.Warning != nil {
		t.Fatalf("unexpected load result: %+v", res)
	}
	l := reopened.List()
	if len(l.Records) != 2 || l.Records[0].ID() != "HW000001" || l.Records[1].ID() != "SW000002" {
		t.Fatalf("unexpected records after reopen: %v", l.Records)
	}
	if !l.Total.Equal(decimal.NewFromInt(167)) {
		t.Errorf("total after reopen = %s, expected 167", l.Total)
	}
}

// fields flattens records for comparison
type fields struct {
	Kind        record.Kind
	ID          string
	Client      string
	Date        string
	Description string
	Detail      string
}

func flatten(records []record.Record) []fields {
	out := make([]fields, 0, len(records))
	for _, r := range records {
		out = append(out, fields{
			Kind:        r.Kind(),
			ID:          r.ID(),
			Client:      r.Client(),
			Date:        record.FormatDate(r.Date()),
			Description: r.Description(),
			Detail:      r.Detail(),
		})
	}
	return out
}

func TestFlushAppendFlushReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestSession(t, fs, WithIDSource(sequentialIDs("HW000001", "SW000002", "HW000003")))
	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))
	mustAdd(t)(s.AddSoftware("Beta", testDay.AddDate(0, 0, 1), "configure AD", "Windows Server 2019"))
	if err := s.Flush(); err != nil {
		t.Fatalf("first Flush failed: %v", err)
	}

	mustAdd(t)(s.AddHardware("Gamma", testDay.AddDate(0, 0, 2), "replace fan", "Fan"))
	if err := s.Flush(); err != nil {
		t.Fatalf("second Flush failed: %v", err)
	}

	want := []fields{
		{Kind: record.KindHardware, ID: "HW000001", Client: "Acme", Date: "2024-03-15", Description: "replace disk", Detail: "SSD"},
		{Kind: record.KindSoftware, ID: "SW000002", Client: "Beta", Date: "2024-03-16", Description: "configure AD", Detail: "Windows Server 2019"},
		{Kind: record.KindHardware, ID: "HW000003", Client: "Gamma", Date: "2024-03-17", Description: "replace fan", Detail: "Fan"},
	}
	if diff := cmp.Diff(want, flatten(s.List().Records)); diff != "" {
		t.Fatalf("session records mismatch (-want +got):\n%s", diff)
	}

	reopened := New(lstore.NewLocalStore(), persist.NewEngine(persist.Options{Fs: fs}))
	if res := reopened.Open(); res.FirstRun || res.Warning != nil {
		t.Fatalf("unexpected load result: %+v", res)
	}
	l := reopened.List()
	if diff := cmp.Diff(want, flatten(l.Records)); diff != "" {
		t.Errorf("reloaded records mismatch (-want +got):\n%s", diff)
	}
	// 90 + 77 + 90
	if !l.Total.Equal(decimal.NewFromInt(257)) {
		t.Errorf("total after reopen = %s, expected 257", l.Total)
	}
}

func TestOpenFirstRunAndCorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(lstore.NewLocalStore(), persist.NewEngine(persist.Options{Fs: fs}))
	if res := s.Open(); !res.FirstRun {
		t.Errorf("expected first run, got %+v", res)
	}

	if err := afero.WriteFile(fs, persist.DataFile, []byte("\x00garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := s.Open()
	var rerr *persist.ReadError
	if !errors.As(res.Warning, &rerr) {
		t.Errorf("expected read error warning, got %v", res.Warning)
	}
	if n := len(s.List().Records); n != 0 {
		t.Errorf("expected empty store after corrupt load, got %d records", n)
	}
}

// failingEngine fails every save
type failingEngine struct{ saves int }

func (f *failingEngine) Save([]record.Record) error {
	f.saves++
	return &persist.WriteError{Op: "write", Path: persist.TempFile, Err: errors.New("disk full")}
}

func (f *failingEngine) Load() persist.LoadResult { return persist.LoadResult{FirstRun: true} }

func TestFlushFailureKeepsSession(t *testing.T) {
	engine := &failingEngine{}
	s := New(lstore.NewLocalStore(), engine)
	s.Open()
	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))

	var werr *persist.WriteError
	if err := s.Flush(); !errors.As(err, &werr) {
		t.Fatalf("expected write error, got %v", err)
	}
	// the session keeps working after a failed flush
	mustAdd(t)(s.AddHardware("Acme", testDay, "replace fan", "Fan"))
	if n := len(s.List().Records); n != 2 {
		t.Errorf("expected 2 records, got %d", n)
	}
	if engine.saves != 1 {
		t.Errorf("expected 1 save attempt, got %d", engine.saves)
	}
}

func TestSummary(t *testing.T) {
	s := newTestSession(t, afero.NewMemMapFs())

	empty := s.Summary()
	if empty.All.Count != 0 || !empty.All.Total.IsZero() || !empty.Hardware.Mean.IsZero() {
		t.Errorf("unexpected summary of empty log: %+v", empty)
	}

	mustAdd(t)(s.AddHardware("Acme", testDay, "replace disk", "SSD"))
	mustAdd(t)(s.AddSoftware("Beta", testDay, "configure AD", "Windows Server 2019"))
	mustAdd(t)(s.AddSoftware("Gamma", testDay, "install office", "Windows 11"))

	sum := s.Summary()
	check := func(name string, got Stats, count int, total, mean, min, max string) {
		t.Helper()
		if got.Count != count {
			t.Errorf("%s: count = %d, expected %d", name, got.Count, count)
		}
		for _, c := range []struct {
			field string
			got   decimal.Decimal
			want  string
		}{
			{"total", got.Total, total},
			{"mean", got.Mean, mean},
			{"min", got.Min, min},
			{"max", got.Max, max},
		} {
			if !c.got.Equal(decimal.RequireFromString(c.want)) {
				t.Errorf("%s: %s = %s, expected %s", name, c.field, c.got, c.want)
			}
		}
	}

	check("hardware", sum.Hardware, 1, "90", "90", "90", "90")
	check("software", sum.Software, 2, "132", "66", "55", "77")
	check("all", sum.All, 3, "222", "74", "55", "90")
}
