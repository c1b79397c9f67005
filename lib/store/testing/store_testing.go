package testing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/ValentinKolb/techlog/lib/store"
)

// RunStoreTests runs the conformance test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory store.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("AddAndFind", func(t *testing.T) {
			testAddAndFind(t, factory())
		})

		t.Run("CaseInsensitiveFind", func(t *testing.T) {
			testCaseInsensitiveFind(t, factory())
		})

		t.Run("InsertionOrder", func(t *testing.T) {
			testInsertionOrder(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("RemoveFromEmpty", func(t *testing.T) {
			testRemoveFromEmpty(t, factory())
		})

		t.Run("EmptyID", func(t *testing.T) {
			testEmptyID(t, factory())
		})

		t.Run("DuplicateID", func(t *testing.T) {
			testDuplicateID(t, factory())
		})

		t.Run("SnapshotIsolation", func(t *testing.T) {
			testSnapshotIsolation(t, factory())
		})

		t.Run("Update", func(t *testing.T) {
			testUpdate(t, factory())
		})

		t.Run("Reset", func(t *testing.T) {
			testReset(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

var day = record.Date(2024, time.January, 1)

func mustHardware(t testing.TB, id string) record.Record {
	t.Helper()
	r, err := record.NewHardware(id, "Acme", day, "replace disk", "SSD")
	if err != nil {
		t.Fatalf("NewHardware(%s): %v", id, err)
	}
	return r
}

func mustSoftware(t testing.TB, id, os string) record.Record {
	t.Helper()
	r, err := record.NewSoftware(id, "Globex", day, "reinstall", os)
	if err != nil {
		t.Fatalf("NewSoftware(%s): %v", id, err)
	}
	return r
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

func expectCode(t testing.TB, err error, code store.RetCode) *store.Error {
	t.Helper()
	var se *store.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *store.Error with code %s, got %v", code, err)
	}
	if se.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, se.Code, err)
	}
	return se
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAddAndFind(t *testing.T, s store.IStore) {
	hw := mustHardware(t, "A1B2C3D4")
	if err := s.Add(hw); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}

	got, err := s.FindByID("A1B2C3D4")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Kind() != record.KindHardware || got.Client() != "Acme" {
		t.Errorf("unexpected record: %s", got)
	}
	if !got.Tariff().Equal(hw.Tariff()) {
		t.Errorf("tariff changed: %s != %s", got.Tariff(), hw.Tariff())
	}

	if err := s.Add(nil); err == nil {
		t.Error("Add(nil) should fail")
	} else {
		expectCode(t, err, store.RetCInvalidArgument)
	}
}

func testCaseInsensitiveFind(t *testing.T, s store.IStore) {
	if err := s.Add(mustHardware(t, "AB12CD34")); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"ab12cd34", "Ab12Cd34", "AB12CD34"} {
		got, err := s.FindByID(id)
		if err != nil {
			t.Errorf("FindByID(%s) failed: %v", id, err)
			continue
		}
		if got.ID() != "AB12CD34" {
			t.Errorf("FindByID(%s) returned id %s", id, got.ID())
		}
	}
}

func testInsertionOrder(t *testing.T, s store.IStore) {
	want := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("ID%06d", 20-i)
		if i%2 == 0 {
			_ = s.Add(mustHardware(t, id))
		} else {
			_ = s.Add(mustSoftware(t, id, "Ubuntu"))
		}
		want = append(want, id)
	}

	got := ids(s.ListAll())
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("order not preserved:\nwant %v\ngot  %v", want, got)
	}

	// removing from the middle keeps the relative order of the rest
	if err := s.Remove("ID000015"); err != nil {
		t.Fatal(err)
	}
	want = append(want[:5:5], want[6:]...)
	got = ids(s.ListAll())
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("order not preserved after remove:\nwant %v\ngot  %v", want, got)
	}
}

func testRemove(t *testing.T, s store.IStore) {
	_ = s.Add(mustHardware(t, "AAAA0001"))
	_ = s.Add(mustSoftware(t, "AAAA0002", "Ubuntu"))

	if err := s.Remove("aaaa0001"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := s.FindByID("AAAA0001"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("record still findable after remove: %v", err)
	}

	err := s.Remove("AAAA0001")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second Remove should fail with not found, got %v", err)
	}
	if id, ok := store.IsNotFound(err); !ok || id != "AAAA0001" {
		t.Errorf("IsNotFound = (%q, %v)", id, ok)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 remaining record, got %d", s.Len())
	}
}

func testRemoveFromEmpty(t *testing.T, s store.IStore) {
	err := s.Remove("ZZZZZZZZ")
	se := expectCode(t, err, store.RetCNotFound)
	if se.ID != "ZZZZZZZZ" {
		t.Errorf("expected error to carry the id, got %q", se.ID)
	}
	if _, err := s.FindByID("ZZZZZZZZ"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testEmptyID(t *testing.T, s store.IStore) {
	_ = s.Add(mustHardware(t, "AAAA0001"))
	for _, id := range []string{"", "   "} {
		_, err := s.FindByID(id)
		expectCode(t, err, store.RetCInvalidArgument)
		expectCode(t, s.Remove(id), store.RetCInvalidArgument)
		expectCode(t, s.Update(id, func(record.Record) error { return nil }), store.RetCInvalidArgument)
	}
	if s.Len() != 1 {
		t.Errorf("store changed by invalid calls, len=%d", s.Len())
	}
}

func testDuplicateID(t *testing.T, s store.IStore) {
	if err := s.Add(mustHardware(t, "DUP00001")); err != nil {
		t.Fatal(err)
	}
	err := s.Add(mustSoftware(t, "dup00001", "Ubuntu"))
	se := expectCode(t, err, store.RetCDuplicateID)
	if se.ID != "dup00001" {
		t.Errorf("expected error to carry the id, got %q", se.ID)
	}
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Error("errors.Is(err, ErrDuplicateID) should hold")
	}
	if s.Len() != 1 {
		t.Errorf("duplicate was stored, len=%d", s.Len())
	}
}

func testSnapshotIsolation(t *testing.T, s store.IStore) {
	original := mustHardware(t, "ISO00001")
	_ = s.Add(original)

	// changing the value passed to Add does not change the store
	_ = original.SetClient("Changed")
	got, _ := s.FindByID("ISO00001")
	if got.Client() != "Acme" {
		t.Errorf("store shares state with the added value: %s", got.Client())
	}

	// neither does changing listed or found values
	list := s.ListAll()
	_ = list[0].SetClient("Changed")
	_ = got.SetClient("Changed")
	list[0] = nil

	again, _ := s.FindByID("ISO00001")
	if again.Client() != "Acme" {
		t.Errorf("store shares state with a snapshot: %s", again.Client())
	}
	if s.Len() != 1 {
		t.Errorf("len changed through snapshot: %d", s.Len())
	}
}

func testUpdate(t *testing.T, s store.IStore) {
	_ = s.Add(mustSoftware(t, "UPD00001", "Ubuntu"))
	_ = s.Add(mustHardware(t, "UPD00002"))

	// full field replacement through the variant setter
	err := s.Update("upd00001", func(r record.Record) error {
		return r.(*record.Software).SetOperatingSystem("Windows Server 2022")
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := s.FindByID("UPD00001")
	if got.Tariff().StringFixed(2) != "77.00" {
		t.Errorf("tariff not recomputed after update: %s", got.Tariff())
	}

	// failing setter leaves the record unchanged, even if earlier setters succeeded
	err = s.Update("UPD00001", func(r record.Record) error {
		if err := r.SetClient("Other"); err != nil {
			return err
		}
		return r.SetDescription("")
	})
	if !errors.Is(err, record.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ = s.FindByID("UPD00001")
	if got.Client() != "Globex" {
		t.Errorf("partial update leaked: client=%s", got.Client())
	}

	// renaming onto another id is rejected
	err = s.Update("UPD00001", func(r record.Record) error { return r.SetID("upd00002") })
	expectCode(t, err, store.RetCDuplicateID)
	if _, err := s.FindByID("UPD00001"); err != nil {
		t.Errorf("record lost after rejected rename: %v", err)
	}

	// renaming to a free id works and keeps the position
	if err := s.Update("UPD00001", func(r record.Record) error { return r.SetID("UPD00009") }); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.ListAll()); fmt.Sprint(got) != "[UPD00009 UPD00002]" {
		t.Errorf("unexpected ids after rename: %v", got)
	}

	expectCode(t, s.Update("NOPE0000", func(record.Record) error { return nil }), store.RetCNotFound)
}

func testReset(t *testing.T, s store.IStore) {
	_ = s.Add(mustHardware(t, "OLD00001"))

	fresh := []record.Record{mustSoftware(t, "NEW00001", "Ubuntu"), mustHardware(t, "NEW00002")}
	if err := s.Reset(fresh); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if got := ids(s.ListAll()); fmt.Sprint(got) != "[NEW00001 NEW00002]" {
		t.Errorf("unexpected content after reset: %v", got)
	}

	// invalid input leaves the content alone
	err := s.Reset([]record.Record{mustHardware(t, "X0000001"), mustHardware(t, "x0000001")})
	expectCode(t, err, store.RetCDuplicateID)
	err = s.Reset([]record.Record{nil})
	expectCode(t, err, store.RetCInvalidArgument)
	if s.Len() != 2 {
		t.Errorf("content changed by failed reset, len=%d", s.Len())
	}

	if err := s.Reset(nil); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}
